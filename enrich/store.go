// Package enrich recovers thumbnails and author names from article pages.
package enrich

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/store"
	ristretto_store "github.com/eko/gocache/store/ristretto/v4"
	"github.com/gocolly/colly"
	"github.com/sony/gobreaker"

	"github.com/ctv-clearlink/smartnews-feed/model"
)

type Config struct {
	UserAgent                      string
	Timeout                        time.Duration
	ExpireAfter                    time.Duration
	Transport                      http.RoundTripper
	RequestsPerSecond              float64
	BurstCapacity                  int
	AllowPrivateIPs                bool
	CircuitBreakerEnabled          *bool
	CircuitBreakerMaxRequests      uint32
	CircuitBreakerInterval         time.Duration
	CircuitBreakerTimeout          time.Duration
	CircuitBreakerFailureThreshold uint32
}

// Store fetches article pages and caches what was found on them, so the
// thumbnail and the author of an item cost one request between them.
type Store struct {
	config          Config
	transport       http.RoundTripper
	pageCache       *cache.LoadableCache[string]
	circuitBreakers map[string]*gobreaker.CircuitBreaker
	breakersEnabled bool
	mu              sync.Mutex
}

func NewStore(config Config) (*Store, error) {
	if config.UserAgent == "" {
		return nil, errors.New("a user agent must be specified")
	}

	if config.Timeout == 0 {
		config.Timeout = model.DefaultTimeout
	}

	if config.ExpireAfter == 0 {
		config.ExpireAfter = 1 * time.Hour
	}

	if config.RequestsPerSecond <= 0 {
		config.RequestsPerSecond = model.DefaultRequestsPerSecond
	}

	if config.BurstCapacity <= 0 {
		config.BurstCapacity = model.DefaultBurstCapacity
	}

	if config.CircuitBreakerMaxRequests <= 0 {
		config.CircuitBreakerMaxRequests = 1 // Allow 1 half-open request
	}
	if config.CircuitBreakerInterval <= 0 {
		config.CircuitBreakerInterval = 60 * time.Second
	}
	if config.CircuitBreakerTimeout <= 0 {
		config.CircuitBreakerTimeout = 30 * time.Second
	}
	if config.CircuitBreakerFailureThreshold <= 0 {
		config.CircuitBreakerFailureThreshold = 3 // Open circuit after 3 consecutive failures
	}

	ristrettoCache, err := ristretto.NewCache[string, string](&ristretto.Config[string, string]{
		NumCounters: 10000,
		MaxCost:     1 << 24,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	ristrettoStore := ristretto_store.NewRistretto(ristrettoCache)

	s := &Store{
		config:          config,
		transport:       NewRateLimitedTransport(config.Transport, config.RequestsPerSecond, config.BurstCapacity),
		circuitBreakers: make(map[string]*gobreaker.CircuitBreaker),
		breakersEnabled: config.CircuitBreakerEnabled == nil || *config.CircuitBreakerEnabled,
	}

	loadFunction := func(ctx context.Context, key any) (string, []store.Option, error) {
		pageURL, ok := key.(string)
		if !ok {
			return "", nil, model.CreateInternalError(fmt.Sprintf("page cache key has type %T", key), "page_cache")
		}
		meta, err := s.fetch(ctx, pageURL)
		if err != nil {
			return "", nil, err
		}
		data, err := json.Marshal(meta)
		if err != nil {
			return "", nil, err
		}
		return string(data), []store.Option{
			store.WithExpiration(config.ExpireAfter),
			store.WithCost(int64(len(data))),
		}, nil
	}

	s.pageCache = cache.NewLoadable[string](
		loadFunction,
		cache.New[string](ristrettoStore),
	)

	return s, nil
}

// Lookup returns what the article page at pageURL says about its image and author.
func (s *Store) Lookup(ctx context.Context, pageURL string) (*model.PageMeta, error) {
	if err := model.ValidateFeedURL(pageURL, s.config.AllowPrivateIPs); err != nil {
		return nil, model.CreateValidationError(err, pageURL)
	}

	data, err := s.pageCache.Get(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	var meta model.PageMeta
	if err := json.Unmarshal([]byte(data), &meta); err != nil {
		return nil, model.NewFeedErrorWithCause(model.ErrorTypeCache, "Cached page metadata is corrupt", err).
			WithURL(pageURL).
			WithOperation("lookup").
			WithComponent("page_cache")
	}
	return &meta, nil
}

// BreakerState reports the circuit breaker state for the host of pageURL.
func (s *Store) BreakerState(pageURL string) gobreaker.State {
	cb := s.breakerFor(pageURL)
	if cb == nil {
		return gobreaker.StateClosed
	}
	return cb.State()
}

func (s *Store) fetch(ctx context.Context, pageURL string) (*model.PageMeta, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cb := s.breakerFor(pageURL)
	if cb == nil {
		return s.scrape(ctx, pageURL)
	}

	result, err := cb.Execute(func() (interface{}, error) {
		return s.scrape(ctx, pageURL)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, model.CreateCircuitBreakerError(pageURL, cb.State().String())
	}
	if err != nil {
		return nil, err
	}
	if meta, ok := result.(*model.PageMeta); ok {
		return meta, nil
	}
	return nil, model.CreateInternalError(fmt.Sprintf("circuit breaker returned %T", result), "circuit_breaker").
		WithURL(pageURL)
}

// breakerFor returns the breaker for the URL's host, creating it on first use.
func (s *Store) breakerFor(pageURL string) *gobreaker.CircuitBreaker {
	if !s.breakersEnabled {
		return nil
	}
	u, err := url.Parse(pageURL)
	if err != nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if cb, exists := s.circuitBreakers[u.Host]; exists {
		return cb
	}
	threshold := s.config.CircuitBreakerFailureThreshold
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        fmt.Sprintf("article-%s", u.Host),
		MaxRequests: s.config.CircuitBreakerMaxRequests,
		Interval:    s.config.CircuitBreakerInterval,
		Timeout:     s.config.CircuitBreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		// A missing article, or our own limiter giving up, is not the host's fault.
		IsSuccessful: func(err error) bool {
			var feedErr *model.FeedError
			if errors.As(err, &feedErr) {
				return feedErr.ErrorType == model.ErrorTypeHTTPClientError ||
					feedErr.ErrorType == model.ErrorTypeRateLimit
			}
			return err == nil
		},
	})
	s.circuitBreakers[u.Host] = cb
	return cb
}

// scrape visits the page with colly and extracts its metadata.
func (s *Store) scrape(ctx context.Context, pageURL string) (*model.PageMeta, error) {
	ctx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	c := colly.NewCollector(colly.UserAgent(s.config.UserAgent))
	c.WithTransport(contextTransport{ctx: ctx, transport: s.transport})
	c.SetRequestTimeout(s.config.Timeout)

	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("Accept", "text/html")
	})

	meta := &model.PageMeta{URL: pageURL}
	c.OnHTML("html", func(e *colly.HTMLElement) {
		meta = ExtractPageMeta(e.DOM, pageURL)
	})

	var status int
	var headers http.Header
	c.OnError(func(r *colly.Response, _ error) {
		if r != nil {
			status = r.StatusCode
			if r.Headers != nil {
				headers = *r.Headers
			}
		}
	})

	if err := c.Visit(pageURL); err != nil {
		var feedErr *model.FeedError
		if errors.As(err, &feedErr) && feedErr.ErrorType == model.ErrorTypeRateLimit {
			return nil, feedErr
		}
		if status >= 300 {
			return nil, model.CreateHTTPError(status, "", headers, pageURL).
				WithOperation("fetch_article").
				WithComponent("enricher")
		}
		return nil, model.CreateNetworkError(err, pageURL).
			WithOperation("fetch_article").
			WithComponent("enricher")
	}

	return meta, nil
}
