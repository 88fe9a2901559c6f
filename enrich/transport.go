package enrich

import (
	"context"
	"net/http"

	"golang.org/x/time/rate"

	"github.com/ctv-clearlink/smartnews-feed/model"
)

// RateLimitedTransport wraps an http.RoundTripper with rate limiting
type RateLimitedTransport struct {
	transport   http.RoundTripper
	rateLimiter *rate.Limiter
}

// NewRateLimitedTransport limits base to requestsPerSecond with the given burst.
// A nil base uses http.DefaultTransport.
func NewRateLimitedTransport(base http.RoundTripper, requestsPerSecond float64, burstCapacity int) *RateLimitedTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &RateLimitedTransport{
		transport:   base,
		rateLimiter: rate.NewLimiter(rate.Limit(requestsPerSecond), burstCapacity),
	}
}

// RoundTrip implements the http.RoundTripper interface with rate limiting.
// A request whose context ends before a token is available fails with an
// ErrorTypeRateLimit FeedError.
func (r *RateLimitedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := r.rateLimiter.Wait(req.Context()); err != nil {
		return nil, model.CreateRateLimitError(err, req.URL.String())
	}
	return r.transport.RoundTrip(req)
}

// contextTransport binds every request to ctx. colly builds its requests
// without a context, so this is how a lookup's deadline reaches the limiter.
type contextTransport struct {
	ctx       context.Context
	transport http.RoundTripper
}

func (c contextTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	return c.transport.RoundTrip(req.WithContext(c.ctx))
}
