package feed

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/ctv-clearlink/smartnews-feed/model"
)

// maxFeedBytes bounds how much of the origin response is read.
const maxFeedBytes = 32 << 20

// Fetcher downloads the origin feed.
type Fetcher struct {
	client    *http.Client
	userAgent string
}

// NewFetcher returns a Fetcher using client, or a client with the default timeout when nil.
func NewFetcher(client *http.Client, userAgent string) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: model.DefaultTimeout}
	}
	return &Fetcher{client: client, userAgent: userAgent}
}

// Fetch returns the raw feed document. Any non-2xx status, or a body without
// an <rss> root, is an error.
func (f *Fetcher) Fetch(ctx context.Context, feedURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return "", model.CreateValidationError(err, feedURL)
	}
	req.Header.Set("Accept", "application/rss+xml")
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", model.CreateNetworkError(err, feedURL).WithOperation("fetch_feed")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", model.CreateHTTPError(resp.StatusCode, resp.Status, resp.Header, feedURL).
			WithOperation("fetch_feed")
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFeedBytes))
	if err != nil {
		return "", model.CreateNetworkError(err, feedURL).WithOperation("read_feed")
	}

	doc := string(body)
	if !strings.Contains(doc, "<rss") {
		return "", model.NewFeedError(model.ErrorTypeInvalidFormat, "Origin did not return RSS/XML (no <rss> tag)").
			WithURL(feedURL).
			WithOperation("fetch_feed").
			WithComponent("fetcher").
			WithHTTP(resp.StatusCode, resp.Header)
	}

	model.DebugLogWithContext("Fetched origin feed", "fetcher", "fetch_feed", feedURL, map[string]interface{}{
		"bytes": len(body),
	})
	return doc, nil
}
