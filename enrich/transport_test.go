package enrich

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ctv-clearlink/smartnews-feed/model"
)

func TestRateLimitedTransport_Burst(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	client := &http.Client{Transport: NewRateLimitedTransport(nil, 1, 2)}

	start := time.Now()
	for i := 0; i < 2; i++ {
		resp, err := client.Get(srv.URL)
		require.NoError(t, err)
		resp.Body.Close()
	}
	assert.Less(t, time.Since(start), 500*time.Millisecond, "burst requests should not wait")
}

func TestRateLimitedTransport_HonoursContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	transport := NewRateLimitedTransport(nil, 0.001, 1)
	client := &http.Client{Transport: transport}

	resp, err := client.Get(srv.URL)
	require.NoError(t, err)
	resp.Body.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL, nil)
	require.NoError(t, err)

	_, err = client.Do(req)
	require.Error(t, err)

	var feedErr *model.FeedError
	require.True(t, errors.As(err, &feedErr))
	assert.Equal(t, model.ErrorTypeRateLimit, feedErr.ErrorType)
	assert.Equal(t, srv.URL, feedErr.URL)
	assert.Equal(t, "rate_limiter", feedErr.Component)
}
