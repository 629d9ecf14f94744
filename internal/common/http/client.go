// internal/common/http/client.go
package http

import (
	"context"
	"net/http"
	"time"
)

// Client wraps net/http with a hard per-client timeout and measures every
// round trip, so callers can hold responses against their own latency
// budgets without re-instrumenting each call site.
type Client struct {
	httpClient *http.Client
}

func NewClient(timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// DoWithContext performs the request under ctx and returns the elapsed
// round-trip time alongside the response. Elapsed is populated on error
// too: a timed-out attempt still reports how long it was allowed to run.
func (c *Client) DoWithContext(ctx context.Context, req *http.Request) (*http.Response, time.Duration, error) {
	start := time.Now()
	resp, err := c.httpClient.Do(req.WithContext(ctx))
	return resp, time.Since(start), err
}
