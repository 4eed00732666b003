// internal/common/http/client.go

// Package http wraps the standard client for outbound calls to the
// extraction service. Deadlines come from the per-call context; the
// client-level timeout is a hard backstop for callers that pass an
// unbounded context.
package http

import (
	"bytes"
	"context"
	"net/http"
	"time"
)

type Client struct {
	httpClient *http.Client
}

// NewClient builds a client with the given backstop timeout. A zero
// timeout disables the backstop entirely.
func NewClient(timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *Client) Do(req *http.Request) (*http.Response, error) {
	return c.httpClient.Do(req)
}

// PostJSON sends a JSON body to url with the given bearer token.
// An empty token omits the Authorization header.
func (c *Client) PostJSON(ctx context.Context, url string, body []byte, bearerToken string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if bearerToken != "" {
		req.Header.Set("Authorization", "Bearer "+bearerToken)
	}
	return c.httpClient.Do(req)
}
