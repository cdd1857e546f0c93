package feed

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"
)

// RealClient fetches the feed over HTTP. Connecting and reading are
// bounded separately so a reachable but silent server cannot hold a
// cycle for longer than the read timeout.
type RealClient struct {
	client *http.Client
}

// NewRealClient builds a client with the given connect and read timeouts.
func NewRealClient(connectTimeout, readTimeout time.Duration) *RealClient {
	dialer := &net.Dialer{Timeout: connectTimeout}
	return &RealClient{
		client: &http.Client{
			Transport: &http.Transport{
				DialContext:           dialer.DialContext,
				ResponseHeaderTimeout: readTimeout,
			},
			Timeout: connectTimeout + readTimeout,
		},
	}
}

// Fetch performs one GET against the feed endpoint. Only a 200 response
// yields a body; anything else is a *FetchError.
func (c *RealClient) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &FetchError{URL: url, Status: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{URL: url, Err: fmt.Errorf("read body: %w", err)}
	}
	return body, nil
}
