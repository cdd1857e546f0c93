// Package feed fetches the remote sensor feed and decodes it into readings.
package feed

import (
	"context"
	"fmt"
)

// Client retrieves the raw feed body.
type Client interface {
	// Fetch performs one request against the feed endpoint and returns the
	// response body. Failures are reported as *FetchError.
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// FetchError reports a failed feed request. Status carries the HTTP
// status code of a non-200 response and is zero for transport failures
// (dial, DNS, timeout, body read).
type FetchError struct {
	URL    string
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.Status)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ParseError reports a body whose top-level structure could not be
// decoded. A bad individual entry never produces a ParseError; those are
// skipped one by one.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse feed: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
