package feed

import (
	"context"
	"errors"
)

// FakeClient is a test double that returns scripted feed bodies.
type FakeClient struct {
	// Responses contains scripted bodies to return. Each call to Fetch
	// consumes the next one; the last repeats once exhausted.
	Responses [][]byte

	// index tracks current position in Responses
	index int

	// FetchError, if set, will be returned by Fetch()
	FetchError error

	// URLs records every URL requested.
	URLs []string
}

// NewFakeClient creates a FakeClient with the given bodies.
func NewFakeClient(responses ...[]byte) *FakeClient {
	return &FakeClient{Responses: responses}
}

// Fetch returns the next scripted body.
func (f *FakeClient) Fetch(_ context.Context, url string) ([]byte, error) {
	f.URLs = append(f.URLs, url)

	if f.FetchError != nil {
		return nil, f.FetchError
	}

	if len(f.Responses) == 0 {
		return nil, errors.New("no responses configured")
	}

	body := f.Responses[f.index]
	if f.index < len(f.Responses)-1 {
		f.index++
	}

	return body, nil
}

// Calls reports how many fetches have been made.
func (f *FakeClient) Calls() int {
	return len(f.URLs)
}

// Reset rewinds the fake to the first response.
func (f *FakeClient) Reset() {
	f.index = 0
	f.URLs = nil
	f.FetchError = nil
}
