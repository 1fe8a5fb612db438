package facades

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

var (
	// ErrUnexpectedStatus is returned when a feed answers with a non-2xx status.
	ErrUnexpectedStatus = errors.New("unexpected status")
	// ErrMalformedFeed is returned when a feed body cannot be decoded.
	ErrMalformedFeed = errors.New("malformed rate feed")
	// ErrEmptyFeed is returned when a feed decodes to zero quotes.
	ErrEmptyFeed = errors.New("empty rate feed")
	// ErrNoUsablePrice is returned when a quote lacks the prices a rule needs.
	ErrNoUsablePrice = errors.New("quote has no usable price")
)

// DefaultTimeout bounds a single feed request.
const DefaultTimeout = 10 * time.Second

func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{Timeout: timeout}
}

// getFeed performs a GET and returns the body of a 2xx response.
func getFeed(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to get rates: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, nil
}
