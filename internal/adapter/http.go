package adapter

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/waycover/waycover/internal/logger"
)

// HTTPClient fetches remote documents, namely network files referenced by
// URL on import.
//
//go:generate mockgen -source=http.go -destination=../mocks/http.go -package=mocks -mock_names=HTTPClient=MockHTTPClient
type HTTPClient interface {
	// Fetch performs a GET request and returns the response body
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// RealHTTPClient is the production HTTPClient over net/http
type RealHTTPClient struct {
	client *http.Client
}

func NewHTTPClient(timeout time.Duration) HTTPClient {
	return &RealHTTPClient{
		client: &http.Client{Timeout: timeout},
	}
}

// Fetch performs a GET request and returns the response body. Rate
// limiting (429), server errors (5xx) and network failures are retried
// with exponential backoff until the policy gives up.
func (c *RealHTTPClient) Fetch(ctx context.Context, url string) ([]byte, error) {
	var body []byte

	operation := func() error {
		var err error
		body, err = c.fetchOnce(ctx, url)
		return err
	}
	notify := func(err error, wait time.Duration) {
		logger.Warn("Retrying fetch",
			zap.String("url", url),
			zap.Duration("wait", wait),
			zap.Error(err),
		)
	}

	if err := backoff.RetryNotify(operation, backoff.WithContext(fetchBackOff(), ctx), notify); err != nil {
		return nil, fmt.Errorf("request failed after retries: %w", err)
	}
	return body, nil
}

func (c *RealHTTPClient) fetchOnce(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("failed to create request: %w", err))
	}

	resp, err := c.client.Do(req)
	if err != nil {
		// Network errors are retryable
		return nil, fmt.Errorf("failed to perform request: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Warn("failed to close response body", zap.Error(err), zap.String("url", url))
		}
	}()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, fmt.Errorf("retryable status code %d", resp.StatusCode)
	default:
		detail, _ := io.ReadAll(resp.Body)
		return nil, backoff.Permanent(fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, string(detail)))
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("failed to read response body: %w", err))
	}
	return payload, nil
}

// fetchBackOff bounds retries to a minute with jittered exponential waits
func fetchBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 2 * time.Second
	b.MaxInterval = 30 * time.Second
	b.MaxElapsedTime = time.Minute
	b.Multiplier = 2.0
	b.RandomizationFactor = 0.5
	return b
}
