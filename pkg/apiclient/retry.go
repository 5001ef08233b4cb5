package apiclient

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	defaultMaxAttempts = 3
	defaultRetryDelay  = 500 * time.Millisecond
)

// RetryClient wraps Client with bounded retries. Failed requests are
// retried up to MaxAttempts times total, except 401 responses: retrying
// cannot fix a bad credential, so those surface immediately.
type RetryClient struct {
	client      *Client
	MaxAttempts int
	Delay       time.Duration
	logger      *logrus.Logger
}

// NewRetryClient wraps client with the default retry policy
func NewRetryClient(client *Client) *RetryClient {
	return &RetryClient{
		client:      client,
		MaxAttempts: defaultMaxAttempts,
		Delay:       defaultRetryDelay,
		logger:      client.logger,
	}
}

// Do behaves like Client.Do with the retry policy applied
func (r *RetryClient) Do(ctx context.Context, method, path string, body, out interface{}) error {
	var lastErr error
	for attempt := 1; attempt <= r.MaxAttempts; attempt++ {
		lastErr = r.client.Do(ctx, method, path, body, out)
		if lastErr == nil {
			return nil
		}
		if !shouldRetry(lastErr) {
			return lastErr
		}
		if attempt == r.MaxAttempts {
			break
		}

		r.logger.WithFields(logrus.Fields{
			"method":  method,
			"path":    path,
			"attempt": attempt,
			"error":   lastErr.Error(),
		}).Warn("Retrying API request")

		select {
		case <-time.After(r.Delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return lastErr
}

// Get is shorthand for Do with GET and no request body
func (r *RetryClient) Get(ctx context.Context, path string, out interface{}) error {
	return r.Do(ctx, "GET", path, nil, out)
}

// Post is shorthand for Do with POST
func (r *RetryClient) Post(ctx context.Context, path string, body, out interface{}) error {
	return r.Do(ctx, "POST", path, body, out)
}

// shouldRetry reports whether the error is worth another attempt
func shouldRetry(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if IsUnauthorized(err) {
		return false
	}
	return true
}
