package llm

import (
	"context"
	"time"
)

// RetryClient wraps an LLMClient with a per-call timeout and bounded retries
// with doubling backoff. Drafting calls go through this wrapper so a slow or
// flaky provider surfaces as an error, never a silent hang.
type RetryClient struct {
	inner      LLMClient
	timeout    time.Duration
	maxRetries int
	baseDelay  time.Duration
}

func WithRetry(inner LLMClient, timeout time.Duration, maxRetries int) *RetryClient {
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &RetryClient{
		inner:      inner,
		timeout:    timeout,
		maxRetries: maxRetries,
		baseDelay:  time.Second,
	}
}

func (c *RetryClient) Generate(ctx context.Context, prompt string) (string, error) {
	var lastErr error
	delay := c.baseDelay

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
		}

		callCtx, cancel := context.WithTimeout(ctx, c.timeout)
		out, err := c.inner.Generate(callCtx, prompt)
		cancel()
		if err == nil {
			return out, nil
		}
		lastErr = err

		// The caller cancelling is not retryable; a per-call timeout is.
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
	}
	return "", lastErr
}
