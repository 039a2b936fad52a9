package ollama

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"text-assist/internal/retry"
)

const maxRetryDelay = time.Second

// retryHTTP retries op on transient network errors and on 408/429 responses.
// Other statuses, including 5xx, are returned to the caller immediately.
func retryHTTP(ctx context.Context, maxAttempts int, baseDelay time.Duration, op func() (*http.Response, error)) (*http.Response, error) {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		resp, err := op()
		retriable := false
		switch {
		case err != nil:
			retriable = isRetriableError(err)
		case isRetriableStatus(resp.StatusCode):
			retriable = true
		default:
			return resp, nil
		}
		if !retriable || attempt == maxAttempts-1 {
			return resp, err
		}
		if resp != nil {
			// close body before retry to avoid leaks
			resp.Body.Close()
		}

		timer := time.NewTimer(retry.CappedBackoff(attempt, baseDelay, maxRetryDelay))
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}

func isRetriableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code == http.StatusRequestTimeout
}

func isRetriableError(err error) bool {
	var ne net.Error
	if errors.As(err, &ne) {
		return ne.Timeout()
	}
	var opErr *net.OpError
	return errors.As(err, &opErr)
}
