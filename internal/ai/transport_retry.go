package ai

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math"
	"math/big"
	"net"
	"net/http"
	"time"

	apperrors "talentscout/internal/errors"

	"google.golang.org/api/googleapi"
)

const maxTransportBackoff = 30 * time.Second

// transportBackoff returns 2^(attempt-1) seconds plus up to 10% jitter, capped at 30s
func transportBackoff(attempt int) time.Duration {
	baseDelay := time.Duration(math.Pow(2, float64(attempt-1))) * time.Second
	// Use crypto/rand for secure random jitter
	jitter := time.Duration(0)
	if jitterMax := big.NewInt(int64(float64(baseDelay) * 0.1)); jitterMax.Sign() > 0 {
		if jitterBig, err := rand.Int(rand.Reader, jitterMax); err == nil {
			jitter = time.Duration(jitterBig.Int64())
		}
	}
	return min(baseDelay+jitter, maxTransportBackoff)
}

// executeWithRetry retries fn on transient transport failures with exponential backoff
func executeWithRetry(ctx context.Context, logger *apperrors.Logger, operation string, maxRetries int, fn func() (completion, error)) (completion, error) {
	var lastErr error

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			logger.Warn("Retrying AI operation",
				"operation", operation,
				"attempt", attempt,
				"max_retries", maxRetries,
				"error", lastErr.Error())

			select {
			case <-time.After(transportBackoff(attempt)):
			case <-ctx.Done():
				return completion{}, ctx.Err()
			}
		}

		result, err := fn()
		if err == nil {
			if attempt > 0 {
				logger.Info("AI operation succeeded after retry",
					"operation", operation,
					"total_attempts", attempt+1)
			}
			return result, nil
		}

		lastErr = err

		// Don't retry on certain errors (auth, invalid input, etc.)
		if !isRetryableError(err) {
			logger.Debug("Error is not retryable, stopping retry attempts",
				"operation", operation,
				"error", err.Error())
			break
		}
	}

	logger.LogError(lastErr, "AI operation failed after all retry attempts",
		"operation", operation,
		"total_attempts", maxRetries+1)

	return completion{}, fmt.Errorf("operation '%s' failed: %w", operation, lastErr)
}

// isRetryableError determines if an error should trigger a retry
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}

	// Check for network errors (timeouts, connection issues)
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return isRetryableStatus(apiErr.Code)
	}

	var statusErr *HTTPStatusError
	if errors.As(err, &statusErr) {
		return isRetryableStatus(statusErr.StatusCode)
	}

	return false
}

func isRetryableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

// HTTPStatusError is a non-2xx reply from an HTTP generation API
type HTTPStatusError struct {
	StatusCode int
	Message    string
}

func (e *HTTPStatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("generation API returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("generation API returned status %d: %s", e.StatusCode, e.Message)
}

// withTimeout bounds a single provider call; a zero timeout leaves ctx unchanged
func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}
