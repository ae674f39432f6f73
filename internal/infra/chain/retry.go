package chain

import (
	"context"
	"math"
	"strings"
	"time"
)

// RetryConfig defines retry behavior for chain reads.
type RetryConfig struct {
	MaxAttempts     int
	InitialDelay    time.Duration
	MaxDelay        time.Duration
	BackoffMultiple float64
}

// DefaultRetryConfig provides sensible defaults.
var DefaultRetryConfig = RetryConfig{
	MaxAttempts:     3,
	InitialDelay:    500 * time.Millisecond,
	MaxDelay:        5 * time.Second,
	BackoffMultiple: 2.0,
}

// isRetryable classifies a chain read error. Reverts and malformed-call
// errors are deterministic and must not be retried; only transport-level
// failures are worth a second attempt.
func isRetryable(err error) bool {
	if err == nil {
		return false
	}

	s := strings.ToLower(err.Error())

	// Deterministic call failures
	// -32000 execution errors carry "revert"; -32601/-32602 are request bugs
	if strings.Contains(s, "revert") ||
		strings.Contains(s, "method not found") ||
		strings.Contains(s, "invalid params") ||
		strings.Contains(s, "invalid argument") ||
		strings.Contains(s, "abi:") {
		return false
	}

	return true
}

// withRetry executes fn with exponential backoff for transient errors.
func withRetry(ctx context.Context, cfg RetryConfig, fn func(context.Context) error) error {
	var lastErr error

	for attempt := 0; attempt < cfg.MaxAttempts; attempt++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}

		lastErr = err
		if !isRetryable(err) {
			return err
		}
		if attempt == cfg.MaxAttempts-1 {
			break
		}

		delay := calculateBackoff(attempt, cfg)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}

	return lastErr
}

func calculateBackoff(attempt int, cfg RetryConfig) time.Duration {
	delay := float64(cfg.InitialDelay) * math.Pow(cfg.BackoffMultiple, float64(attempt))
	if delay > float64(cfg.MaxDelay) {
		delay = float64(cfg.MaxDelay)
	}
	return time.Duration(delay)
}
