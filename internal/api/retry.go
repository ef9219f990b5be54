package api

import (
	"context"
	"os"
	"strconv"
	"time"
)

// Default retry configuration values. Retries cover transport failures only:
// a delivered HTTP response is never retried at this layer, because several
// operations (purchase validation, ticket creation) are not idempotent.
const (
	DefaultMaxRetries = 2 // 3 attempts total
	DefaultRetryDelay = 1 * time.Second
)

// RouterConfig holds the retry budget and inter-retry delay. The delay is
// fixed rather than exponential; requests are short-lived and the budget is
// small, which keeps timing deterministic for tests.
type RouterConfig struct {
	MaxRetries int
	RetryDelay time.Duration
}

// DefaultRouterConfig returns a RouterConfig populated from environment
// variables with fallback to default values.
//
// Environment variables:
//   - VXHUB_MAX_RETRIES: transport-error retries per request (default: 2)
//   - VXHUB_RETRY_DELAY: delay between attempts (default: "1s")
func DefaultRouterConfig() RouterConfig {
	return RouterConfig{
		MaxRetries: getEnvInt("VXHUB_MAX_RETRIES", DefaultMaxRetries),
		RetryDelay: getEnvDuration("VXHUB_RETRY_DELAY", DefaultRetryDelay),
	}
}

// getEnvInt reads an integer from an environment variable with a default fallback.
func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil && parsed >= 0 {
			return parsed
		}
	}
	return defaultVal
}

// getEnvDuration reads a duration from an environment variable with a default fallback.
func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil && parsed >= 0 {
			return parsed
		}
	}
	return defaultVal
}

// sleepWithContext waits for the duration or returns early on context
// cancellation, so a cancelled request also cancels its pending retry.
func sleepWithContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
