package fetch

import (
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/GriffinCanCode/webload/internal/resilience"
)

// RetryConfig defines retry behavior for transport errors.
type RetryConfig struct {
	MaxRetries int
	MinWait    time.Duration
	MaxWait    time.Duration
}

// Options configures a Fetcher backend.
type Options struct {
	Timeout time.Duration
	Retry   RetryConfig

	// RateLimit is the request rate in requests per second; zero or less is unlimited.
	RateLimit float64
	Burst     int

	Breaker resilience.Settings

	// Trace enables the backend's wire-level debug output.
	Trace bool

	// Transport overrides the underlying round tripper.
	Transport http.RoundTripper

	Logger *zap.Logger
}

// DefaultOptions returns options suitable for a single simulated user.
func DefaultOptions() Options {
	return Options{
		Timeout: 30 * time.Second,
		Retry: RetryConfig{
			MaxRetries: 0,
			MinWait:    time.Second,
			MaxWait:    30 * time.Second,
		},
		Breaker: resilience.DefaultSettings(),
	}
}

// NewLimiter builds the pacing limiter for opts.
func (o Options) NewLimiter() *rate.Limiter {
	if o.RateLimit <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	burst := o.Burst
	if burst <= 0 {
		burst = max(1, int(o.RateLimit))
	}
	return rate.NewLimiter(rate.Limit(o.RateLimit), burst)
}

// Log returns the configured logger or a no-op logger.
func (o Options) Log() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}
