package futbin

import (
	"net/http"
	"time"

	"github.com/okian/futdash/pkg/logger"
)

type settings struct {
	timeout         time.Duration
	retryCount      int
	retryWait       time.Duration
	retryMaxWait    time.Duration
	rps             float64
	burst           int
	breakerFailures uint32
	breakerTimeout  time.Duration
	userAgent       string
	platform        string
	transport       http.RoundTripper
	log             logger.Logger
}

func defaultSettings() settings {
	return settings{
		timeout:         30 * time.Second,
		retryCount:      2,
		retryWait:       200 * time.Millisecond,
		retryMaxWait:    2 * time.Second,
		rps:             5,
		burst:           1,
		breakerFailures: 5,
		breakerTimeout:  30 * time.Second,
		userAgent:       "futdash/1.0",
		platform:        "ps",
	}
}

// Option configures a Client.
type Option func(*settings)

// WithTimeout bounds one request attempt.
func WithTimeout(d time.Duration) Option {
	return func(s *settings) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithRetry sets the retry count and backoff window for transport errors, 5xx and 429.
func WithRetry(count int, wait, maxWait time.Duration) Option {
	return func(s *settings) {
		s.retryCount = max(count, 0)
		if wait > 0 {
			s.retryWait = wait
		}
		if maxWait > 0 {
			s.retryMaxWait = maxWait
		}
	}
}

// WithRateLimit caps request attempts per second across every caller.
func WithRateLimit(rps float64, burst int) Option {
	return func(s *settings) {
		if rps > 0 {
			s.rps = rps
		}
		if burst > 0 {
			s.burst = burst
		}
	}
}

// WithBreaker opens the circuit after failures consecutive transport failures
// and probes again after timeout.
func WithBreaker(failures int, timeout time.Duration) Option {
	return func(s *settings) {
		if failures > 0 {
			s.breakerFailures = uint32(failures)
		}
		if timeout > 0 {
			s.breakerTimeout = timeout
		}
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(s *settings) {
		if ua != "" {
			s.userAgent = ua
		}
	}
}

// WithPlatform selects the price series key, e.g. "ps", "xbox" or "pc".
func WithPlatform(platform string) Option {
	return func(s *settings) {
		if platform != "" {
			s.platform = platform
		}
	}
}

// WithTransport replaces the HTTP round tripper.
func WithTransport(rt http.RoundTripper) Option {
	return func(s *settings) { s.transport = rt }
}

// WithLogger sets the client logger.
func WithLogger(l logger.Logger) Option {
	return func(s *settings) { s.log = l }
}
