// Package futbin fetches and parses futbin player pages.
package futbin

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/okian/futdash/pkg/logger"
	"github.com/okian/futdash/pkg/metrics"
)

// Fetch kinds used for metrics and logs.
const (
	kindProfile = "profile"
	kindUpdate  = "update"
	kindPrice   = "price"
	kindLatest  = "latest"
)

// Client talks to one futbin-style site. It is safe for concurrent use;
// every worker shares the limiter and the breaker.
type Client struct {
	http     *resty.Client
	breaker  *gobreaker.CircuitBreaker
	urls     URLs
	platform string
	log      logger.Logger
}

// New creates a client for baseURL and season, e.g. "https://www.futbin.com" and "20".
func New(baseURL, season string, opts ...Option) *Client {
	s := defaultSettings()
	for _, opt := range opts {
		opt(&s)
	}
	if s.log == nil {
		s.log = logger.Named("futbin")
	}

	httpClient := resty.New().
		SetTimeout(s.timeout).
		SetHeader("User-Agent", s.userAgent).
		SetRetryCount(s.retryCount).
		SetRetryWaitTime(s.retryWait).
		SetRetryMaxWaitTime(s.retryMaxWait).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || retryable(r.StatusCode())
		})
	if s.transport != nil {
		httpClient.SetTransport(s.transport)
	}

	// runs before every attempt, retries included
	limiter := rate.NewLimiter(rate.Limit(s.rps), s.burst)
	httpClient.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		return limiter.Wait(req.Context())
	})

	c := &Client{
		http:     httpClient,
		urls:     newURLs(baseURL, season),
		platform: s.platform,
		log:      s.log,
	}
	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "futbin",
		MaxRequests: 1,
		Timeout:     s.breakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= s.breakerFailures
		},
		// the caller giving up says nothing about the site
		IsSuccessful: func(err error) bool {
			return err == nil || !errors.Is(err, ErrTransport) || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.UpdateBreakerState(int(to))
			c.log.Warn(context.Background(), "circuit breaker state changed",
				logger.String("circuit", name),
				logger.String("from", from.String()),
				logger.String("to", to.String()))
		},
	})
	return c
}

// URLs returns the endpoints the client requests.
func (c *Client) URLs() URLs { return c.urls }

// get performs one guarded GET and returns the body of any non-retryable response.
// A 404 is a page, not a transport failure.
func (c *Client) get(ctx context.Context, kind, url string) ([]byte, error) {
	start := time.Now()
	out, err := c.breaker.Execute(func() (interface{}, error) {
		resp, err := c.http.R().SetContext(ctx).Get(url)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, fmt.Errorf("%w: %w: %w", ErrTransport, ctxErr, err)
			}
			return nil, fmt.Errorf("%w: %w", ErrTransport, err)
		}
		if retryable(resp.StatusCode()) {
			return nil, fmt.Errorf("%w: %s answered %d", ErrTransport, url, resp.StatusCode())
		}
		return resp.Body(), nil
	})
	status := "ok"
	if err != nil {
		status = "error"
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			err = fmt.Errorf("%w: %w", ErrTransport, err)
		}
	}
	metrics.RecordFetch(kind, status, float64(time.Since(start).Microseconds())/1000)
	if err != nil {
		return nil, err
	}
	return out.([]byte), nil
}

func retryable(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}
