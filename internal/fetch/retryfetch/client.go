package retryfetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/klauspost/compress/gzhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/GriffinCanCode/webload/internal/fetch"
	"github.com/GriffinCanCode/webload/internal/resilience"
)

type credentials struct {
	user, password string
}

// Client is a retrying fetcher with session header state.
type Client struct {
	http    *retryablehttp.Client
	limiter *rate.Limiter
	breaker *resilience.Breaker
	logger  *zap.Logger

	mu      sync.RWMutex
	headers http.Header
	auth    *credentials
}

var _ fetch.Fetcher = (*Client)(nil)

// New creates a retryablehttp-backed fetcher.
func New(opts fetch.Options) *Client {
	logger := opts.Log().Named("retryablehttp")

	rc := retryablehttp.NewClient()
	rc.RetryMax = opts.Retry.MaxRetries
	rc.RetryWaitMin = opts.Retry.MinWait
	rc.RetryWaitMax = opts.Retry.MaxWait
	rc.Logger = leveledLogger{s: logger.Sugar()}
	rc.CheckRetry = retryTransportErrors
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler

	base := rc.HTTPClient.Transport
	if opts.Transport != nil {
		base = opts.Transport
	}
	rc.HTTPClient.Transport = gzhttp.Transport(base)
	rc.HTTPClient.Timeout = opts.Timeout
	rc.HTTPClient.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}

	if opts.Trace {
		rc.RequestLogHook = func(_ retryablehttp.Logger, req *http.Request, attempt int) {
			logger.Debug("request",
				zap.String("method", req.Method),
				zap.String("url", req.URL.String()),
				zap.Int("attempt", attempt),
				zap.Any("headers", req.Header))
		}
		rc.ResponseLogHook = func(_ retryablehttp.Logger, resp *http.Response) {
			logger.Debug("response",
				zap.Int("status", resp.StatusCode),
				zap.Any("headers", resp.Header))
		}
	}

	return &Client{
		http:    rc,
		limiter: opts.NewLimiter(),
		breaker: resilience.New("retryablehttp", opts.Breaker),
		logger:  logger,
		headers: make(http.Header),
	}
}

// retryTransportErrors retries connection failures only; a status code is
// always a valid page for the browser.
func retryTransportErrors(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if err == nil {
		return false, nil
	}
	return retryablehttp.DefaultRetryPolicy(ctx, resp, err)
}

// Fetch issues one request. GET params become the query string, POST params
// a form body.
func (c *Client) Fetch(ctx context.Context, rawURL string, params url.Values, method string) (*fetch.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit error: %w", err)
	}

	req, err := c.newRequest(ctx, rawURL, params, method)
	if err != nil {
		return nil, fmt.Errorf("building request for %s: %w", rawURL, err)
	}

	var t timer
	req = req.WithContext(t.withTrace(ctx))

	var resp *fetch.Response
	err = c.breaker.Execute(func() error {
		begin := time.Now()
		raw, err := c.http.Do(req)
		if err != nil {
			return err
		}
		defer raw.Body.Close()

		body, err := io.ReadAll(raw.Body)
		if err != nil {
			return fmt.Errorf("reading body: %w", err)
		}
		total, connect, transfer := t.durations(begin, time.Now())

		resp = &fetch.Response{
			URL:          rawURL,
			EffectiveURL: raw.Request.URL.String(),
			Code:         raw.StatusCode,
			Headers:      raw.Header.Clone(),
			ContentType:  fetch.DetectContentType(raw.Header, body),
			Body:         body,
			TotalTime:    total,
			ConnectTime:  connect,
			TransferTime: transfer,
			SizeDownload: int64(len(body)),
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, resilience.ErrCircuitOpen) || errors.Is(err, resilience.ErrTooManyRequests) {
			return nil, fmt.Errorf("fetching %s: target unavailable: %w", rawURL, err)
		}
		return nil, fmt.Errorf("fetching %s: %w", rawURL, err)
	}
	return resp, nil
}

func (c *Client) newRequest(ctx context.Context, rawURL string, params url.Values, method string) (*retryablehttp.Request, error) {
	var (
		target = rawURL
		body   []byte
		err    error
	)

	switch method {
	case fetch.MethodGet, "":
		method = fetch.MethodGet
		if target, err = fetch.EncodeQuery(rawURL, params); err != nil {
			return nil, err
		}
	case fetch.MethodPost:
		body = []byte(params.Encode())
	default:
		return nil, fmt.Errorf("unsupported method %q", method)
	}

	var reqBody interface{}
	if body != nil {
		reqBody = body
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, method, target, reqBody)
	if err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	for name, values := range c.headers {
		for _, v := range values {
			req.Header.Add(name, v)
		}
	}
	if method == fetch.MethodPost {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if c.auth != nil {
		req.SetBasicAuth(c.auth.user, c.auth.password)
	}
	return req, nil
}

// SetHeader sets a default header; an empty value removes it.
func (c *Client) SetHeader(name, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if value == "" {
		c.headers.Del(name)
		return
	}
	c.headers.Set(name, value)
}

func (c *Client) SetUserAgent(value string) {
	c.SetHeader("User-Agent", value)
}

func (c *Client) SetReferer(rawURL string) {
	c.SetHeader("Referer", rawURL)
}

func (c *Client) SetBasicAuth(user, password string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.auth = &credentials{user: user, password: password}
}

func (c *Client) ClearBasicAuth() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.auth = nil
}

// BreakerState returns the current circuit breaker state
func (c *Client) BreakerState() resilience.State {
	return c.breaker.State()
}
