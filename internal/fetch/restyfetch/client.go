package restyfetch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/GriffinCanCode/webload/internal/fetch"
	"github.com/GriffinCanCode/webload/internal/resilience"
)

// Client wraps resty with rate limiting and circuit breaker protection.
type Client struct {
	resty   *resty.Client
	limiter *rate.Limiter
	breaker *resilience.Breaker
	logger  *zap.Logger
	mu      sync.RWMutex
}

var _ fetch.Fetcher = (*Client)(nil)

// New creates a resty-backed fetcher.
func New(opts fetch.Options) *Client {
	logger := opts.Log().Named("resty")

	r := resty.New()
	r.SetTimeout(opts.Timeout).
		SetRetryCount(opts.Retry.MaxRetries).
		SetRetryWaitTime(opts.Retry.MinWait).
		SetRetryMaxWaitTime(opts.Retry.MaxWait).
		SetRedirectPolicy(resty.RedirectPolicyFunc(func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		})).
		SetLogger(logger.Sugar()).
		SetDebug(opts.Trace)

	if opts.Transport != nil {
		r.SetTransport(opts.Transport)
	}

	return &Client{
		resty:   r,
		limiter: opts.NewLimiter(),
		breaker: resilience.New("resty", opts.Breaker),
		logger:  logger,
	}
}

// Fetch issues one request. GET params become the query string, POST params
// a form body.
func (c *Client) Fetch(ctx context.Context, rawURL string, params url.Values, method string) (*fetch.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit error: %w", err)
	}

	c.mu.RLock()
	req := c.resty.R().SetContext(ctx).EnableTrace()
	c.mu.RUnlock()

	switch method {
	case fetch.MethodGet, "":
		method = fetch.MethodGet
		req.SetQueryParamsFromValues(params)
	case fetch.MethodPost:
		req.SetFormDataFromValues(params)
	default:
		return nil, fmt.Errorf("unsupported method %q", method)
	}

	var resp *resty.Response
	err := c.breaker.Execute(func() error {
		var err error
		resp, err = req.Execute(method, rawURL)
		return err
	})
	if err != nil {
		if errors.Is(err, resilience.ErrCircuitOpen) || errors.Is(err, resilience.ErrTooManyRequests) {
			return nil, fmt.Errorf("fetching %s: target unavailable: %w", rawURL, err)
		}
		return nil, fmt.Errorf("fetching %s: %w", rawURL, err)
	}

	return toResponse(rawURL, resp), nil
}

func toResponse(rawURL string, resp *resty.Response) *fetch.Response {
	trace := resp.Request.TraceInfo()
	body := resp.Body()

	effective := rawURL
	if raw := resp.RawResponse; raw != nil && raw.Request != nil && raw.Request.URL != nil {
		effective = raw.Request.URL.String()
	}

	size := resp.Size()
	if size == 0 {
		size = int64(len(body))
	}

	return &fetch.Response{
		URL:          rawURL,
		EffectiveURL: effective,
		Code:         resp.StatusCode(),
		Headers:      resp.Header().Clone(),
		ContentType:  fetch.DetectContentType(resp.Header(), body),
		Body:         body,
		TotalTime:    trace.TotalTime.Seconds(),
		ConnectTime:  trace.ConnTime.Seconds(),
		TransferTime: trace.ResponseTime.Seconds(),
		SizeDownload: size,
	}
}

// SetHeader sets a default header sent with every request. An empty value
// removes it.
func (c *Client) SetHeader(name, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if value == "" {
		c.resty.Header.Del(name)
		return
	}
	c.resty.SetHeader(name, value)
}

func (c *Client) SetUserAgent(value string) {
	c.SetHeader("User-Agent", value)
}

func (c *Client) SetReferer(rawURL string) {
	c.SetHeader("Referer", rawURL)
}

// SetBasicAuth configures basic authentication
func (c *Client) SetBasicAuth(user, password string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resty.SetBasicAuth(user, password)
}

// ClearBasicAuth stops sending credentials.
func (c *Client) ClearBasicAuth() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resty.UserInfo = nil
}

// BreakerState returns the current circuit breaker state
func (c *Client) BreakerState() resilience.State {
	return c.breaker.State()
}
