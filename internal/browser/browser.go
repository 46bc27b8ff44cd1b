package browser

import (
	"context"
	"fmt"
	"net/url"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/webload/internal/discover"
	"github.com/GriffinCanCode/webload/internal/fetch"
	"github.com/GriffinCanCode/webload/internal/history"
	"github.com/GriffinCanCode/webload/internal/id"
)

// Version is reported in the default user agent.
var Version = "1.0.0"

// DefaultUserAgent returns the user agent a new session announces.
func DefaultUserAgent() string {
	return "webload/" + Version
}

// Options holds the per-session browsing defaults.
type Options struct {
	AutoReferer      bool
	MaxRedirects     int
	FetchResources   bool
	UseResourceCache bool
	UserAgent        string
}

// DefaultOptions returns the defaults of a fresh session.
func DefaultOptions() Options {
	return Options{
		AutoReferer:      true,
		MaxRedirects:     10,
		FetchResources:   true,
		UseResourceCache: true,
		UserAgent:        DefaultUserAgent(),
	}
}

// Config wires a Browser.
type Config struct {
	Options   Options
	Logger    *zap.Logger
	Observers []Observer
}

// BrowseOptions overrides session defaults for one call. Nil pointers and
// an empty Method fall back to the defaults.
type BrowseOptions struct {
	Method           string
	FetchResources   *bool
	UseResourceCache *bool
}

// Browser is one simulated user session.
type Browser struct {
	id         id.SessionID
	fetcher    fetch.Fetcher
	discoverer discover.Discoverer
	history    *history.History
	opts       Options
	logger     *zap.Logger
	observers  []Observer
}

// New creates a session. The user agent is pushed to the fetcher
// immediately.
func New(fetcher fetch.Fetcher, discoverer discover.Discoverer, cfg Config) *Browser {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Options.UserAgent == "" {
		cfg.Options.UserAgent = DefaultUserAgent()
	}

	sid := id.NewSessionID()
	b := &Browser{
		id:         sid,
		fetcher:    fetcher,
		discoverer: discoverer,
		history:    history.New(),
		opts:       cfg.Options,
		logger:     logger.Named("browser").With(zap.String("session", string(sid))),
		observers:  cfg.Observers,
	}
	b.fetcher.SetUserAgent(cfg.Options.UserAgent)
	return b
}

// ID returns the session identifier.
func (b *Browser) ID() id.SessionID {
	return b.id
}

// History returns the session navigation log.
func (b *Browser) History() *history.History {
	return b.history
}

// Options returns the current session defaults.
func (b *Browser) Options() Options {
	return b.opts
}

// AddObserver registers an additional observer.
func (b *Browser) AddObserver(o Observer) {
	b.observers = append(b.observers, o)
}

// Browse requests rawURL, follows redirects and loads page resources. The
// returned slice holds the initial response, each redirect hop, then each
// resource fetch, in order.
func (b *Browser) Browse(ctx context.Context, rawURL string, params url.Values, opts BrowseOptions) ([]*fetch.Response, error) {
	method := opts.Method
	if method == "" {
		method = fetch.MethodGet
		if len(params) > 0 {
			method = fetch.MethodPost
		}
	}
	fetchResources := b.opts.FetchResources
	if opts.FetchResources != nil {
		fetchResources = *opts.FetchResources
	}
	useCache := b.opts.UseResourceCache
	if opts.UseResourceCache != nil {
		useCache = *opts.UseResourceCache
	}

	responses, err := b.follow(ctx, method, rawURL, params)
	if err != nil {
		return responses, err
	}

	page := responses[len(responses)-1]
	if !fetchResources || b.discoverer == nil || !page.IsHTML() {
		return responses, nil
	}

	resources, err := b.fetchResources(ctx, page, method, params, useCache)
	responses = append(responses, resources...)
	return responses, err
}

// Get browses rawURL with GET and records a page visit. params are kept on
// the visit only; the request goes out without them, so the page counts as a
// plain GET for the resource cache.
func (b *Browser) Get(ctx context.Context, rawURL string, params url.Values) ([]*fetch.Response, error) {
	responses, err := b.Browse(ctx, rawURL, nil, BrowseOptions{Method: fetch.MethodGet})
	if err != nil {
		return responses, err
	}
	b.history.AddPage(fetch.MethodGet, rawURL, params)
	return responses, nil
}

// Post browses rawURL with POST and records a page visit.
func (b *Browser) Post(ctx context.Context, rawURL string, params url.Values) ([]*fetch.Response, error) {
	responses, err := b.Browse(ctx, rawURL, params, BrowseOptions{Method: fetch.MethodPost})
	if err != nil {
		return responses, err
	}
	b.history.AddPage(fetch.MethodPost, rawURL, params)
	return responses, nil
}

// SetReferer pushes rawURL to the fetcher. Unforced updates are dropped
// when AutoReferer is off.
func (b *Browser) SetReferer(rawURL string, force bool) {
	if force || b.opts.AutoReferer {
		b.fetcher.SetReferer(rawURL)
	}
}

func (b *Browser) SetHeader(name, value string) { b.fetcher.SetHeader(name, value) }

func (b *Browser) SetUserAgent(value string) {
	b.opts.UserAgent = value
	b.fetcher.SetUserAgent(value)
}

func (b *Browser) SetBasicAuth(user, password string) { b.fetcher.SetBasicAuth(user, password) }

func (b *Browser) ClearBasicAuth() { b.fetcher.ClearBasicAuth() }

func (b *Browser) SetAutoReferer(on bool) { b.opts.AutoReferer = on }

func (b *Browser) SetMaxRedirects(n int) { b.opts.MaxRedirects = n }

func (b *Browser) SetFetchResources(on bool) { b.opts.FetchResources = on }

func (b *Browser) SetUseResourceCache(on bool) { b.opts.UseResourceCache = on }

// send issues one request and reports it.
func (b *Browser) send(ctx context.Context, kind EventKind, method, rawURL string, params url.Values) (*fetch.Response, error) {
	resp, err := b.fetcher.Fetch(ctx, rawURL, params, method)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, rawURL, err)
	}
	b.emit(newEvent(kind, string(b.id), method, rawURL, resp))
	return resp, nil
}
