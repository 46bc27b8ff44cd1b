package main

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/webload/internal/browser"
	"github.com/GriffinCanCode/webload/internal/config"
	"github.com/GriffinCanCode/webload/internal/discover"
	"github.com/GriffinCanCode/webload/internal/fetch"
	"github.com/GriffinCanCode/webload/internal/fetch/restyfetch"
	"github.com/GriffinCanCode/webload/internal/fetch/retryfetch"
	"github.com/GriffinCanCode/webload/internal/logging"
	"github.com/GriffinCanCode/webload/internal/monitoring"
	"github.com/GriffinCanCode/webload/internal/resilience"
	"github.com/GriffinCanCode/webload/internal/stats"
)

func run(cmd *cobra.Command, o *options, urls []string) error {
	cfg, err := config.LoadFile(o.configPath)
	if err != nil {
		return err
	}
	applyFlags(cmd, o, cfg)

	logCfg := cfg.LoggingConfig()
	if o.debug || o.trace {
		logCfg.Level = "debug"
	}
	logger, err := logging.New(logCfg)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	params, err := parseParams(o.params)
	if err != nil {
		return err
	}

	fetchOpts := cfg.FetchOptions()
	fetchOpts.Logger = logger.Logger
	fetchOpts.Trace = o.trace
	fetcher, err := newFetcher(cfg.Fetch.Backend, fetchOpts)
	if err != nil {
		return err
	}

	parser, err := discover.New(cfg.Browser.Parser)
	if err != nil {
		return err
	}

	metrics := monitoring.NewMetrics()
	b := browser.New(fetcher, parser, browser.Config{
		Options:   cfg.BrowserOptions(),
		Logger:    logger.Logger,
		Observers: []browser.Observer{metrics},
	})
	if cfg.Fetch.User != "" {
		b.SetBasicAuth(cfg.Fetch.User, cfg.Fetch.Password)
	}
	logger.Debug("session started",
		zap.String("session", string(b.ID())),
		zap.String("fetcher", cfg.Fetch.Backend),
		zap.String("parser", cfg.Browser.Parser))

	out := cmd.OutOrStdout()
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	for _, u := range urls {
		if o.perf > 0 {
			if err := runPerf(ctx, b, logger.Logger, out, cfg.Report.Format, stats.PerfRequest{
				URL: u, Params: params, Method: method(o), Count: o.perf,
			}); err != nil {
				return err
			}
			continue
		}

		responses, err := visit(ctx, b, o, u, params)
		if err != nil {
			return err
		}
		if o.dumpResponses {
			dumpResponses(out, responses)
		}
	}

	if o.dumpHistory {
		dumpHistory(out, b)
	}

	if s, ok := fetcher.(breakerStater); ok {
		logger.Debug("fetcher circuit", zap.Stringer("state", s.BreakerState()))
	}

	if cfg.Report.MetricsFile != "" {
		if err := metrics.WriteTextfile(cfg.Report.MetricsFile); err != nil {
			return err
		}
		logger.Debug("metrics written", zap.String("path", cfg.Report.MetricsFile))
	}
	return nil
}

type breakerStater interface {
	BreakerState() resilience.State
}

// applyFlags overrides file and environment settings with explicitly set flags.
func applyFlags(cmd *cobra.Command, o *options, cfg *config.Config) {
	flags := cmd.Flags()
	if o.fetcher != "" {
		cfg.Fetch.Backend = o.fetcher
	}
	if o.parser != "" {
		cfg.Browser.Parser = o.parser
	}
	if o.userAgent != "" {
		cfg.Fetch.UserAgent = o.userAgent
	}
	if o.user != "" {
		// "user" alone uses the user name as password too.
		name, password, found := strings.Cut(o.user, ":")
		if !found {
			password = name
		}
		cfg.Fetch.User, cfg.Fetch.Password = name, password
	}
	if o.simpleFetch {
		cfg.Browser.FetchResources = false
	}
	if o.noAutoReferer {
		cfg.Browser.AutoReferer = false
	}
	if o.noCache {
		cfg.Browser.ResourceCache = false
	}
	if flags.Changed("max-redirects") {
		cfg.Browser.MaxRedirects = o.maxRedirects
	}
	if o.reportFormat != "" {
		cfg.Report.Format = o.reportFormat
	}
	if o.metricsFile != "" {
		cfg.Report.MetricsFile = o.metricsFile
	}
}

var (
	_ breakerStater = (*restyfetch.Client)(nil)
	_ breakerStater = (*retryfetch.Client)(nil)
)

func newFetcher(backend string, opts fetch.Options) (fetch.Fetcher, error) {
	switch strings.ToLower(backend) {
	case "", "resty":
		return restyfetch.New(opts), nil
	case "retry", "retryablehttp":
		return retryfetch.New(opts), nil
	default:
		return nil, fmt.Errorf("unknown fetcher %q", backend)
	}
}

func parseParams(raw []string) (url.Values, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	params := url.Values{}
	for _, kv := range raw {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --param %q, want key=value", kv)
		}
		params.Add(key, value)
	}
	return params, nil
}

// method returns the explicit method for perf runs; empty lets the browser
// choose from the params.
func method(o *options) string {
	switch {
	case o.post:
		return fetch.MethodPost
	case o.get:
		return fetch.MethodGet
	default:
		return ""
	}
}

func visit(ctx context.Context, b *browser.Browser, o *options, rawURL string, params url.Values) ([]*fetch.Response, error) {
	switch {
	case o.post:
		return b.Post(ctx, rawURL, params)
	case o.get && len(params) > 0:
		// Get keeps params off the wire; -G puts them in the query string.
		responses, err := b.Browse(ctx, rawURL, params, browser.BrowseOptions{Method: fetch.MethodGet})
		if err != nil {
			return responses, err
		}
		b.History().AddPage(fetch.MethodGet, rawURL, params)
		return responses, nil
	default:
		return b.Get(ctx, rawURL, params)
	}
}

func runPerf(ctx context.Context, b *browser.Browser, logger *zap.Logger, out io.Writer, format string, req stats.PerfRequest) error {
	report, err := stats.NewRunner(b, logger).Perf(ctx, req)
	if err != nil {
		return err
	}
	return stats.Render(out, report, format)
}

func dumpResponses(w io.Writer, responses []*fetch.Response) {
	fmt.Fprintln(w, "Dump responses:")
	for _, r := range responses {
		fmt.Fprintf(w, "%d %s [%s] %d bytes total=%.6fs connect=%.6fs transfer=%.6fs\n",
			r.Code, r.URL, r.ContentType, r.SizeDownload, r.TotalTime, r.ConnectTime, r.TransferTime)
	}
}

func dumpHistory(w io.Writer, b *browser.Browser) {
	h := b.History()
	fmt.Fprintln(w, "Page history:")
	for _, p := range h.Pages() {
		fmt.Fprintf(w, "%s %s %s\n", p.Method, p.URL, p.Params.Encode())
	}
	fmt.Fprintln(w, "Request history:")
	for _, r := range h.Requests() {
		fmt.Fprintf(w, "%s %s %s\n", r.Method, r.URL, r.Params.Encode())
	}
}
