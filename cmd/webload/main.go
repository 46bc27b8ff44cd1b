package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/GriffinCanCode/webload/internal/browser"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

type options struct {
	configPath    string
	debug         bool
	trace         bool
	simpleFetch   bool
	fetcher       string
	parser        string
	get           bool
	post          bool
	params        []string
	dumpResponses bool
	dumpHistory   bool
	noAutoReferer bool
	noCache       bool
	userAgent     string
	user          string
	perf          int
	maxRedirects  int
	reportFormat  string
	metricsFile   string
}

func newRootCmd() *cobra.Command {
	var o options

	root := &cobra.Command{
		Use:           "webload [flags] URL [URL...]",
		Short:         "Simulate a browser request on urls",
		Version:       browser.Version,
		Args:          requireURLs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, &o, args)
		},
	}

	f := root.Flags()
	f.StringVar(&o.configPath, "config", "", "YAML or TOML config file")
	f.BoolVarP(&o.debug, "debug", "d", false, "debug mode, log every request")
	f.BoolVarP(&o.trace, "trace", "t", false, "trace fetcher activity (implies --debug)")
	f.BoolVarP(&o.simpleFetch, "simple-fetch", "S", false, "don't load additional resources like css or images")
	f.StringVar(&o.fetcher, "fetcher", "", "fetcher backend: resty or retry")
	f.StringVar(&o.parser, "parser", "", "resource parser: css or xpath")
	f.BoolVarP(&o.get, "get", "G", false, "send data with a HTTP GET")
	f.BoolVarP(&o.post, "post", "P", false, "send data with a HTTP POST")
	f.StringArrayVar(&o.params, "param", nil, "request parameter key=value (repeatable)")
	f.BoolVarP(&o.dumpResponses, "dump-responses", "D", false, "dump responses")
	f.BoolVar(&o.dumpHistory, "dump-history", false, "dump page and request history")
	f.BoolVar(&o.noAutoReferer, "no-auto-referer", false, "don't set the referer automatically")
	f.BoolVar(&o.noCache, "no-cache", false, "don't cache resources already fetched")
	f.StringVarP(&o.userAgent, "user-agent", "A", "", "User-Agent to send to server")
	f.StringVarP(&o.user, "user", "u", "", "<user[:password]> server basic auth")
	f.IntVarP(&o.perf, "perf", "n", 0, "number of requests to perform, print stats")
	f.IntVar(&o.maxRedirects, "max-redirects", 10, "number of redirects to follow")
	f.StringVar(&o.reportFormat, "report-format", "", "stats format: text, json or yaml")
	f.StringVar(&o.metricsFile, "metrics-file", "", "write Prometheus metrics to this textfile after the run")

	root.MarkFlagsMutuallyExclusive("get", "post")
	return root
}

// requireURLs rejects an empty URL list and appends the usage text, which
// SilenceUsage would otherwise suppress.
func requireURLs(cmd *cobra.Command, args []string) error {
	if err := cobra.MinimumNArgs(1)(cmd, args); err != nil {
		return fmt.Errorf("%w\n\n%s", err, cmd.UsageString())
	}
	return nil
}
