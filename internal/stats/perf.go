package stats

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/webload/internal/browser"
	"github.com/GriffinCanCode/webload/internal/fetch"
	"github.com/GriffinCanCode/webload/internal/id"
)

// Browser is the part of a browse session a perf run needs.
type Browser interface {
	Browse(ctx context.Context, rawURL string, params url.Values, opts browser.BrowseOptions) ([]*fetch.Response, error)
}

// PerfRequest describes one perf run. An empty Method lets the browser pick
// GET or POST from Params.
type PerfRequest struct {
	URL    string
	Params url.Values
	Method string
	Count  int
}

// URLStats summarizes every response for one requested URL.
type URLStats struct {
	URL      string  `json:"url" yaml:"url"`
	Count    int     `json:"count" yaml:"count"`
	Total    Summary `json:"total" yaml:"total"`
	Connect  Summary `json:"connect" yaml:"connect"`
	Transfer Summary `json:"transfer" yaml:"transfer"`
}

// Report is the outcome of a perf run.
type Report struct {
	RunID             string     `json:"run_id" yaml:"run_id"`
	URL               string     `json:"url" yaml:"url"`
	Iterations        int        `json:"iterations" yaml:"iterations"`
	Requests          int        `json:"requests" yaml:"requests"`
	Elapsed           float64    `json:"elapsed" yaml:"elapsed"`
	Bytes             int64      `json:"bytes" yaml:"bytes"`
	KB                float64    `json:"kb" yaml:"kb"`
	RequestsPerSecond float64    `json:"requests_per_second" yaml:"requests_per_second"`
	TransferRate      float64    `json:"transfer_rate_kbps" yaml:"transfer_rate_kbps"`
	URLs              []URLStats `json:"urls" yaml:"urls"`
}

// NewReport computes aggregate and per-URL statistics from a filled bucket.
func NewReport(b *Bucket, elapsed time.Duration) *Report {
	secs := elapsed.Seconds()
	r := &Report{
		Requests: b.Requests(),
		Elapsed:  secs,
		Bytes:    b.Bytes(),
		KB:       float64(b.Bytes()) / 1024,
	}
	if secs > 0 {
		r.RequestsPerSecond = float64(r.Requests) / secs
		r.TransferRate = r.KB / secs
	}

	for _, u := range b.URLs() {
		samples := b.Samples(u)
		total, connect, transfer := series(samples)
		r.URLs = append(r.URLs, URLStats{
			URL:      u,
			Count:    len(samples),
			Total:    Compute(total),
			Connect:  Compute(connect),
			Transfer: Compute(transfer),
		})
	}
	return r
}

// Runner repeats browse calls and aggregates their timings.
type Runner struct {
	browser Browser
	logger  *zap.Logger
	now     func() time.Time
}

func NewRunner(b Browser, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{browser: b, logger: logger.Named("perf"), now: time.Now}
}

// Perf browses req.URL req.Count times in sequence. Any browse error aborts
// the run.
func (r *Runner) Perf(ctx context.Context, req PerfRequest) (*Report, error) {
	if req.Count < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCount, req.Count)
	}

	runID := id.NewRunID()
	log := r.logger.With(zap.String("run", string(runID)), zap.String("url", req.URL))
	log.Debug("perf started", zap.Int("count", req.Count))

	bucket := NewBucket()
	start := r.now()
	for i := 0; i < req.Count; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		responses, err := r.browser.Browse(ctx, req.URL, req.Params, browser.BrowseOptions{Method: req.Method})
		if err != nil {
			return nil, fmt.Errorf("perf iteration %d: %w", i+1, err)
		}
		for _, resp := range responses {
			bucket.Add(resp)
		}
	}

	report := NewReport(bucket, r.now().Sub(start))
	report.RunID = string(runID)
	report.URL = req.URL
	report.Iterations = req.Count

	log.Info("perf finished",
		zap.Int("requests", report.Requests),
		zap.Float64("elapsed", report.Elapsed),
		zap.Float64("kb", report.KB))
	return report, nil
}
