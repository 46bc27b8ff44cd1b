package retryfetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/webload/internal/fetch"
	"github.com/GriffinCanCode/webload/internal/resilience"
)

var bigPage = "<html><body>" + strings.Repeat("<p>webload</p>", 400) + "</body></html>"

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/echo", func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		w.Header().Set("Content-Type", "text/plain")
		w.Header().Set("X-Method", r.Method)
		w.Header().Set("X-Query", r.URL.RawQuery)
		w.Header().Set("X-Form", r.PostForm.Encode())
		w.Header().Set("X-Referer", r.Referer())
		w.Header().Set("X-Agent", r.UserAgent())
		if user, pass, ok := r.BasicAuth(); ok {
			w.Header().Set("X-Auth", user+":"+pass)
		}
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/moved", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/echo", http.StatusMovedPermanently)
	})
	mux.HandleFunc("/broken", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	mux.Handle("/big", gzhttp.GzipHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(bigPage))
	})))
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchGetAndPost(t *testing.T) {
	srv := newServer(t)
	c := New(fetch.DefaultOptions())
	ctx := context.Background()

	resp, err := c.Fetch(ctx, srv.URL+"/echo?a=1", url.Values{"b": {"2"}}, fetch.MethodGet)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, srv.URL+"/echo?a=1", resp.URL)
	assert.Equal(t, "a=1&b=2", resp.Header("X-Query"))
	assert.Equal(t, "GET", resp.Header("X-Method"))

	resp, err = c.Fetch(ctx, srv.URL+"/echo", url.Values{"b": {"2"}}, fetch.MethodPost)
	require.NoError(t, err)
	assert.Equal(t, "POST", resp.Header("X-Method"))
	assert.Equal(t, "b=2", resp.Header("X-Form"))
}

func TestServerErrorsAreResponses(t *testing.T) {
	srv := newServer(t)
	c := New(fetch.DefaultOptions())

	resp, err := c.Fetch(context.Background(), srv.URL+"/broken", nil, fetch.MethodGet)
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.Code)
	assert.Equal(t, resilience.StateClosed, c.BreakerState())
}

func TestRedirectIsReturned(t *testing.T) {
	srv := newServer(t)
	c := New(fetch.DefaultOptions())

	resp, err := c.Fetch(context.Background(), srv.URL+"/moved", nil, fetch.MethodGet)
	require.NoError(t, err)
	assert.Equal(t, http.StatusMovedPermanently, resp.Code)
	assert.Equal(t, "/echo", resp.Header("Location"))
}

func TestCompressedBodyIsDecoded(t *testing.T) {
	srv := newServer(t)
	c := New(fetch.DefaultOptions())

	resp, err := c.Fetch(context.Background(), srv.URL+"/big", nil, fetch.MethodGet)
	require.NoError(t, err)
	assert.Equal(t, bigPage, string(resp.Body))
	assert.Equal(t, int64(len(bigPage)), resp.SizeDownload)
	assert.True(t, resp.IsHTML())
	assert.Greater(t, resp.TotalTime, 0.0)
	assert.GreaterOrEqual(t, resp.TotalTime, resp.TransferTime)
}

func TestSessionHeaders(t *testing.T) {
	srv := newServer(t)
	c := New(fetch.DefaultOptions())
	ctx := context.Background()

	c.SetUserAgent("webload-test")
	c.SetReferer("http://example.com/")
	c.SetBasicAuth("alice", "secret")

	resp, err := c.Fetch(ctx, srv.URL+"/echo", nil, fetch.MethodGet)
	require.NoError(t, err)
	assert.Equal(t, "webload-test", resp.Header("X-Agent"))
	assert.Equal(t, "http://example.com/", resp.Header("X-Referer"))
	assert.Equal(t, "alice:secret", resp.Header("X-Auth"))

	c.ClearBasicAuth()
	resp, err = c.Fetch(ctx, srv.URL+"/echo", nil, fetch.MethodGet)
	require.NoError(t, err)
	assert.Empty(t, resp.Header("X-Auth"))
}

func TestTransportErrorsTripBreaker(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	target := srv.URL
	srv.Close()

	opts := fetch.DefaultOptions()
	opts.Breaker = resilience.Settings{
		ReadyToTrip: func(c resilience.Counts) bool { return c.ConsecutiveFailures >= 1 },
	}
	c := New(opts)

	_, err := c.Fetch(context.Background(), target, nil, fetch.MethodGet)
	require.Error(t, err)

	_, err = c.Fetch(context.Background(), target, nil, fetch.MethodGet)
	assert.ErrorIs(t, err, resilience.ErrCircuitOpen)
}

func TestLeveledLoggerSatisfiesInterface(t *testing.T) {
	c := New(fetch.DefaultOptions())
	_, ok := c.http.Logger.(leveledLogger)
	assert.True(t, ok)
}
