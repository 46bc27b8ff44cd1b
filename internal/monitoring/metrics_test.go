package monitoring

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/webload/internal/browser"
)

func TestObserveCountsRequests(t *testing.T) {
	m := NewMetrics()

	m.Observe(browser.Event{Kind: browser.EventRequest, Method: "GET", URL: "http://a/", Status: 302, Elapsed: 0.01})
	m.Observe(browser.Event{Kind: browser.EventRedirect, Method: "GET", URL: "http://a/b", Status: 200, Elapsed: 0.02, Size: 100})
	m.Observe(browser.Event{Kind: browser.EventResource, Method: "GET", URL: "http://a/x.css", Status: 404, Elapsed: 0.01, Size: 20})
	m.Observe(browser.Event{Kind: browser.EventResource, Method: "GET", URL: "http://a/y.css", Status: 404, Elapsed: 0.01, Size: 20})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("request", "GET", "302")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("redirect", "GET", "200")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("resource", "GET", "404")))
	assert.Equal(t, 40.0, testutil.ToFloat64(m.BytesTotal.WithLabelValues("resource")))
	assert.Equal(t, 3, testutil.CollectAndCount(m.RequestDuration))

	snap := m.Snapshot()
	assert.Equal(t, int64(4), snap.TotalRequests)
	assert.Equal(t, int64(2), snap.TotalErrors)
	assert.Equal(t, int64(140), snap.TotalBytes)
	assert.InDelta(t, 0.05, snap.TotalDuration, 1e-12)
}

func TestObserveRedirectLimit(t *testing.T) {
	m := NewMetrics()
	m.Observe(browser.Event{Kind: browser.EventRedirectLimit, Method: "GET", URL: "http://a/", Status: 302})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.RedirectLimits))
	assert.Zero(t, m.Snapshot().TotalRequests)
}

func TestSeparateRegistries(t *testing.T) {
	a, b := NewMetrics(), NewMetrics()
	a.Observe(browser.Event{Kind: browser.EventRequest, Method: "GET", Status: 200})

	assert.Equal(t, 1, testutil.CollectAndCount(a.RequestsTotal))
	assert.Equal(t, 0, testutil.CollectAndCount(b.RequestsTotal))
}

func TestWriteTextfile(t *testing.T) {
	m := NewMetrics()
	m.Observe(browser.Event{Kind: browser.EventRequest, Method: "POST", Status: 200, Size: 10})

	path := filepath.Join(t.TempDir(), "webload.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `webload_requests_total{kind="request",method="POST",status="200"} 1`)
}
