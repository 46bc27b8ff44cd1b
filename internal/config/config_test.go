package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/webload/internal/resilience"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	// Fetch config
	assert.Equal(t, "resty", cfg.Fetch.Backend)
	assert.Equal(t, 30.0, cfg.Fetch.Timeout)

	// Browser config
	assert.True(t, cfg.Browser.AutoReferer)
	assert.Equal(t, 10, cfg.Browser.MaxRedirects)
	assert.True(t, cfg.Browser.FetchResources)
	assert.True(t, cfg.Browser.ResourceCache)
	assert.Equal(t, "css", cfg.Browser.Parser)

	// Logging config
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.True(t, cfg.Logging.Development)

	assert.Equal(t, "text", cfg.Report.Format)
}

func TestLoadMatchesDefault(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadWithEnvironmentVariables(t *testing.T) {
	envVars := map[string]string{
		"WEBLOAD_FETCHER":          "retry",
		"WEBLOAD_USER_AGENT":       "probe/2",
		"WEBLOAD_TIMEOUT":          "2.5",
		"WEBLOAD_AUTO_REFERER":     "false",
		"WEBLOAD_MAX_REDIRECTS":    "3",
		"WEBLOAD_RESOURCE_CACHE":   "false",
		"WEBLOAD_PARSER":           "xpath",
		"WEBLOAD_RATE_LIMIT_RPS":   "20",
		"WEBLOAD_BREAKER_FAILURES": "4",
		"WEBLOAD_LOG_LEVEL":        "debug",
		"WEBLOAD_REPORT_FORMAT":    "json",
	}
	for key, value := range envVars {
		t.Setenv(key, value)
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "retry", cfg.Fetch.Backend)
	assert.Equal(t, "probe/2", cfg.Fetch.UserAgent)
	assert.Equal(t, 2.5, cfg.Fetch.Timeout)
	assert.False(t, cfg.Browser.AutoReferer)
	assert.Equal(t, 3, cfg.Browser.MaxRedirects)
	assert.True(t, cfg.Browser.FetchResources)
	assert.False(t, cfg.Browser.ResourceCache)
	assert.Equal(t, "xpath", cfg.Browser.Parser)
	assert.Equal(t, 20.0, cfg.RateLimit.RequestsPerSecond)
	assert.Equal(t, uint32(4), cfg.Breaker.ConsecutiveFailures)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Report.Format)
}

func TestLoadInvalidEnvironment(t *testing.T) {
	t.Setenv("WEBLOAD_MAX_REDIRECTS", "lots")

	_, err := Load()
	assert.Error(t, err)

	_, err = LoadFile("")
	assert.Error(t, err)
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFileYAML(t *testing.T) {
	t.Setenv("WEBLOAD_LOG_LEVEL", "warn")
	path := writeFile(t, "webload.yaml", `
fetch:
  backend: retry
  timeout: 5
browser:
  max_redirects: 2
  parser: xpath
report:
  format: yaml
`)

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "retry", cfg.Fetch.Backend)
	assert.Equal(t, 5.0, cfg.Fetch.Timeout)
	assert.Equal(t, 2, cfg.Browser.MaxRedirects)
	assert.Equal(t, "xpath", cfg.Browser.Parser)
	assert.Equal(t, "yaml", cfg.Report.Format)

	// Untouched keys keep env and default values.
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.True(t, cfg.Browser.AutoReferer)
}

func TestLoadFileTOML(t *testing.T) {
	path := writeFile(t, "webload.toml", `
[browser]
auto_referer = false
resource_cache = false

[rate_limit]
rps = 5.0
burst = 2
`)

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.False(t, cfg.Browser.AutoReferer)
	assert.False(t, cfg.Browser.ResourceCache)
	assert.Equal(t, 5.0, cfg.RateLimit.RequestsPerSecond)
	assert.Equal(t, 2, cfg.RateLimit.Burst)
	assert.Equal(t, 10, cfg.Browser.MaxRedirects)
}

func TestLoadFileErrors(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = LoadFile(writeFile(t, "webload.ini", "x=1"))
	assert.Error(t, err)

	_, err = LoadFile(writeFile(t, "bad.toml", "[browser\n"))
	assert.Error(t, err)

	cfg, err := LoadFile("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestConversions(t *testing.T) {
	cfg := Default()
	cfg.Fetch.Timeout = 1.5
	cfg.Fetch.UserAgent = "agent"
	cfg.Breaker.ConsecutiveFailures = 2
	cfg.Browser.MaxRedirects = 4

	fo := cfg.FetchOptions()
	assert.Equal(t, 1500*time.Millisecond, fo.Timeout)
	assert.Equal(t, time.Second, fo.Retry.MinWait)
	assert.Equal(t, 30*time.Second, fo.Breaker.Timeout)
	assert.False(t, fo.Breaker.ReadyToTrip(resilience.Counts{ConsecutiveFailures: 1}))
	assert.True(t, fo.Breaker.ReadyToTrip(resilience.Counts{ConsecutiveFailures: 2}))

	bo := cfg.BrowserOptions()
	assert.Equal(t, "agent", bo.UserAgent)
	assert.Equal(t, 4, bo.MaxRedirects)
	assert.True(t, bo.UseResourceCache)

	lc := cfg.LoggingConfig()
	assert.Equal(t, "info", lc.Level)
	assert.Equal(t, []string{"stderr"}, lc.OutputPaths)
}
