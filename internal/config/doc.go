// Package config provides configuration management for webload.
//
// Configuration is loaded from environment variables with sensible defaults,
// optionally overlaid by a YAML or TOML file. CLI flags override both.
//
// Configuration Sections:
//   - Fetch: backend, user agent, timeout, basic auth
//   - Browser: referer, redirect budget, resources, cache, parser
//   - Retry, RateLimit, Breaker: transport resilience
//   - Logging: log level and output format
//   - Report: perf report format and metrics textfile
//
// Example Usage:
//
//	cfg, err := config.LoadFile("webload.yaml")
//	fetcher := restyfetch.New(cfg.FetchOptions())
//
// Environment Variables:
//   - WEBLOAD_FETCHER, WEBLOAD_USER_AGENT, WEBLOAD_TIMEOUT, WEBLOAD_USER, WEBLOAD_PASSWORD
//   - WEBLOAD_AUTO_REFERER, WEBLOAD_MAX_REDIRECTS, WEBLOAD_FETCH_RESOURCES,
//     WEBLOAD_RESOURCE_CACHE, WEBLOAD_PARSER
//   - WEBLOAD_RETRY_MAX, WEBLOAD_RETRY_MIN_WAIT, WEBLOAD_RETRY_MAX_WAIT
//   - WEBLOAD_RATE_LIMIT_RPS, WEBLOAD_RATE_LIMIT_BURST
//   - WEBLOAD_BREAKER_FAILURES, WEBLOAD_BREAKER_TIMEOUT
//   - WEBLOAD_LOG_LEVEL, WEBLOAD_LOG_DEV
//   - WEBLOAD_REPORT_FORMAT, WEBLOAD_METRICS_FILE
package config
