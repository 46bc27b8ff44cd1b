// Package fetch defines the transport capability the browser drives.
//
// A Fetcher issues exactly one HTTP request per call and never follows
// redirects on its own; redirect handling, referer propagation and resource
// fetching belong to the browser. Implementations:
//   - restyfetch: go-resty client with TraceInfo timings
//   - retryfetch: go-retryablehttp client with httptrace timings
//
// Both backends share the same session state contract: default headers,
// user agent, basic auth and referer persist across calls until changed.
package fetch
