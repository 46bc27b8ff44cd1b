// Package restyfetch implements fetch.Fetcher on top of go-resty.
//
// The client never follows redirects itself, paces requests through a
// token-bucket limiter and wraps every round trip in a circuit breaker so a
// dead target fails fast instead of stalling a perf run. Timings come from
// resty's TraceInfo.
package restyfetch
