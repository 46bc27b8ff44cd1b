// Package retryfetch implements fetch.Fetcher on go-retryablehttp.
//
// Only transport errors are retried; every HTTP status, including 5xx, is
// handed back to the browser untouched. Responses are decompressed by a
// gzhttp transport and timed with net/http/httptrace.
package retryfetch
