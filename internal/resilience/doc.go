/*
Package resilience provides the circuit breaker shared by the fetch backends.

A load-testing session that keeps hammering a dead host only produces noise,
so both Fetcher implementations run every network call through a Breaker.
Only transport errors count as failures: an HTTP 500 is a valid response for a
browser simulation and is passed through untouched.

# Usage

	breaker := resilience.New("fetch", resilience.Settings{
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts resilience.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})

	err := breaker.Execute(func() error {
		resp, err = doRequest()
		return err
	})

# States

  - Closed: requests pass through, failures are counted
  - Open: requests fail immediately with ErrCircuitOpen
  - Half-Open: MaxRequests trial requests decide between Closed and Open
*/
package resilience
