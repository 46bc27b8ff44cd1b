/*
Package browser simulates a web browser on top of a fetch.Fetcher.

# Overview

A Browser is one simulated user. Each browse call:

 1. Sends the request and records it in the session history
 2. Follows 301/302 redirects up to MaxRedirects, resolving Location
    against the URL that produced it
 3. When the final response is HTML, discovers embedded resources and GETs
    each of them, skipping those already fetched when the resource cache
    is enabled

The referer is updated after the initial request and after each redirect
hop, unless AutoReferer is off. Resource fetches never touch it.

# Cache Simulation

The cache is optimal: a resource is considered cached as soon as the same
URL was requested once with GET and no parameters. The lookup happens once
per page, before any of that page's resources are fetched, so a resource
listed twice on a fresh page is fetched twice.

Resource requests are recorded with the method and parameters of the page
that pulled them in. A resource loaded by a POSTed page is therefore never
a cache hit for later pages.

# Observability

Every request produces an Event. Events are logged at debug level with zap
and passed to registered Observers, such as monitoring.Metrics.

# Concurrency

A Browser must not be shared between goroutines. Run one Browser per
simulated user.
*/
package browser
