/*
Package monitoring collects Prometheus metrics for browse sessions.

# Overview

Metrics is a browser.Observer: register it on a Browser and every request,
redirect hop and resource fetch is counted and timed. Metrics live on their
own registry so several runs in one process do not collide.

# Metrics

  - webload_requests_total{kind,method,status}
  - webload_request_duration_seconds{kind}
  - webload_downloaded_bytes_total{kind}
  - webload_redirect_limit_total

# Usage

	metrics := monitoring.NewMetrics()
	b := browser.New(fetcher, discoverer, browser.Config{
		Observers: []browser.Observer{metrics},
	})
	// ... browse ...
	metrics.WriteTextfile("/var/lib/node_exporter/webload.prom")

The textfile format is the one read by the node_exporter textfile collector.
*/
package monitoring
