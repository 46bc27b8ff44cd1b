// Package main is the webload command: a browser simulator for load testing.
//
// It requests each URL like a browser would, following redirects and loading
// page resources through a simulated cache, and optionally repeats the
// request to print latency statistics.
//
// Configuration:
//   - Environment variables (WEBLOAD_*)
//   - A YAML or TOML file (--config)
//   - CLI flags (override both)
//
// Usage:
//
//	# Show every request made to render a page
//	webload http://localhost/ -d
//
//	# Skip page resources
//	webload http://localhost/ -d -S
//
//	# Dump responses
//	webload http://localhost/ -D
//
//	# Basic auth
//	webload http://localhost/ -u login:pwd -d
//
//	# 100 iterations with detailed statistics
//	webload http://localhost/ -n 100
//
//	# Same, as JSON, with a Prometheus textfile
//	webload http://localhost/ -n 100 --report-format json --metrics-file webload.prom
package main
