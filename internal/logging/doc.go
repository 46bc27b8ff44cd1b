// Package logging provides structured logging using uber/zap.
//
// Two encodings are supported:
//   - Development: colored console output, the CLI default
//   - Production: JSON output for machine parsing (LOG_DEV=false)
//
// Browser sessions log one debug event per request sent (page, redirect hop,
// resource) and a warning when a redirect chain exceeds its budget. Perf
// reports are written to stdout by the caller, never through the logger.
//
// Example Usage:
//
//	logger, err := logging.New(logging.DefaultConfig())
//	if err != nil {
//		return err
//	}
//	logger.Info("Browsing", zap.String("url", "http://localhost/"))
package logging
