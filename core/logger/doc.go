// Package logger provides a structured logging facility based on Zap.
//
// It offers a configured logger instance that supports different environments
// (development vs production) and console or JSON encoding.
//
// # Run Correlation
//
// A reconciliation run is identified by a run id. The WithRunID helper attaches
// it to a logger so that every line of one run (page boundaries, pacing
// decisions, per-role failures) can be correlated afterwards.
//
// Requests to the status endpoint carry a RayID instead; WithRayID reads it
// from the Fiber context.
//
// # Configuration
//
// The package supports configuration for:
//   - Level: debug, info, warn, error
//   - Format: json (production) or console (development)
//
// # Usage
//
//	log, _ := logger.New(&logger.Config{Level: "info"})
//	log = logger.WithRunID(log, runID)
//	log.Info("Fetching page")
package logger
