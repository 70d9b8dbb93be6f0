// Package logging provides structured logging for the hwsense tools.
//
// This package wraps a global zap logger with convenience functions for
// the logging patterns used throughout the project. Logging is silent
// by default so the CLI output stays clean; set HWSENSE_LOG_LEVEL
// (debug, info, warn, error) to enable it.
//
// All log functions use structured fields for queryability:
//
//	logging.Warn("set directive write failed",
//	    zap.String("chip", "lm78-i2c-0-2d"),
//	    zap.String("feature", "fan1_min"),
//	    zap.Error(err),
//	)
//
// Initialize logging at startup and flush on exit:
//
//	if err := logging.InitializeFromEnv(); err != nil {
//	    log.Fatal(err)
//	}
//	defer logging.Sync()
//
// All logging functions are safe for concurrent use.
package logging
