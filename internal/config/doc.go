// Package config provides centralized configuration management for lcpipe.
// It handles loading configuration from multiple sources, validation, and
// provides a type-safe API for accessing configuration values throughout the
// application.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. Configuration file (lcpipe.yaml)
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern LCPIPE_* for namespacing:
//
//	LCPIPE_SERVER_PORT=8900
//	LCPIPE_PATHS_DATA_DIR=/srv/lcpipe/data
//	LCPIPE_LOGGING_LEVEL=debug
//	LCPIPE_SECURITY_RATE_LIMIT_ENABLED=true
//
// # Path Management
//
// The package provides centralized path management through the Paths type,
// which resolves every file the system reads or writes:
//
//	paths := config.PathsForDataDir("/srv/lcpipe/data")
//	detections := paths.DetectionsCSV
//	matrix := paths.TimeSeriesMatrixCSV
//
// # Usage
//
// Load configuration at application startup:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
package config
