// Package logging provides structured logging for fdctl and the accessor
// packages.
//
// This package wraps a zap logger behind package-level helpers. Logging is
// silent by default so command output stays clean; it is enabled by passing
// a level to [Initialize] or by setting FACTORYDATA_LOG_LEVEL.
//
// # Log Levels
//
//   - Debug: board tool invocations (command name, exit code, sizes)
//   - Info: configuration loaded, commands started
//   - Warn: timeouts, non-fatal tool failures
//   - Error: failures reported to the user
//
// Values read from or written to factory data are never logged.
//
// # Configuration
//
//	if err := logging.Initialize(flagLevel); err != nil {
//	    return err
//	}
//	defer logging.Sync()
//
// Components that need a logger receive [GetLogger] through their
// constructors rather than calling the package helpers directly.
package logging
