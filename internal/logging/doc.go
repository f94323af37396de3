// Package logging provides structured logging for lutronctl.
//
// This package wraps a zap logger with convenience functions for the logging
// patterns used throughout the client, the relay server and the CLI.
//
// # Log Levels
//
//   - Debug: Protocol lines, raw bytes, listener dispatch
//   - Info: Connections, authentication results, relay sessions
//   - Warn: Dropped commands, malformed input, slow listeners
//   - Error: Connection failures and I/O errors
//
// # Configuration
//
// Logging is silent by default so that CLI output stays clean. Enable it with
// the LUTRONCTL_LOG_LEVEL environment variable or explicitly:
//
//	if err := logging.Initialize("debug"); err != nil {
//	    log.Fatal(err)
//	}
//	defer logging.Sync()
//
// A rotating JSON log file can be added with InitializeWithFile, which uses
// lumberjack for size/age based rotation:
//
//	logging.InitializeWithFile("info", logging.DefaultFileConfig("lutronctl.log"))
//
// Console output goes to stderr; stdout is reserved for command output.
//
// # Thread Safety
//
// All logging functions are safe for concurrent use. Initialize should be
// called once at startup before goroutines start logging.
package logging
