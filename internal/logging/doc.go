// Package logging provides structured logging for taskmill invocations.
//
// This package wraps Go's log/slog to provide JSON-formatted logs with
// context propagation support for debugging and post-hoc analysis. It is
// designed to make dispatch decisions inspectable after the fact: which
// tasks ran, which were skipped as already executed, and how umbrella
// fan-out traversed sub-projects.
//
// # Features
//
//   - JSON-formatted structured logging via slog
//   - Configurable log levels (DEBUG, INFO, WARN, ERROR)
//   - Context propagation (command, project, task)
//   - Log rotation with configurable size limits
//   - Optional gzip compression for rotated logs
//   - Log aggregation and filtering utilities
//   - Export to JSON, text, or CSV formats
//
// # Thread Safety
//
// All types in this package are safe for concurrent use. The [Logger] type
// uses Go's slog internally which is designed for concurrent access. The
// [RotatingWriter] type uses a mutex to protect file operations during
// rotation. Child loggers created via With* methods share the underlying
// writer safely.
//
// # Basic Usage
//
// Create a logger for a state directory:
//
//	logger, err := logging.NewLogger("/path/to/.taskmill", "INFO")
//	if err != nil {
//	    return err
//	}
//	defer logger.Close()
//
//	// Log messages at various levels
//	logger.Debug("detailed info", "key", "value")
//	logger.Info("operation completed", "duration_ms", 150)
//	logger.Warn("potential issue", "threshold", 100)
//	logger.Error("operation failed", "error", err.Error())
//
// # Context Propagation
//
// Create child loggers with persistent context attributes:
//
//	// Add command context
//	cmdLogger := logger.WithCommand("run")
//
//	// Add project context
//	projLogger := cmdLogger.WithProject("/work/umbrella/apps/web")
//
//	// Add task context
//	taskLogger := projLogger.WithTask("assets.build")
//
//	// All logs from taskLogger will include command, project, and task
//	taskLogger.Info("dispatching", "recursive", false)
//
// Output:
//
//	{"time":"...","level":"INFO","msg":"dispatching","command":"run","project":"/work/umbrella/apps/web","task":"assets.build","recursive":false}
//
// # Log Rotation
//
// Watch mode appends to the same file across many run cycles, so use
// rotation to prevent unbounded growth:
//
//	config := logging.RotationConfig{
//	    MaxSizeMB:  5,     // Rotate when file exceeds 5MB
//	    MaxBackups: 2,     // Keep 2 backup files
//	    Compress:   true,  // Gzip compress rotated files
//	}
//
//	logger, err := logging.NewRotatingLogger("/path/to/.taskmill/taskmill.log", "INFO", config)
//	if err != nil {
//	    return err
//	}
//	defer logger.Close()
//
// Rotated files are named: taskmill.log.1, taskmill.log.2, etc., where .1
// is the most recent backup. When compression is enabled, rotated files
// become taskmill.log.1.gz, etc.
//
// # Testing
//
// For testing, use [NopLogger] to discard all log output:
//
//	func TestSomething(t *testing.T) {
//	    logger := logging.NopLogger()
//	    // Use logger in tests without creating files
//	}
//
// # Log Aggregation and Filtering
//
// Read and analyze logs after an invocation:
//
//	// Load all logs from the workspace log file
//	entries, err := logging.AggregateLogs("/work/app/.taskmill/taskmill.log")
//	if err != nil {
//	    return err
//	}
//
//	// Filter logs by various criteria
//	filter := logging.LogFilter{
//	    Level:     "WARN",                   // Minimum level
//	    Project:   "/work/umbrella/apps/web", // Specific project
//	    Task:      "assets.build",            // Specific task
//	    StartTime: time.Now().Add(-1 * time.Hour), // Last hour
//	}
//	filtered := logging.FilterLogs(entries, filter)
//
//	// Export to various formats
//	logging.ExportLogEntries(filtered, "errors.json", "json")
//	logging.ExportLogEntries(filtered, "errors.txt", "text")
//	logging.ExportLogEntries(filtered, "errors.csv", "csv")
//
// # Log Levels
//
// The package defines four log levels:
//
//   - [LevelDebug]: Detailed information for debugging
//   - [LevelInfo]: General operational information (default)
//   - [LevelWarn]: Warning conditions that may need attention
//   - [LevelError]: Error conditions that affect functionality
//
// Use [ValidLevels] to get the list of valid level strings, and [ParseLevel]
// to normalize user-provided level strings.
//
// # Configuration
//
// The logging system is typically configured via taskmill's config file:
//
//	logging:
//	  enabled: true
//	  level: info
//	  max_size_mb: 5
//	  max_backups: 2
//
// See the taskmill README for complete configuration documentation.
package logging
