package types

// Logger defines methods for structured logging.
//
// Compatible with zap.SugaredLogger and other structured loggers.
// All methods accept alternating key-value pairs for structured fields.
type Logger interface {
	// Debug logs a message at DebugLevel with any fields passed at the log site.
	Debug(msg string, keysAndValues ...any)

	// Info logs a message at InfoLevel with any fields passed at the log site.
	Info(msg string, keysAndValues ...any)

	// Warn logs a message at WarnLevel with any fields passed at the log site.
	Warn(msg string, keysAndValues ...any)

	// Error logs a message at ErrorLevel with any fields passed at the log site.
	Error(msg string, keysAndValues ...any)

	// Fatal logs a message at FatalLevel and then calls os.Exit(1), even if
	// logging at FatalLevel is disabled.
	Fatal(msg string, keysAndValues ...any)
}
