// Package interfaces declares the contracts host applications implement to
// plug their own infrastructure into the site builder.
package interfaces

import "context"

// Logger is the leveled, key/value logger every sitebuilder package logs
// through. Its method set matches github.com/goliatone/go-logger.
type Logger interface {
	Trace(msg string, args ...any)
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	Fatal(msg string, args ...any)
	WithContext(ctx context.Context) Logger
}

// LoggerProvider returns the logger for a dotted module name such as
// "sitebuilder.pages".
type LoggerProvider interface {
	GetLogger(name string) Logger
}

// FieldsLogger is implemented by loggers that can carry persistent fields.
type FieldsLogger interface {
	WithFields(fields map[string]any) Logger
}
