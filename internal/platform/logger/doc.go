// Package logger provides structured logging functionality for the application.
//
// It utilizes Go's standard library log/slog package to implement structured JSON logging
// with configurable log levels, and carries request-scoped loggers through context.Context
// so that the trace ID attached by the HTTP middleware shows up on every line logged while
// serving a request.
package logger
