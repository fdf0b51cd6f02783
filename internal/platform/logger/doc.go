// Package logger configures slog JSON logging and carries a request-scoped
// logger through context.
package logger
