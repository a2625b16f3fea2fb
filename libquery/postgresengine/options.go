package postgresengine

import (
	"time"

	"github.com/bibliofile/library-query-go/libquery"
)

// Logger interface for SQL query logging, operational metrics, warnings, and error reporting.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// MetricsCollector interface for collecting QueryStore performance and operational metrics.
type MetricsCollector interface {
	RecordDuration(metric string, duration time.Duration, labels map[string]string)
	IncrementCounter(metric string, labels map[string]string)
}

// Option defines a functional option for configuring QueryStore.
type Option func(*QueryStore) error

// WithLogger sets the logger for the QueryStore.
// The logger will receive messages at different levels based on the logger's configured level:
//
// Debug level: SQL queries with execution timing (development use)
// Info level: Fetch completions with row counts and durations (production-safe)
// Warn level: Non-critical issues like cleanup failures
// Error level: Critical failures that cause operation failures.
func WithLogger(logger Logger) Option {
	return func(qs *QueryStore) error {
		qs.logger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector for the QueryStore.
// The collector will receive fetch durations and error counts labeled by entity kind.
func WithMetrics(collector MetricsCollector) Option {
	return func(qs *QueryStore) error {
		qs.metrics = collector
		return nil
	}
}

// WithDefaultTake sets the page size used when a query does not set take.
func WithDefaultTake(take uint) Option {
	return func(qs *QueryStore) error {
		if take == 0 {
			return libquery.ErrInvalidTakeBounds
		}

		qs.defaultTake = take

		return nil
	}
}

// WithMaxTake sets the hard cap on page size. Queries asking for more fail
// with ErrInvalidPagination.
func WithMaxTake(take uint) Option {
	return func(qs *QueryStore) error {
		if take == 0 {
			return libquery.ErrInvalidTakeBounds
		}

		qs.maxTake = take

		return nil
	}
}
