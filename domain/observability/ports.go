// Package observability defines the logging and metrics ports the rest of
// the platform depends on. Adapters live under infrastructure/observability.
package observability

// Logger provides structured, context-aware logging. Fields are variadic
// key/value pairs.
type Logger interface {
	// Info logs normal operations: successful state changes, general flow.
	Info(msg string, fields ...interface{})

	// Error logs error conditions. Pass the actual error as a field.
	Error(msg string, fields ...interface{})

	// Warn logs recoverable anomalies such as degraded report lookups.
	Warn(msg string, fields ...interface{})

	// Debug logs developer-level detail.
	Debug(msg string, fields ...interface{})

	// WithFields returns a Logger that adds the given fields to every
	// subsequent entry. Useful for request_id or component context.
	WithFields(fields map[string]interface{}) Logger
}

// Metrics records application metrics.
type Metrics interface {
	// IncrementCounter increments a counter by 1. Use for discrete
	// events: requests, errors, completions.
	IncrementCounter(name string, tags map[string]string)

	// RecordHistogram records a value in a distribution. Use for
	// latencies and sizes.
	RecordHistogram(name string, value float64, tags map[string]string)

	// RecordGauge records a point-in-time measurement.
	RecordGauge(name string, value float64, tags map[string]string)

	// WithTags returns a Metrics instance with additional default tags.
	WithTags(tags map[string]string) Metrics
}
