// Package tracing wraps OpenTelemetry so that every lifecycle operation of
// the unit tree (Init, Kill) is recorded as a span. Instrumentation stays in
// its own package; when no provider is installed spans are no-ops.
package tracing
