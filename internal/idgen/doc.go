// Package idgen wraps the UUID generator used for run and message
// identifiers so that it can be stubbed in tests. Callers should treat the
// returned identifiers as opaque strings.
package idgen
