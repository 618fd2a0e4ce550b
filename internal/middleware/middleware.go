// Package middleware carries the cross-cutting HTTP concerns: request ids,
// request-scoped logging, and Prometheus instrumentation.
package middleware

type contextKey string
