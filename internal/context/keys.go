package context

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// RequestIDContextKey is the key for storing the request ID in the request context
	RequestIDContextKey ContextKey = "requestID"

	// LoggerContextKey is the key for the request-scoped logger
	LoggerContextKey ContextKey = "logger"
)
