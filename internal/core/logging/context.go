package logging

import "context"

type contextKey string

const (
	requestIDKey contextKey = "request_id"
	dmPathKey    contextKey = "dm_path"
)

// WithRequestID adds a request ID to the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// WithDMPath adds the path of the Data Module being worked on to the context.
func WithDMPath(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, dmPathKey, path)
}

// GetRequestID retrieves the request ID from the context.
// Returns empty string if not present.
func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

// GetDMPath retrieves the Data Module path from the context.
// Returns empty string if not present.
func GetDMPath(ctx context.Context) string {
	if p, ok := ctx.Value(dmPathKey).(string); ok {
		return p
	}
	return ""
}
