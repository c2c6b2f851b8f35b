package logging

import (
	"context"
	"log/slog"
)

// Context keys for common log fields.
type contextKey string

const (
	// RequestIDKey is the context key for request IDs.
	RequestIDKey contextKey = "request_id"

	// DocumentKey is the context key for the document being validated.
	DocumentKey contextKey = "document"
)

// WithRequestID adds a request ID to the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// GetRequestID retrieves the request ID from the context.
func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(RequestIDKey).(string); ok {
		return requestID
	}
	return ""
}

// WithDocument records which document (file name or upload name) the
// current operation works on.
func WithDocument(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, DocumentKey, name)
}

// GetDocument retrieves the document name from the context.
func GetDocument(ctx context.Context) string {
	if name, ok := ctx.Value(DocumentKey).(string); ok {
		return name
	}
	return ""
}

func contextAttrs(ctx context.Context) []slog.Attr {
	var attrs []slog.Attr
	if id := GetRequestID(ctx); id != "" {
		attrs = append(attrs, slog.String(string(RequestIDKey), id))
	}
	if name := GetDocument(ctx); name != "" {
		attrs = append(attrs, slog.String(string(DocumentKey), name))
	}
	return attrs
}
