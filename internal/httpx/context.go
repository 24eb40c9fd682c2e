package httpx

import (
	"context"
	"net/http"
)

type contextKey string

const (
	userNameKey  contextKey = "userName"
	requestIDKey contextKey = "requestID"
)

// UserNameFrom retrieves the authenticated user name from the request context.
func UserNameFrom(r *http.Request) string {
	if v, ok := r.Context().Value(userNameKey).(string); ok {
		return v
	}
	return ""
}

// ContextWithUser returns a new context carrying the authenticated user name.
func ContextWithUser(ctx context.Context, userName string) context.Context {
	return context.WithValue(ctx, userNameKey, userName)
}

// RequestIDFrom retrieves the request id set by RequestIDMiddleware.
func RequestIDFrom(r *http.Request) string {
	if v, ok := r.Context().Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}

func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}
