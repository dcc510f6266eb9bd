package middleware

import (
	"context"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/upb/ecommerce-auth/auth"
	"go.uber.org/zap"
)

// Context key type to avoid collisions
type contextKey string

// RequestIDKey is the context key for a request ID set outside chi
const RequestIDKey contextKey = "request_id"

// GetRequestIDFromContext retrieves the request ID from context.
// chi's RequestID middleware takes precedence.
func GetRequestIDFromContext(ctx context.Context) string {
	if id := chimw.GetReqID(ctx); id != "" {
		return id
	}
	if val := ctx.Value(RequestIDKey); val != nil {
		if requestID, ok := val.(string); ok {
			return requestID
		}
	}
	return ""
}

// WithRequestID adds a request ID to the context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// requestFields returns the log fields identifying the request and, when
// authenticated, its principal.
func requestFields(ctx context.Context) []zap.Field {
	fields := []zap.Field{zap.String("request_id", GetRequestIDFromContext(ctx))}
	if principal := auth.PrincipalFromContext(ctx); principal != "" {
		fields = append(fields, zap.String("principal", principal))
	}
	return fields
}
