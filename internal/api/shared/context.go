package shared

import (
	"context"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// ContextKey is the type of the request context keys set by the API layer.
type ContextKey string

const (
	// UserIDContextKey holds the authenticated caller's uuid.UUID.
	UserIDContextKey ContextKey = "userID"

	// RoleContextKey holds the authenticated caller's role.
	RoleContextKey ContextKey = "role"

	// TraceIDKey holds the request trace ID.
	TraceIDKey ContextKey = "traceID"

	// maxTraceIDLength bounds trace IDs taken from upstream request IDs.
	maxTraceIDLength = 64
)

// SetTraceID adds a trace ID to the context. The chi request ID is reused
// when present so access logs and error bodies correlate; otherwise a
// random ID is generated.
func SetTraceID(ctx context.Context) context.Context {
	return context.WithValue(ctx, TraceIDKey, traceIDFor(ctx))
}

// GetTraceID retrieves the trace ID from the context.
// If no trace ID exists, it returns an empty string.
func GetTraceID(ctx context.Context) string {
	traceID, ok := ctx.Value(TraceIDKey).(string)
	if !ok {
		return ""
	}
	return traceID
}

// WithCaller adds the authenticated caller to the context.
func WithCaller(ctx context.Context, userID uuid.UUID, role string) context.Context {
	ctx = context.WithValue(ctx, UserIDContextKey, userID)
	return context.WithValue(ctx, RoleContextKey, role)
}

// GetUserID returns the authenticated caller's ID.
func GetUserID(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(UserIDContextKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		return uuid.Nil, false
	}
	return userID, true
}

// GetRole returns the authenticated caller's role, or "" when unauthenticated.
func GetRole(ctx context.Context) string {
	role, _ := ctx.Value(RoleContextKey).(string)
	return role
}

func traceIDFor(ctx context.Context) string {
	if id := middleware.GetReqID(ctx); id != "" && len(id) <= maxTraceIDLength && printable(id) {
		return id
	}
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

func printable(s string) bool {
	for _, r := range s {
		if r < 0x21 || r > 0x7e {
			return false
		}
	}
	return true
}
