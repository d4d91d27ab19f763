package session

import "context"

type authContextKey struct{}

// AuthContext is the identity bound to a single authenticated request.
// It lives only in the request context and is never persisted.
type AuthContext struct {
	UserID    string
	SessionID string
	Token     string // needed for sign-out; never log
}

// WithAuthContext returns a copy of ctx carrying the given identity.
func WithAuthContext(ctx context.Context, ac AuthContext) context.Context {
	return context.WithValue(ctx, authContextKey{}, ac)
}

// FromContext returns the identity bound to ctx, if any.
func FromContext(ctx context.Context) (AuthContext, bool) {
	ac, ok := ctx.Value(authContextKey{}).(AuthContext)
	return ac, ok && ac.UserID != ""
}

// UserIDFromContext returns the authenticated user's ID or an empty string.
func UserIDFromContext(ctx context.Context) string {
	ac, _ := FromContext(ctx)
	return ac.UserID
}
