package auth

import "context"

// SecurityContext is the authenticated principal of one in-flight request.
// It is only ever carried in that request's context.Context.
type SecurityContext struct {
	// Principal is the token subject (the login identifier).
	Principal string

	// Roles are the role claims of the token, in token order.
	Roles []string
}

// NewSecurityContext builds a SecurityContext from validated claims.
func NewSecurityContext(c *Claims) *SecurityContext {
	roles := make([]string, len(c.Roles))
	copy(roles, c.Roles)
	return &SecurityContext{
		Principal: c.Subject,
		Roles:     roles,
	}
}

type contextKey int

const securityContextKey contextKey = iota

// WithSecurityContext returns a new context with sc attached.
func WithSecurityContext(ctx context.Context, sc *SecurityContext) context.Context {
	return context.WithValue(ctx, securityContextKey, sc)
}

// SecurityContextFromContext retrieves the security context.
// ok is false for anonymous requests.
func SecurityContextFromContext(ctx context.Context) (sc *SecurityContext, ok bool) {
	sc, ok = ctx.Value(securityContextKey).(*SecurityContext)
	return sc, ok && sc != nil
}

// PrincipalFromContext returns the authenticated identifier, or empty string
// for anonymous requests.
func PrincipalFromContext(ctx context.Context) string {
	if sc, ok := SecurityContextFromContext(ctx); ok {
		return sc.Principal
	}
	return ""
}
