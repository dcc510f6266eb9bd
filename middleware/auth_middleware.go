package middleware

import (
	"net/http"

	"github.com/upb/ecommerce-auth/auth"
	"github.com/upb/ecommerce-auth/utils"
	"go.uber.org/zap"
)

// ForbiddenMessage is the single body message for every rejected token.
// Malformed and expired tokens are not distinguished to the client.
const ForbiddenMessage = "Invalid or expired token"

// TokenValidator defines the interface for validating bearer tokens
type TokenValidator interface {
	Validate(raw string) (*auth.Claims, error)
}

// AuthMiddleware provides authentication middleware functionality
type AuthMiddleware struct {
	validator TokenValidator
	logger    *zap.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(validator TokenValidator, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		validator: validator,
		logger:    logger,
	}
}

// Authorize runs on every request. It attaches a SecurityContext for a valid
// bearer token, lets anonymous requests through untouched, and answers 403
// for any token that is malformed or expired.
func (m *AuthMiddleware) Authorize(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		requestID := GetRequestIDFromContext(ctx)

		raw, present, err := auth.ParseAuthorizationHeader(r.Header.Get(auth.HeaderAuthorization))
		if !present {
			next.ServeHTTP(w, r)
			return
		}

		var claims *auth.Claims
		if err == nil {
			claims, err = m.validator.Validate(raw)
		}
		if err != nil {
			m.logger.Warn("token rejected",
				zap.String("request_id", requestID),
				zap.String("reason", string(auth.ValidationReasonOf(err))),
				zap.String("path", r.URL.Path))
			_ = utils.WriteForbidden(w, ForbiddenMessage)
			return
		}

		sc := auth.NewSecurityContext(claims)
		ctx = auth.WithSecurityContext(ctx, sc)

		m.logger.Debug("authentication successful",
			zap.String("request_id", requestID),
			zap.String("principal", sc.Principal),
			zap.Strings("roles", sc.Roles))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAuth rejects anonymous requests with 401. It must run after Authorize.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := auth.SecurityContextFromContext(r.Context()); !ok {
			m.logger.Debug("anonymous request to protected operation",
				zap.String("request_id", GetRequestIDFromContext(r.Context())),
				zap.String("path", r.URL.Path))
			_ = utils.WriteUnauthorized(w, "Authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
