package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// TokenTTL is how long an issued token stays valid. It applies to every principal.
	TokenTTL = 25 * time.Minute

	// MinSigningKeyLength is the minimum HMAC key size in bytes for HS512.
	MinSigningKeyLength = 64

	// RolesClaimName is the JSON name of the roles claim.
	RolesClaimName = "authorities"
)

// SigningMethod is the only algorithm tokens are signed and accepted with.
var SigningMethod = jwt.SigningMethodHS512

// Token is a freshly issued access token.
type Token struct {
	Value     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Claims is the verified content of a valid token.
type Claims struct {
	ID        string
	Subject   string
	Roles     []string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// tokenClaims is the wire shape of the JWT payload.
type tokenClaims struct {
	jwt.RegisteredClaims
	Authorities []string `json:"authorities"`
}

func checkSigningKey(key []byte) error {
	if len(key) == 0 {
		return fmt.Errorf("%w: empty key", ErrSigningKeyUnavailable)
	}
	if len(key) < MinSigningKeyLength {
		return fmt.Errorf("%w: key must be at least %d bytes, got %d",
			ErrSigningKeyUnavailable, MinSigningKeyLength, len(key))
	}
	return nil
}

func copyKey(key []byte) []byte {
	out := make([]byte, len(key))
	copy(out, key)
	return out
}
