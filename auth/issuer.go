package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenIssuer mints signed access tokens for authenticated principals.
type TokenIssuer struct {
	key []byte
	now func() time.Time
}

// IssuerOption configures a TokenIssuer.
type IssuerOption func(*TokenIssuer)

// WithIssuerClock overrides the clock used for iat/exp.
func WithIssuerClock(now func() time.Time) IssuerOption {
	return func(i *TokenIssuer) {
		if now != nil {
			i.now = now
		}
	}
}

// NewTokenIssuer creates an issuer signing with key.
// It fails with ErrSigningKeyUnavailable when the key is missing or too short.
func NewTokenIssuer(key []byte, opts ...IssuerOption) (*TokenIssuer, error) {
	if err := checkSigningKey(key); err != nil {
		return nil, err
	}

	i := &TokenIssuer{
		key: copyKey(key),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i, nil
}

// Issue builds and signs a token for p, valid for TokenTTL from now.
func (i *TokenIssuer) Issue(p Principal) (*Token, error) {
	if p.Identifier == "" {
		return nil, errors.New("auth: principal identifier is required")
	}

	// NumericDate has second precision on the wire.
	issuedAt := i.now().UTC().Truncate(time.Second)
	expiresAt := issuedAt.Add(TokenTTL)

	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   p.Identifier,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Authorities: RolesClaim(p.Role),
	}

	signed, err := jwt.NewWithClaims(SigningMethod, claims).SignedString(i.key)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	return &Token{
		Value:     signed,
		IssuedAt:  issuedAt,
		ExpiresAt: expiresAt,
	}, nil
}
