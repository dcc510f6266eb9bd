package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenValidator verifies presented tokens. Validation is pure computation
// over the token and the clock; it performs no I/O.
type TokenValidator struct {
	key     []byte
	options []jwt.ParserOption
}

// ValidatorOption configures a TokenValidator.
type ValidatorOption func(*validatorConfig)

type validatorConfig struct {
	now func() time.Time
}

// WithValidatorClock overrides the clock used for expiry checks.
func WithValidatorClock(now func() time.Time) ValidatorOption {
	return func(c *validatorConfig) {
		if now != nil {
			c.now = now
		}
	}
}

// NewTokenValidator creates a validator for tokens signed with key.
func NewTokenValidator(key []byte, opts ...ValidatorOption) (*TokenValidator, error) {
	if err := checkSigningKey(key); err != nil {
		return nil, err
	}

	cfg := validatorConfig{now: time.Now}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &TokenValidator{
		key: copyKey(key),
		options: []jwt.ParserOption{
			jwt.WithValidMethods([]string{SigningMethod.Alg()}),
			jwt.WithExpirationRequired(),
			jwt.WithIssuedAt(),
			// The parser treats now == exp as expired; a token is still
			// valid at its expiry instant.
			jwt.WithLeeway(time.Nanosecond),
			jwt.WithTimeFunc(cfg.now),
		},
	}, nil
}

// Validate verifies raw and returns its claims.
//
// Failures are *ValidationError: ReasonExpired for a correctly signed token
// past its expiry, ReasonMalformed for everything else (bad encoding, wrong
// algorithm, bad signature, missing subject, issued-at or roles). A token
// expires strictly after its exp instant.
func (v *TokenValidator) Validate(raw string) (*Claims, error) {
	if raw == "" {
		return nil, malformed(errors.New("empty token"))
	}

	claims := &tokenClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, v.keyFunc, v.options...)
	if err != nil {
		// The signature is checked before time claims, so an expiry error
		// implies an authentic token.
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, expired(err)
		}
		return nil, malformed(err)
	}

	if !token.Valid {
		return nil, malformed(errors.New("token not valid"))
	}
	if claims.Subject == "" {
		return nil, malformed(errors.New("missing subject claim"))
	}
	if claims.IssuedAt == nil {
		return nil, malformed(errors.New("missing issued-at claim"))
	}
	if claims.Authorities == nil {
		return nil, malformed(fmt.Errorf("missing %s claim", RolesClaimName))
	}

	roles := make([]string, len(claims.Authorities))
	copy(roles, claims.Authorities)

	return &Claims{
		ID:        claims.ID,
		Subject:   claims.Subject,
		Roles:     roles,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

func (v *TokenValidator) keyFunc(token *jwt.Token) (interface{}, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
	}
	return v.key, nil
}
