package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/upb/ecommerce-auth/models"
)

// TestLoginToRequestFlow walks a credential through verification, issuance
// and request-time validation with a shared clock.
func TestLoginToRequestFlow(t *testing.T) {
	ctx := context.Background()
	loginAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	store := memoryStore{
		"a@x.com": newCredential(t, "a@x.com", "s3cret1", models.RoleUser),
	}
	verifier, err := NewCredentialVerifier(store)
	require.NoError(t, err)
	issuer := newTestIssuer(t, loginAt)

	principal, err := verifier.Verify(ctx, "a@x.com", "s3cret1")
	require.NoError(t, err)
	token, err := issuer.Issue(*principal)
	require.NoError(t, err)

	header := BearerValue(token.Value)

	t.Run("valid within TTL", func(t *testing.T) {
		raw, present, err := ParseAuthorizationHeader(header)
		require.NoError(t, err)
		require.True(t, present)

		claims, err := newTestValidator(t, loginAt.Add(time.Minute)).Validate(raw)
		require.NoError(t, err)

		sc := NewSecurityContext(claims)
		assert.Equal(t, "a@x.com", sc.Principal)
		assert.Equal(t, []string{"USER"}, sc.Roles)
	})

	t.Run("expired after TTL", func(t *testing.T) {
		raw, _, err := ParseAuthorizationHeader(header)
		require.NoError(t, err)

		_, err = newTestValidator(t, loginAt.Add(26*time.Minute)).Validate(raw)
		assert.Equal(t, ReasonExpired, ValidationReasonOf(err))
	})

	t.Run("absent header", func(t *testing.T) {
		_, present, err := ParseAuthorizationHeader("")
		assert.NoError(t, err)
		assert.False(t, present)
	})

	t.Run("wrong secret never reaches issuance", func(t *testing.T) {
		p, err := verifier.Verify(ctx, "a@x.com", "wrong")
		assert.Nil(t, p)
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}
