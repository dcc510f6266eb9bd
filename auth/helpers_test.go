package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/upb/ecommerce-auth/models"
)

var (
	testSigningKey  = []byte(strings.Repeat("0123456789abcdef", 4))
	otherSigningKey = []byte(strings.Repeat("fedcba9876543210", 4))
)

// MockCredentialStore is a mock implementation of CredentialStore
type MockCredentialStore struct {
	mock.Mock
}

func (m *MockCredentialStore) LookupCredential(ctx context.Context, identifier string) (*Credential, error) {
	args := m.Called(ctx, identifier)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Credential), args.Error(1)
}

// memoryStore is a read-only map-backed CredentialStore.
type memoryStore map[string]*Credential

func (s memoryStore) LookupCredential(_ context.Context, identifier string) (*Credential, error) {
	cred, ok := s[identifier]
	if !ok {
		return nil, ErrCredentialNotFound
	}
	return cred, nil
}

func newCredential(t *testing.T, identifier, secret string, role models.UserRole) *Credential {
	t.Helper()
	hash, err := HashSecret(secret)
	require.NoError(t, err)
	return &Credential{
		Identifier: identifier,
		SecretHash: hash,
		Principal: Principal{
			ID:         uuid.New(),
			Identifier: identifier,
			Role:       role,
		},
	}
}

// fixedClock returns a clock function pinned to t.
func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func newTestIssuer(t *testing.T, now time.Time) *TokenIssuer {
	t.Helper()
	issuer, err := NewTokenIssuer(testSigningKey, WithIssuerClock(fixedClock(now)))
	require.NoError(t, err)
	return issuer
}

func newTestValidator(t *testing.T, now time.Time) *TokenValidator {
	t.Helper()
	validator, err := NewTokenValidator(testSigningKey, WithValidatorClock(fixedClock(now)))
	require.NoError(t, err)
	return validator
}
