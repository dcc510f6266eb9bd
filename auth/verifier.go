package auth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// HashCost is the bcrypt work factor used for stored secrets.
const HashCost = bcrypt.DefaultCost

// HashSecret returns the bcrypt hash of a plaintext secret.
func HashSecret(secret string) ([]byte, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), HashCost)
	if err != nil {
		return nil, fmt.Errorf("hash secret: %w", err)
	}
	return hash, nil
}

// CredentialVerifier checks presented secrets against the credential store.
// It holds no mutable state and is safe for concurrent use.
type CredentialVerifier struct {
	store     CredentialStore
	dummyHash []byte
}

// NewCredentialVerifier creates a verifier backed by store.
func NewCredentialVerifier(store CredentialStore) (*CredentialVerifier, error) {
	if store == nil {
		return nil, errors.New("auth: credential store is required")
	}

	// Compared against when the identifier is unknown so that a miss costs
	// the same bcrypt work as a wrong secret.
	dummy, err := bcrypt.GenerateFromPassword([]byte("unknown-identifier"), HashCost)
	if err != nil {
		return nil, fmt.Errorf("auth: prepare verifier: %w", err)
	}

	return &CredentialVerifier{
		store:     store,
		dummyHash: dummy,
	}, nil
}

// Verify authenticates identifier with presentedSecret.
//
// Returns *AuthenticationError (matching ErrInvalidCredentials) when the
// identifier is unknown or the secret does not match. Store failures are
// returned wrapped and do not match ErrInvalidCredentials.
func (v *CredentialVerifier) Verify(ctx context.Context, identifier, presentedSecret string) (*Principal, error) {
	cred, err := v.store.LookupCredential(ctx, identifier)
	if err != nil {
		if errors.Is(err, ErrCredentialNotFound) {
			_ = bcrypt.CompareHashAndPassword(v.dummyHash, []byte(presentedSecret))
			return nil, &AuthenticationError{Reason: ReasonNotFound, Identifier: identifier}
		}
		return nil, fmt.Errorf("lookup credential: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword(cred.SecretHash, []byte(presentedSecret)); err != nil {
		return nil, &AuthenticationError{Reason: ReasonBadSecret, Identifier: identifier}
	}

	principal := cred.Principal
	if principal.Identifier == "" {
		principal.Identifier = cred.Identifier
	}
	return &principal, nil
}
