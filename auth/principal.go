package auth

import (
	"context"

	"github.com/google/uuid"
	"github.com/upb/ecommerce-auth/models"
)

// Principal is an authenticated storefront identity.
type Principal struct {
	ID         uuid.UUID
	Identifier string
	Role       models.UserRole
}

// Credential is what the credential store holds for an identifier.
// SecretHash is a bcrypt hash; the plaintext secret never leaves the client request.
type Credential struct {
	Identifier string
	SecretHash []byte
	Principal  Principal
}

// CredentialStore looks up stored credentials by login identifier.
//
// Contract:
// - Returns ErrCredentialNotFound (possibly wrapped) when no credential exists.
// - Other errors are infrastructure failures and are propagated unchanged.
// - Implementations must be safe for concurrent use.
type CredentialStore interface {
	LookupCredential(ctx context.Context, identifier string) (*Credential, error)
}

// RolesClaim maps the single domain role onto the list-shaped token claim.
func RolesClaim(role models.UserRole) []string {
	if role == "" {
		return []string{}
	}
	return []string{role.String()}
}

// RoleFromClaims maps a roles claim back onto the domain role.
// The first recognised role wins; ok is false when none is recognised.
func RoleFromClaims(roles []string) (models.UserRole, bool) {
	for _, r := range roles {
		if role, err := models.ParseUserRole(r); err == nil {
			return role, true
		}
	}
	return "", false
}
