package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/upb/ecommerce-auth/auth"
	"github.com/upb/ecommerce-auth/models"
	"go.uber.org/zap"
)

// CredentialStore serves login lookups from the users table.
type CredentialStore struct {
	db     *DB
	logger *zap.Logger
}

// NewCredentialStore creates a credential store over db
func NewCredentialStore(db *DB, logger *zap.Logger) *CredentialStore {
	return &CredentialStore{
		db:     db,
		logger: logger,
	}
}

var _ auth.CredentialStore = (*CredentialStore)(nil)

// LookupCredential loads the credential for a login email.
// Returns auth.ErrCredentialNotFound when no user has that email.
func (s *CredentialStore) LookupCredential(ctx context.Context, identifier string) (*auth.Credential, error) {
	query := `SELECT id, email, password_hash, user_type FROM users WHERE email = $1`

	var (
		id    uuid.UUID
		email string
		hash  []byte
		role  string
	)
	err := GetExecutor(ctx, s.db).QueryRowContext(ctx, query, identifier).Scan(&id, &email, &hash, &role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, auth.ErrCredentialNotFound
		}
		return nil, fmt.Errorf("failed to query credential: %w", err)
	}

	userRole, err := models.ParseUserRole(role)
	if err != nil {
		s.logger.Error("stored user has unknown role",
			zap.String("user_id", id.String()),
			zap.String("user_type", role))
		return nil, fmt.Errorf("credential for user %s: %w", id, err)
	}

	return &auth.Credential{
		Identifier: email,
		SecretHash: hash,
		Principal: auth.Principal{
			ID:         id,
			Identifier: email,
			Role:       userRole,
		},
	}, nil
}
