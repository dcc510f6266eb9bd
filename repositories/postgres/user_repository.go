package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/upb/ecommerce-auth/models"
	"github.com/upb/ecommerce-auth/repositories"
	"go.uber.org/zap"
)

// uniqueViolation is the PostgreSQL SQLSTATE for a unique constraint violation.
const uniqueViolation = pq.ErrorCode("23505")

const userColumns = `id, username, first_name, last_name, email, address, cellphone,
		password_hash, user_type, created_at, updated_at`

// UserRepository implements the repositories.UserRepository interface
type UserRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *DB, logger *zap.Logger) repositories.UserRepository {
	return &UserRepository{
		db:     db,
		logger: logger,
	}
}

// Create creates a new user
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	executor := GetExecutor(ctx, r.db)
	_, err := executor.ExecContext(ctx, query,
		user.ID,
		user.Username,
		user.FirstName,
		user.LastName,
		user.Email,
		user.Address,
		user.Cellphone,
		user.PasswordHash,
		user.Role.String(),
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("create user: %w", repositories.ErrDuplicate)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	r.logger.Debug("user created", zap.String("id", user.ID.String()))
	return nil
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	user, err := scanUser(GetExecutor(ctx, r.db).QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user by email: %w", repositories.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// ExistsByEmail reports whether the email is already registered
func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`

	var exists bool
	if err := GetExecutor(ctx, r.db).QueryRowContext(ctx, query, email).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check user email: %w", err)
	}
	return exists, nil
}

// WithTx returns a repository whose queries run inside tx
func (r *UserRepository) WithTx(tx repositories.Transaction) repositories.UserRepository {
	return &txUserRepository{
		UserRepository: r,
		ctx:            tx.Context(),
	}
}

// txUserRepository routes every call through the transaction context.
type txUserRepository struct {
	*UserRepository
	ctx context.Context
}

func (r *txUserRepository) bind(ctx context.Context) context.Context {
	if tx, ok := GetTransactionFromContext(r.ctx); ok {
		return context.WithValue(ctx, transactionContextKey{}, tx)
	}
	return ctx
}

func (r *txUserRepository) Create(ctx context.Context, user *models.User) error {
	return r.UserRepository.Create(r.bind(ctx), user)
}

func (r *txUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.UserRepository.GetByEmail(r.bind(ctx), email)
}

func (r *txUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.UserRepository.ExistsByEmail(r.bind(ctx), email)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanUser(row rowScanner) (*models.User, error) {
	user := &models.User{}
	var role string
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.FirstName,
		&user.LastName,
		&user.Email,
		&user.Address,
		&user.Cellphone,
		&user.PasswordHash,
		&role,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	user.Role, err = models.ParseUserRole(role)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
