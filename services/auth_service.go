package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/upb/ecommerce-auth/auth"
	"github.com/upb/ecommerce-auth/models"
	"github.com/upb/ecommerce-auth/repositories"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// CredentialVerifier checks an identifier/secret pair
type CredentialVerifier interface {
	Verify(ctx context.Context, identifier, secret string) (*auth.Principal, error)
}

// TokenIssuer mints access tokens
type TokenIssuer interface {
	Issue(p auth.Principal) (*auth.Token, error)
}

// LoginResult is the outcome of a successful login
type LoginResult struct {
	UserID    uuid.UUID
	Token     string
	Role      models.UserRole
	ExpiresAt time.Time
}

// RegisterInput carries the fields of a new storefront account
type RegisterInput struct {
	Username  string
	FirstName string
	LastName  string
	Email     string
	Address   string
	Cellphone string
	Password  string
	Role      string
}

// AuthService implements login and registration
type AuthService struct {
	verifier  CredentialVerifier
	issuer    TokenIssuer
	users     repositories.UserRepository
	txManager repositories.TransactionManager
	logger    *zap.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	verifier CredentialVerifier,
	issuer TokenIssuer,
	users repositories.UserRepository,
	txManager repositories.TransactionManager,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		verifier:  verifier,
		issuer:    issuer,
		users:     users,
		txManager: txManager,
		logger:    logger,
	}
}

// Login verifies the credentials and issues a token.
// Every verification failure is reported as ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, identifier, secret string) (*LoginResult, error) {
	principal, err := s.verifier.Verify(ctx, identifier, secret)
	if err != nil {
		var authErr *auth.AuthenticationError
		if errors.As(err, &authErr) {
			s.logger.Info("login rejected", zap.String("reason", string(authErr.Reason)))
			return nil, ErrInvalidCredentials
		}
		return nil, WrapInternal("credential lookup failed", err)
	}

	token, err := s.issuer.Issue(*principal)
	if err != nil {
		return nil, WrapInternal("token issuance failed", err)
	}

	s.logger.Info("login succeeded",
		zap.String("user_id", principal.ID.String()),
		zap.String("role", principal.Role.String()))

	return &LoginResult{
		UserID:    principal.ID,
		Token:     token.Value,
		Role:      principal.Role,
		ExpiresAt: token.ExpiresAt,
	}, nil
}

// Register creates a storefront account with a hashed password.
// A taken email yields ErrDuplicateEmail.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	role := models.RoleUser
	if strings.TrimSpace(in.Role) != "" {
		parsed, err := models.ParseUserRole(in.Role)
		if err != nil {
			return nil, ErrInvalidRole
		}
		role = parsed
	}

	email := strings.TrimSpace(in.Email)
	if email == "" || in.Password == "" {
		return nil, ErrInvalidInput
	}

	hash, err := auth.HashSecret(in.Password)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, NewDomainError(ErrorTypeValidation, "password is too long", err)
		}
		return nil, WrapInternal("hash password", err)
	}

	user := models.NewUser(email, in.Username, role)
	user.FirstName = in.FirstName
	user.LastName = in.LastName
	user.Address = in.Address
	user.Cellphone = in.Cellphone
	user.PasswordHash = hash

	err = WithTransaction(ctx, s.txManager, func(ctx context.Context, tx repositories.Transaction) error {
		users := s.users.WithTx(tx)

		exists, err := users.ExistsByEmail(ctx, email)
		if err != nil {
			return err
		}
		if exists {
			return ErrDuplicateEmail
		}
		return users.Create(ctx, user)
	})
	if err != nil {
		if errors.Is(err, ErrDuplicateEmail) || errors.Is(err, repositories.ErrDuplicate) {
			return nil, ErrDuplicateEmail
		}
		return nil, WrapInternal("register user", err)
	}

	s.logger.Info("user registered",
		zap.String("user_id", user.ID.String()),
		zap.String("role", role.String()))
	return user, nil
}
