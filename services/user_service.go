package services

import (
	"context"
	"errors"

	"github.com/upb/ecommerce-auth/auth"
	"github.com/upb/ecommerce-auth/models"
	"github.com/upb/ecommerce-auth/repositories"
	"go.uber.org/zap"
)

// UserService serves profile reads for authenticated principals
type UserService struct {
	users  repositories.UserRepository
	logger *zap.Logger
}

// NewUserService creates a new UserService
func NewUserService(users repositories.UserRepository, logger *zap.Logger) *UserService {
	return &UserService{users: users, logger: logger}
}

// CurrentUser loads the account behind the request's security context.
// A token whose role no longer matches the stored account is treated as
// unauthenticated; the caller has to log in again.
func (s *UserService) CurrentUser(ctx context.Context) (*models.User, error) {
	sc, ok := auth.SecurityContextFromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}

	user, err := s.users.GetByEmail(ctx, sc.Principal)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			// Token outlived the account.
			return nil, ErrUserNotFound
		}
		return nil, WrapInternal("load current user", err)
	}

	if role, ok := auth.RoleFromClaims(sc.Roles); !ok || role != user.Role {
		s.logger.Warn("token role does not match account",
			zap.String("user_id", user.ID.String()),
			zap.Strings("token_roles", sc.Roles),
			zap.String("account_role", user.Role.String()))
		return nil, ErrUnauthenticated
	}
	return user, nil
}
