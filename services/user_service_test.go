package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/upb/ecommerce-auth/auth"
	"github.com/upb/ecommerce-auth/models"
	"github.com/upb/ecommerce-auth/repositories"
	"go.uber.org/zap"
)

func TestUserService_CurrentUser(t *testing.T) {
	logger := zap.NewNop()
	authed := auth.WithSecurityContext(context.Background(),
		auth.NewSecurityContext(&auth.Claims{Subject: "a@x.com", Roles: []string{"USER"}}))

	t.Run("anonymous", func(t *testing.T) {
		svc := NewUserService(new(MockUserRepository), logger)

		_, err := svc.CurrentUser(context.Background())
		assert.Same(t, ErrUnauthenticated, err)
	})

	t.Run("found", func(t *testing.T) {
		users := new(MockUserRepository)
		svc := NewUserService(users, logger)
		want := models.NewUser("a@x.com", "ana", models.RoleUser)
		users.On("GetByEmail", authed, "a@x.com").Return(want, nil)

		got, err := svc.CurrentUser(authed)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("role changed after login", func(t *testing.T) {
		users := new(MockUserRepository)
		svc := NewUserService(users, logger)
		promoted := models.NewUser("a@x.com", "ana", models.RoleAdmin)
		users.On("GetByEmail", authed, "a@x.com").Return(promoted, nil)

		_, err := svc.CurrentUser(authed)
		assert.Same(t, ErrUnauthenticated, err)
	})

	t.Run("token without a known role", func(t *testing.T) {
		users := new(MockUserRepository)
		svc := NewUserService(users, logger)
		noRoles := auth.WithSecurityContext(context.Background(),
			auth.NewSecurityContext(&auth.Claims{Subject: "a@x.com", Roles: []string{}}))
		users.On("GetByEmail", noRoles, "a@x.com").
			Return(models.NewUser("a@x.com", "ana", models.RoleUser), nil)

		_, err := svc.CurrentUser(noRoles)
		assert.True(t, IsUnauthorizedError(err))
	})

	t.Run("account removed after login", func(t *testing.T) {
		users := new(MockUserRepository)
		svc := NewUserService(users, logger)
		users.On("GetByEmail", authed, "a@x.com").
			Return(nil, fmt.Errorf("user by email: %w", repositories.ErrNotFound))

		_, err := svc.CurrentUser(authed)
		assert.True(t, IsNotFoundError(err))
	})

	t.Run("database failure", func(t *testing.T) {
		users := new(MockUserRepository)
		svc := NewUserService(users, logger)
		users.On("GetByEmail", authed, "a@x.com").Return(nil, errors.New("db down"))

		_, err := svc.CurrentUser(authed)
		assert.True(t, IsInternalError(err))
	})
}
