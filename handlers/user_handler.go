package handlers

import (
	"context"
	"net/http"

	"github.com/upb/ecommerce-auth/models"
	"github.com/upb/ecommerce-auth/utils"
	"go.uber.org/zap"
)

// UserService is the subset of services.UserService used by UserHandler
type UserService interface {
	CurrentUser(ctx context.Context) (*models.User, error)
}

// UserHandler serves account endpoints behind authentication
type UserHandler struct {
	service UserService
	logger  *zap.Logger
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(service UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{service: service, logger: logger}
}

// HandleMe handles GET /api/v1/users/me
func (h *UserHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.CurrentUser(r.Context())
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	if err := utils.WriteOK(w, user); err != nil {
		h.logger.Error("failed to write current user response", zap.Error(err))
	}
}
