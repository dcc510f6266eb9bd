package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/upb/ecommerce-auth/auth"
	"github.com/upb/ecommerce-auth/models"
	"github.com/upb/ecommerce-auth/services"
	"github.com/upb/ecommerce-auth/utils"
	"go.uber.org/zap"
)

// AuthService is the subset of services.AuthService used by AuthHandler
type AuthService interface {
	Login(ctx context.Context, identifier, secret string) (*services.LoginResult, error)
	Register(ctx context.Context, in services.RegisterInput) (*models.User, error)
}

// LoginRequest is the body of POST /api/v1/security/login
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse is returned on successful login
type LoginResponse struct {
	ID        uuid.UUID `json:"id"`
	Token     string    `json:"token"`
	TokenType string    `json:"token_type"`
	UserType  string    `json:"user_type"`
	ExpiresAt time.Time `json:"expires_at"`
}

// RegisterRequest is the body of POST /api/v1/security/register
type RegisterRequest struct {
	Username  string `json:"username" validate:"required,max=100"`
	FirstName string `json:"first_name" validate:"max=100"`
	LastName  string `json:"last_name" validate:"max=100"`
	Email     string `json:"email" validate:"required,email,max=255"`
	Address   string `json:"address" validate:"max=255"`
	Cellphone string `json:"cellphone" validate:"max=30"`
	Password  string `json:"password" validate:"required,min=6,max=72"`
	UserType  string `json:"user_type"`
}

// AuthHandler handles login and registration
type AuthHandler struct {
	service AuthService
	logger  *zap.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(service AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		logger:  logger,
	}
}

// HandleLogin handles POST /api/v1/security/login
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	result, err := h.service.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	resp := LoginResponse{
		ID:        result.UserID,
		Token:     result.Token,
		TokenType: auth.BearerScheme,
		UserType:  result.Role.String(),
		ExpiresAt: result.ExpiresAt.UTC(),
	}
	if err := utils.WriteOK(w, resp); err != nil {
		h.logger.Error("failed to write login response", zap.Error(err))
	}
}

// HandleRegister handles POST /api/v1/security/register
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	user, err := h.service.Register(r.Context(), services.RegisterInput{
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Address:   req.Address,
		Cellphone: req.Cellphone,
		Password:  req.Password,
		Role:      req.UserType,
	})
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	if err := utils.WriteCreated(w, user); err != nil {
		h.logger.Error("failed to write register response", zap.Error(err))
	}
}
