package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/upb/ecommerce-auth/auth"
	"github.com/upb/ecommerce-auth/config"
	"github.com/upb/ecommerce-auth/middleware"
	"github.com/upb/ecommerce-auth/repositories"
	"github.com/upb/ecommerce-auth/repositories/postgres"
	"github.com/upb/ecommerce-auth/services"
	"go.uber.org/zap"
)

// Version is reported by the status endpoint. Overridden at build time
// with -ldflags "-X github.com/upb/ecommerce-auth/app.Version=...".
var Version = "dev"

// Dependencies holds all application dependencies.
// This is the central wiring point for dependency injection.
type Dependencies struct {
	// Infrastructure
	Config *config.Config
	DB     *postgres.DB
	Logger *zap.Logger

	RepoFactory *postgres.RepositoryFactory

	// Repositories
	Users     repositories.UserRepository
	TxManager repositories.TransactionManager

	// Token components
	Issuer    *auth.TokenIssuer
	Validator *auth.TokenValidator
	Verifier  *auth.CredentialVerifier

	// Services
	AuthService *services.AuthService
	UserService *services.UserService

	AuthMiddleware *middleware.AuthMiddleware
}

// NewDependencies creates and wires up all application dependencies.
// A missing or short signing key fails before the database is touched.
func NewDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	issuer, validator, err := newTokenComponents(cfg.Auth)
	if err != nil {
		return nil, err
	}

	factory, err := postgres.NewRepositoryFactory(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	deps, err := wire(ctx, cfg, factory, issuer, validator, logger)
	if err != nil {
		_ = factory.Close()
		return nil, err
	}
	return deps, nil
}

// NewDependenciesFromFactory wires dependencies over an existing repository
// factory. The caller keeps ownership of the factory on error.
func NewDependenciesFromFactory(ctx context.Context, cfg *config.Config, factory *postgres.RepositoryFactory, logger *zap.Logger) (*Dependencies, error) {
	issuer, validator, err := newTokenComponents(cfg.Auth)
	if err != nil {
		return nil, err
	}
	return wire(ctx, cfg, factory, issuer, validator, logger)
}

func newTokenComponents(cfg config.AuthConfig) (*auth.TokenIssuer, *auth.TokenValidator, error) {
	key := cfg.SigningKeyBytes()

	issuer, err := auth.NewTokenIssuer(key)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize token issuer: %w", err)
	}
	validator, err := auth.NewTokenValidator(key)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize token validator: %w", err)
	}
	return issuer, validator, nil
}

func wire(
	ctx context.Context,
	cfg *config.Config,
	factory *postgres.RepositoryFactory,
	issuer *auth.TokenIssuer,
	validator *auth.TokenValidator,
	logger *zap.Logger,
) (*Dependencies, error) {
	d := &Dependencies{
		Config:      cfg,
		Logger:      logger,
		RepoFactory: factory,
		DB:          factory.GetDB(),
		Issuer:      issuer,
		Validator:   validator,
	}

	if cfg.Database.InitSchema {
		if err := factory.InitSchema(ctx); err != nil {
			return nil, fmt.Errorf("failed to initialize schema: %w", err)
		}
	}

	repos := factory.NewRepositories()
	d.Users = repos.Users
	d.TxManager = factory.GetTransactionManager()

	verifier, err := auth.NewCredentialVerifier(factory.NewCredentialStore())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize credential verifier: %w", err)
	}
	d.Verifier = verifier

	d.AuthService = services.NewAuthService(verifier, issuer, d.Users, d.TxManager, logger)
	d.UserService = services.NewUserService(d.Users, logger)
	d.AuthMiddleware = middleware.NewAuthMiddleware(validator, logger)

	logger.Info("all dependencies initialized successfully",
		zap.String("environment", cfg.Environment),
		zap.Duration("token_ttl", auth.TokenTTL))
	return d, nil
}

// Close gracefully shuts down all dependencies
func (d *Dependencies) Close(ctx context.Context) error {
	d.Logger.Info("shutting down dependencies")

	var errs []error
	if d.RepoFactory != nil {
		if err := d.RepoFactory.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		} else {
			d.Logger.Info("database connection closed")
		}
	}

	_ = d.Logger.Sync()

	return errors.Join(errs...)
}
