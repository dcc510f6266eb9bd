package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/upb/ecommerce-auth/app"
	"github.com/upb/ecommerce-auth/auth"
	"github.com/upb/ecommerce-auth/handlers"
	"github.com/upb/ecommerce-auth/middleware"
	"github.com/upb/ecommerce-auth/utils"
)

const defaultRequestTimeout = 60 * time.Second

// SetupRoutes configures all application routes and middleware
func SetupRoutes(deps *app.Dependencies) http.Handler {
	r := chi.NewRouter()

	// Core middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(requestTimeout(deps)))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: deps.Config.Auth.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", auth.HeaderAuthorization, "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	// Every request passes the token interceptor. Anonymous requests
	// continue; a presented token that fails validation ends with 403.
	r.Use(deps.AuthMiddleware.Authorize)

	var db handlers.HealthChecker
	if deps.DB != nil {
		db = deps.DB
	}
	health := handlers.NewHealthHandler(db, app.Version, deps.Config.Environment, deps.Logger)
	authHandler := handlers.NewAuthHandler(deps.AuthService, deps.Logger)
	userHandler := handlers.NewUserHandler(deps.UserService, deps.Logger)

	r.Get("/healthz", health.HandleHealth)
	r.Get("/readyz", health.HandleReadiness)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/status", health.HandleStatus)

		r.Route("/security", func(r chi.Router) {
			r.Post("/login", authHandler.HandleLogin)
			r.Post("/register", authHandler.HandleRegister)
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(deps.AuthMiddleware.RequireAuth)
			r.Get("/me", userHandler.HandleMe)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		_ = utils.WriteNotFound(w, "endpoint not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		_ = utils.WriteError(w, http.StatusMethodNotAllowed, "method not allowed", nil)
	})

	return r
}

func requestTimeout(deps *app.Dependencies) time.Duration {
	if t := deps.Config.Server.RequestTimeout; t > 0 {
		return t
	}
	return defaultRequestTimeout
}
