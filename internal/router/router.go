package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"pedlop-auth/internal/config"
	"pedlop-auth/internal/handler"
	"pedlop-auth/internal/middleware"
	"pedlop-auth/internal/model"
)

func New(
	cfg *config.Config,
	authMiddleware *middleware.AuthMiddleware,
	authHandler *handler.AuthHandler,
	healthHandler *handler.HealthHandler,
) http.Handler {
	r := chi.NewRouter()
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.RateLimitRPM, cfg.AuthRateLimitRPM)

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.SecurityHeaders)
	r.Use(rateLimitMiddleware.Handler)

	r.Get("/health", healthHandler.Health)

	r.Route("/api/v1", func(api chi.Router) {
		api.Use(middleware.Timeout(cfg.RequestTimeout))

		api.Route("/auth", func(auth chi.Router) {
			auth.Post("/signup", authHandler.Signup)
			auth.Post("/signin", authHandler.Signin)
			auth.Patch("/signout", authHandler.Signout)
			auth.Get("/check", authHandler.Check)
			auth.With(authMiddleware.Authenticate).Patch("/refresh", authHandler.Refresh)
			auth.With(authMiddleware.Authenticate).Get("/profile", authHandler.Profile)
			auth.With(authMiddleware.Authenticate).Put("/profile", authHandler.UpdateProfile)
			auth.Put("/reset-password", authHandler.ResetPassword)
			auth.With(authMiddleware.RequireRole(model.RoleAdmin)).Get("/users", authHandler.ListUsers)
			auth.With(authMiddleware.RequireRole(model.RoleAdmin)).Put("/users/{id}", authHandler.AdminUpdateUser)
		})
	})

	return r
}
