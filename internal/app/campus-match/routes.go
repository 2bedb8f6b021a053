// Package campusmatch предоставляет маршруты приложения.
package campusmatch

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/campus-match/internal/config"
	"github.com/magabrotheeeer/campus-match/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/campus-match/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/campus-match/internal/http/handlers/discovery/list"
	"github.com/magabrotheeeer/campus-match/internal/http/handlers/health"
	"github.com/magabrotheeeer/campus-match/internal/http/handlers/interaction/act"
	"github.com/magabrotheeeer/campus-match/internal/http/handlers/profile/read"
	"github.com/magabrotheeeer/campus-match/internal/http/middlewarectx"
	libjwt "github.com/magabrotheeeer/campus-match/internal/lib/jwt"
	authservice "github.com/magabrotheeeer/campus-match/internal/services/auth"
	discoveryservice "github.com/magabrotheeeer/campus-match/internal/services/discovery"
	interactionservice "github.com/magabrotheeeer/campus-match/internal/services/interaction"
	safetyservice "github.com/magabrotheeeer/campus-match/internal/services/safety"
	"github.com/magabrotheeeer/campus-match/internal/storage/repository"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, cfg *config.Config,
	jwtMaker libjwt.Maker, db *repository.Storage,
	authService *authservice.Service, safetyService *safetyservice.Service,
	discoveryService *discoveryservice.Service, interactionService *interactionservice.Service) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/register", register.New(logger, authService).ServeHTTP)
		r.Post("/login", login.New(logger, authService).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(jwtMaker, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger, cfg.RateRPS, cfg.RateBurst))
			r.Get("/discovery", list.New(logger, discoveryService).ServeHTTP)
			r.Get("/profiles/{id}", read.New(logger, safetyService, discoveryService).ServeHTTP)
			r.Post("/interactions", act.New(logger, interactionService).ServeHTTP)
		})
	})

	r.Get("/health", health.New(logger, db).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
