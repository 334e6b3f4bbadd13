package rest

import (
	"log/slog"

	"github.com/frahmantamala/funcionarios/internal/app"
	"github.com/frahmantamala/funcionarios/internal/auth"
	"github.com/frahmantamala/funcionarios/internal/funcionario"
	"github.com/frahmantamala/funcionarios/internal/i18n"
	"github.com/frahmantamala/funcionarios/internal/notification"
	"github.com/frahmantamala/funcionarios/internal/transport/middleware"
	"github.com/frahmantamala/funcionarios/internal/transport/swagger"
	"github.com/go-chi/chi"
)

type Handlers struct {
	Auth          *auth.Handler
	Funcionario   *funcionario.Handler
	Notification  *notification.Handler
	Health        *HealthHandler
	Registry      *app.Registry
	Cookie        middleware.CookieConfig
	Translator    *i18n.Translator
	OpenAPIPath   string
	AllowedOrigin string
}

func RegisterAllRoutes(router *chi.Mux, h Handlers, logger *slog.Logger) {
	// Apply global middleware
	router.Use(middleware.RequestID(logger))
	router.Use(middleware.CORS(h.AllowedOrigin))
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.RecoveryMiddleware(logger, h.Translator))

	if h.OpenAPIPath != "" {
		router.Get("/openapi.yml", swagger.SpecHandler(h.OpenAPIPath))
		router.Handle("/swagger/*", swagger.Handler())
	}

	router.Route("/api/v1", func(r chi.Router) {
		if h.Health != nil {
			r.Get("/health", h.Health.healthCheckHandler)
			r.Get("/ping", h.Health.pingHandler)
		}

		// Everything below belongs to one browser client.
		r.Group(func(cr chi.Router) {
			cr.Use(middleware.ClientContext(h.Registry, h.Cookie))

			if h.Auth != nil {
				cr.Route("/auth", func(sr chi.Router) {
					sr.Post("/login", h.Auth.Login)
					sr.Post("/register", h.Auth.Register)
					sr.Post("/logout", h.Auth.Logout)
					sr.Get("/session", h.Auth.Session)
					sr.Get("/profile", h.Auth.Profile)
				})
			}

			if h.Funcionario != nil {
				cr.Route("/funcionarios", func(fr chi.Router) {
					fr.Get("/", h.Funcionario.List)
					fr.Get("/count", h.Funcionario.Count)
					fr.Get("/{id}", h.Funcionario.Get)

					fr.Group(func(pr chi.Router) {
						pr.Use(middleware.RequireSession(h.Translator))
						pr.Post("/", h.Funcionario.Create)
					})
				})
			}

			if h.Notification != nil {
				cr.Route("/notifications", func(nr chi.Router) {
					nr.Get("/", h.Notification.List)
					nr.Delete("/{id}", h.Notification.Dismiss)
				})
			}
		})
	})
}
