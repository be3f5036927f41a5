package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bytemc-uz/bytemc-backend/internal/handlers"
	"github.com/bytemc-uz/bytemc-backend/internal/middleware"
	"github.com/bytemc-uz/bytemc-backend/internal/models"
	"github.com/bytemc-uz/bytemc-backend/internal/services"
)

func SetupRoutes(r *chi.Mux, tokens *services.TokenService, uploadsDir string) {
	// Auth
	r.Post("/api/auth/login", handlers.Login)

	// Admin panel (bearer token + per-action role allow-lists)
	r.Route("/api/admin", func(r chi.Router) {
		r.Use(middleware.Authenticate(tokens))

		r.With(middleware.RequireRole(models.RoleModerator, models.RoleAdmin)).
			Post("/ban", handlers.CreatePunishment(models.TypeBan))
		r.With(middleware.RequireRole(models.RoleHelper, models.RoleModerator, models.RoleAdmin)).
			Post("/mute", handlers.CreatePunishment(models.TypeMute))
		r.With(middleware.RequireRole(models.RoleModerator, models.RoleAdmin)).
			Post("/kick", handlers.CreatePunishment(models.TypeKick))
		r.With(middleware.RequireRole(models.RoleHelper, models.RoleModerator, models.RoleAdmin)).
			Post("/proof/{type}/{id}", handlers.AttachProof)
		r.With(middleware.RequireRole(models.RoleAdmin)).
			Delete("/entry/{id}", handlers.DeleteEntry)
	})

	// Public listings
	r.Get("/api/public/bans", handlers.ListEntries(models.TypeBan))
	r.Get("/api/public/mutes", handlers.ListEntries(models.TypeMute))
	r.Get("/api/public/kicks", handlers.ListEntries(models.TypeKick))

	r.Get("/api/stats", handlers.GetStats)
	r.Get("/api/server/status", handlers.GetServerStatus)
	r.Get("/ws/status", handlers.StatusWebSocket)

	// Debug introspection for misconfigured LiteBans databases
	r.Get("/api/debug/litebans/tables", handlers.DebugLitebansTables)
	r.Get("/api/debug/litebans/probe", handlers.DebugLitebansProbe)

	// Proof images
	r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(uploadsDir))))
}
