// Route registration and go-chi router setup.
// Public routes (/health, /auth/*) vs JWT-protected routes (/api/v1/*).
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/coursemind/coursemind/internal/api/handlers"
	apmiddleware "github.com/coursemind/coursemind/internal/api/middleware"
)

// Deps are the services the router exposes over HTTP.
type Deps struct {
	Auth      handlers.AuthService
	Assistant handlers.Assistant
	Catalog   handlers.Catalog
	Sessions  handlers.SessionClearer
}

// NewRouter creates and configures a chi router with all routes.
func NewRouter(deps Deps) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware (runs on all routes)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// ===== PUBLIC ROUTES (no auth required) =====

	// Health check, used by load balancers and health probes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`)) //nolint:errcheck
	})

	authHandler := handlers.NewAuthHandler(deps.Auth)
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register) // POST /auth/register
		r.Post("/login", authHandler.Login)       // POST /auth/login
	})

	// ===== PROTECTED ROUTES (JWT required) =====

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(apmiddleware.Auth)

		queryHandler := handlers.NewQueryHandler(deps.Assistant)
		coursesHandler := handlers.NewCoursesHandler(deps.Catalog)
		sessionHandler := handlers.NewSessionHandler(deps.Sessions)

		r.Post("/query", queryHandler.Query)                // POST /api/v1/query
		r.Get("/courses", coursesHandler.List)              // GET /api/v1/courses
		r.Delete("/sessions/{id}", sessionHandler.Delete)   // DELETE /api/v1/sessions/{id}
	})

	return r
}
