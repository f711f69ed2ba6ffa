/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

ROUTER: chi
  Chi was chosen for:
  - Lightweight and fast
  - Context-based
  - Middleware support
  - RESTful route patterns

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for the plant-floor frontend

ROUTE GROUPS:
  /api/nits/*       NIT registry
  /api/cylinders/*  Cylinder registry and trace recording
  /api/reports/*    Daily and monthly reports

SECURITY NOTE:
  No authentication middleware currently. All endpoints are public.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		// NIT routes
		r.Route("/nits", func(r chi.Router) {
			r.Get("/", h.ListNits)
			r.Post("/", h.CreateNit)
			r.Post("/{code}/deactivate", h.DeactivateNit)
		})

		// Cylinder routes
		r.Route("/cylinders", func(r chi.Router) {
			r.Get("/", h.ListCylinders)
			r.Post("/", h.CreateCylinder)
			r.Get("/{id}", h.GetCylinder)
			r.Get("/{id}/traces", h.GetCylinderTraces)
			r.Post("/{id}/traces", h.RecordTrace)
		})

		// Report routes
		r.Route("/reports", func(r chi.Router) {
			r.Get("/daily/{date}", h.GetDailyReport)
			r.Get("/monthly", h.ListMonthlyReports)
			r.Get("/monthly/{month}", h.GetMonthlyReport)
			r.Post("/monthly/{month}/compute", h.ComputeMonthlyReport)
		})
	})

	return r
}
