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
  4. CORS:       Cross-origin requests for the admin dashboard

ROUTE GROUPS:
  /api/rooms/*          Room type catalog
  /api/models/*         Pricing model management
  /api/simulate         Rate simulation
  /api/targets/*        Revenue targets, breakdown, sensitivity
  /api/blocked-dates    Availability management
  /api/overrides        Manual rate pins
  /api/scenarios/*      Demo scenarios

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
		// Room catalog routes
		r.Route("/rooms", func(r chi.Router) {
			r.Get("/", h.ListRooms)
			r.Post("/", h.CreateRoom)
			r.Get("/{id}", h.GetRoom)
		})

		// Pricing model routes
		r.Route("/models", func(r chi.Router) {
			r.Get("/", h.ListModels)
			r.Post("/", h.CreateModel)
			r.Get("/{id}", h.GetModel)
			r.Post("/{id}/activate", h.ActivateModel)
		})

		// Simulation
		r.Post("/simulate", h.Simulate)

		// Revenue target routes
		r.Route("/targets", func(r chi.Router) {
			r.Get("/", h.ListTargets)
			r.Post("/", h.CreateTargets)
			r.Get("/periods", h.ListPeriods)
			r.Delete("/periods", h.DeletePeriod)
			r.Get("/{id}/allocation", h.GetAllocation)
			r.Get("/{id}/breakdown", h.GetBreakdown)
			r.Put("/{id}/breakdown", h.SaveBreakdown)
			r.Post("/{id}/breakdown/preview", h.PreviewBreakdown)
			r.Get("/{id}/sensitivity", h.GetSensitivity)
		})

		// Availability routes
		r.Route("/blocked-dates", func(r chi.Router) {
			r.Get("/", h.ListBlockedDates)
			r.Post("/", h.CreateBlockedDate)
			r.Delete("/", h.DeleteBlockedDate)
		})

		// Override routes
		r.Route("/overrides", func(r chi.Router) {
			r.Get("/", h.ListOverrides)
			r.Post("/", h.CreateOverride)
			r.Delete("/", h.DeleteOverride)
		})

		// Scenario routes
		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", h.ListScenarios)
			r.Get("/current", h.GetCurrentScenario)
			r.Post("/load", h.LoadScenario)
		})
	})

	return r
}
