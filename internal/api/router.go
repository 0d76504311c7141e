package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	// Health check (no auth required)
	r.Get("/health", s.handleHealth)

	// Public read-only mirror of the reading list (no auth required)
	r.Get("/datos", s.handlePublicListReadings)

	// Protected reading endpoints
	r.Route("/readings", func(r chi.Router) {
		r.Use(s.apiKeyMiddleware)

		r.Get("/", s.handleListReadings)
		r.Post("/", s.handleCreateReading)
		r.Get("/filter/", s.handleFilterReadings)
		r.Get("/{reading_id}", s.handleGetReading)
	})

	return r
}

// handleHealth returns the server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.version,
	})
}
