package analysis

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers analysis routes
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Get("/users/{user_id}/analyses", h.ListUserAnalyses)

	r.Route("/analyses/{analysis_id}", func(r chi.Router) {
		r.Get("/", h.GetAnalysis)
		r.Get("/export", h.ExportAnalysis)
	})
}
