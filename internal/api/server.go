package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	analysisapi "github.com/starlenz/patent-assistant/internal/api/analysis"
	"github.com/starlenz/patent-assistant/internal/api/docs"
	"github.com/starlenz/patent-assistant/internal/api/middleware"
	"github.com/starlenz/patent-assistant/internal/pkg/response"
	"go.uber.org/zap"
)

// SetupRouter creates and configures the HTTP router
func SetupRouter(analysisHandler *analysisapi.Handler, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		response.Success(w, map[string]string{"status": "healthy"})
	})

	docs.RegisterRoutes(r)

	analysisapi.RegisterRoutes(r, analysisHandler)

	return r
}
