package analysis

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/starlenz/patent-assistant/internal/entity"
	"github.com/starlenz/patent-assistant/internal/pkg/formatter"
	"github.com/starlenz/patent-assistant/internal/pkg/logger"
	"github.com/starlenz/patent-assistant/internal/pkg/response"
	"go.uber.org/zap"
)

type Handler struct {
	usecase AnalysisUsecase
}

func NewHandler(usecase AnalysisUsecase) *Handler {
	return &Handler{usecase: usecase}
}

// ListUserAnalyses handles GET /users/{user_id}/analyses
func (h *Handler) ListUserAnalyses(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "ListUserAnalyses")
	userID := chi.URLParam(r, "user_id")

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			h.respondError(ctx, w, http.StatusBadRequest, "limit must be a positive integer", err)
			return
		}
		limit = n
	}

	analyses, err := h.usecase.ListUserAnalyses(ctx, userID, limit)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	out := make([]*entity.AnalysisSummary, 0, len(analyses))
	for _, a := range analyses {
		out = append(out, toAnalysisSummary(a))
	}

	response.Success(w, entity.ListAnalysesResponse{Analyses: out})
}

// GetAnalysis handles GET /analyses/{analysis_id}
func (h *Handler) GetAnalysis(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "GetAnalysis")
	id := chi.URLParam(r, "analysis_id")

	a, err := h.usecase.GetAnalysis(ctx, id)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, toAnalysisDetail(a, h.usecase.Render(a.Result)))
}

// ExportAnalysis handles GET /analyses/{analysis_id}/export?format=md|pdf|docx
func (h *Handler) ExportAnalysis(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "ExportAnalysis")
	id := chi.URLParam(r, "analysis_id")

	format := entity.ResultFormat(r.URL.Query().Get("format"))
	if format == "" {
		format = entity.FormatMarkdown
	}

	exp, err := h.usecase.Export(ctx, id, format)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	ctxzap.Info(ctx, "analysis exported",
		zap.String("analysis_id", id),
		zap.String("format", string(format)),
		zap.Int("size", len(exp.Data)),
	)

	response.File(w, exp.Filename, exp.ContentType, exp.Data)
}

func (h *Handler) respondError(ctx context.Context, w http.ResponseWriter, status int, message string, err error) {
	if status >= http.StatusInternalServerError {
		ctxzap.Error(ctx, message, zap.Error(err))
	} else {
		ctxzap.Warn(ctx, message, zap.Error(err))
	}
	response.Error(w, status, message)
}

func (h *Handler) handleUsecaseError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, entity.ErrAnalysisNotFound):
		h.respondError(ctx, w, http.StatusNotFound, "analysis not found", err)
	case errors.Is(err, entity.ErrInvalidParameter):
		h.respondError(ctx, w, http.StatusBadRequest, "invalid parameter", err)
	case errors.Is(err, entity.ErrUnsupportedFormat):
		h.respondError(ctx, w, http.StatusBadRequest, "unsupported export format", err)
	case errors.Is(err, entity.ErrStorageUnavailable), errors.Is(err, formatter.ErrFontUnavailable):
		h.respondError(ctx, w, http.StatusServiceUnavailable, "service unavailable", err)
	default:
		h.respondError(ctx, w, http.StatusInternalServerError, "internal server error", err)
	}
}
