// Package analysis runs the two-step generation and persists its results.
package analysis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/starlenz/patent-assistant/internal/entity"
	"github.com/starlenz/patent-assistant/internal/mapper"
	"github.com/starlenz/patent-assistant/internal/repository"
	"go.uber.org/zap"
)

const (
	DefaultListLimit = 5
	MaxListLimit     = 50
)

// Export is a rendered analysis file
type Export struct {
	Filename    string
	ContentType string
	Data        []byte
}

// AnalysisUsecase implements analysis business logic
type AnalysisUsecase struct {
	engine     Engine
	mapper     *mapper.Mapper
	repo       repository.AnalysisRepository
	formatters FormatterFactory
}

// NewUsecase creates a new analysis use case
func NewUsecase(
	engine Engine,
	mapper *mapper.Mapper,
	repo repository.AnalysisRepository,
	formatters FormatterFactory,
) *AnalysisUsecase {
	return &AnalysisUsecase{
		engine:     engine,
		mapper:     mapper,
		repo:       repo,
		formatters: formatters,
	}
}

// Analyze drafts a summary, critiques it and maps both into a result record
func (uc *AnalysisUsecase) Analyze(ctx context.Context, answers *entity.AnswerMap) (*entity.ResultRecord, error) {
	ctx = ctxzap.ToContext(ctx, ctxzap.Extract(ctx).With(
		zap.String("engine", uc.engine.Name()),
		zap.String("model", uc.engine.Model()),
	))
	started := time.Now()

	summary, err := uc.engine.Summarize(ctx, answers)
	if err != nil {
		return nil, fmt.Errorf("summarize answers: %w", err)
	}
	if strings.TrimSpace(summary) == "" {
		return nil, fmt.Errorf("summarize answers: %w", entity.ErrEmptyEngineResult)
	}

	ctxzap.Debug(ctx, "summary generated", zap.Int("length", len(summary)))

	critique, err := uc.engine.Critique(ctx, summary)
	if err != nil {
		return nil, fmt.Errorf("critique summary: %w", err)
	}
	if strings.TrimSpace(critique) == "" {
		return nil, fmt.Errorf("critique summary: %w", entity.ErrEmptyEngineResult)
	}

	rec := uc.mapper.Build(answers, summary, critique)

	ctxzap.Info(ctx, "analysis generated",
		zap.Duration("elapsed", time.Since(started)),
		zap.Int("case_studies", len(rec.CaseStudies)),
		zap.Int("feasibility", len(rec.Feasibility)),
		zap.Int("development_plan", len(rec.DevelopmentPlan)),
		zap.Int("improvements", len(rec.Improvements)),
	)

	return rec, nil
}

// Render produces the chat text of a result record
func (uc *AnalysisUsecase) Render(rec *entity.ResultRecord) string {
	return uc.mapper.Render(rec)
}

// Save persists a completed analysis and returns its ID
func (uc *AnalysisUsecase) Save(ctx context.Context, userID string, answers *entity.AnswerMap, rec *entity.ResultRecord) (string, error) {
	saved, err := uc.repo.Create(ctx, entity.Analysis{
		ID:     uuid.NewString(),
		UserID: userID,
		Input:  answers,
		Result: rec,
	})
	if err != nil {
		return "", fmt.Errorf("save analysis: %w", err)
	}

	ctxzap.Info(ctx, "analysis saved", zap.String("analysis_id", saved.ID))

	return saved.ID, nil
}

func (uc *AnalysisUsecase) GetAnalysis(ctx context.Context, id string) (*entity.Analysis, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: analysis id must be a UUID", entity.ErrInvalidParameter)
	}
	return uc.repo.Get(ctx, id)
}

// ListUserAnalyses returns the latest analyses of a user, newest first
func (uc *AnalysisUsecase) ListUserAnalyses(ctx context.Context, userID string, limit int) ([]*entity.Analysis, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("%w: user id is required", entity.ErrInvalidParameter)
	}
	switch {
	case limit <= 0:
		limit = DefaultListLimit
	case limit > MaxListLimit:
		limit = MaxListLimit
	}

	return uc.repo.ListByUser(ctx, userID, limit)
}

// Export renders a stored analysis into a downloadable file
func (uc *AnalysisUsecase) Export(ctx context.Context, id string, format entity.ResultFormat) (*Export, error) {
	if err := format.Validate(); err != nil {
		return nil, err
	}

	a, err := uc.GetAnalysis(ctx, id)
	if err != nil {
		return nil, err
	}

	f, err := uc.formatters.Create(format)
	if err != nil {
		return nil, err
	}

	data, err := f.Format(uc.mapper.RenderMarkdown(a.Result))
	if err != nil {
		return nil, fmt.Errorf("format analysis as %s: %w", format, err)
	}

	return &Export{
		Filename:    exportFilename(a) + f.FileExtension(),
		ContentType: f.ContentType(),
		Data:        data,
	}, nil
}

func exportFilename(a *entity.Analysis) string {
	date := a.CreatedAt
	if date.IsZero() {
		date = time.Now()
	}
	short := a.ID
	if len(short) > 8 {
		short = short[:8]
	}
	return fmt.Sprintf("patent-draft-%s-%s", date.Format("20060102"), short)
}
