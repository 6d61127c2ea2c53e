package analysis

import (
	"context"

	"github.com/starlenz/patent-assistant/internal/entity"
	"github.com/starlenz/patent-assistant/internal/usecase/analysis"
)

type AnalysisUsecase interface {
	GetAnalysis(ctx context.Context, id string) (*entity.Analysis, error)
	ListUserAnalyses(ctx context.Context, userID string, limit int) ([]*entity.Analysis, error)
	Export(ctx context.Context, id string, format entity.ResultFormat) (*analysis.Export, error)
	Render(rec *entity.ResultRecord) string
}
