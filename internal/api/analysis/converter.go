package analysis

import (
	"time"

	"github.com/starlenz/patent-assistant/internal/entity"
)

const untitled = "제목 없는 아이디어"

func toAnalysisSummary(a *entity.Analysis) *entity.AnalysisSummary {
	title, _ := a.Input.Get("idea")
	if title == "" {
		title = untitled
	}

	return &entity.AnalysisSummary{
		ID:        a.ID,
		UserID:    a.UserID,
		Title:     title,
		CreatedAt: a.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func toAnalysisDetail(a *entity.Analysis, text string) *entity.AnalysisDetailResponse {
	return &entity.AnalysisDetailResponse{
		ID:        a.ID,
		UserID:    a.UserID,
		Input:     a.Input,
		Result:    a.Result,
		Text:      text,
		CreatedAt: a.CreatedAt.UTC().Format(time.RFC3339),
	}
}
