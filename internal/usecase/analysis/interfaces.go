package analysis

import (
	"context"

	"github.com/starlenz/patent-assistant/internal/entity"
	"github.com/starlenz/patent-assistant/internal/pkg/formatter"
)

// Engine is a text generation backend
type Engine interface {
	Name() string
	Model() string
	// Summarize drafts a specification summary from the wizard answers
	Summarize(ctx context.Context, answers *entity.AnswerMap) (string, error)
	// Critique reviews a summary under the four result section headings
	Critique(ctx context.Context, summary string) (string, error)
}

type FormatterFactory interface {
	Create(format entity.ResultFormat) (formatter.Formatter, error)
}
