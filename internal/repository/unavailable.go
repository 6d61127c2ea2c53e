package repository

import (
	"context"

	"github.com/starlenz/patent-assistant/internal/entity"
)

var _ AnalysisRepository = UnavailableRepository{}

// UnavailableRepository stands in when no database is configured.
// Every call fails with entity.ErrStorageUnavailable.
type UnavailableRepository struct{}

func (UnavailableRepository) Create(context.Context, entity.Analysis) (*entity.Analysis, error) {
	return nil, entity.ErrStorageUnavailable
}

func (UnavailableRepository) Get(context.Context, string) (*entity.Analysis, error) {
	return nil, entity.ErrStorageUnavailable
}

func (UnavailableRepository) ListByUser(context.Context, string, int) ([]*entity.Analysis, error) {
	return nil, entity.ErrStorageUnavailable
}
