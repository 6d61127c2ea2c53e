package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/starlenz/patent-assistant/internal/entity"
)

// AnalysisRepository defines the interface for analysis persistence
type AnalysisRepository interface {
	Create(ctx context.Context, analysis entity.Analysis) (*entity.Analysis, error)
	Get(ctx context.Context, id string) (*entity.Analysis, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]*entity.Analysis, error)
}

var _ AnalysisRepository = &AnalysisPostgres{}

const (
	createAnalysisQuery = `
INSERT INTO analyses (id, telegram_id, input_data, result)
VALUES ($1, $2, $3, $4)
RETURNING id, telegram_id, input_data, result, created_at`

	getAnalysisQuery = `
SELECT id, telegram_id, input_data, result, created_at
FROM analyses
WHERE id = $1`

	listUserAnalysesQuery = `
SELECT id, telegram_id, input_data, result, created_at
FROM analyses
WHERE telegram_id = $1
ORDER BY created_at DESC
LIMIT $2`
)

// AnalysisPostgres implements AnalysisRepository using PostgreSQL
type AnalysisPostgres struct {
	db *pgxpool.Pool
}

func NewAnalysisPostgres(db *pgxpool.Pool) *AnalysisPostgres {
	return &AnalysisPostgres{db: db}
}

func (r *AnalysisPostgres) Create(ctx context.Context, analysis entity.Analysis) (*entity.Analysis, error) {
	row, err := fromEntityAnalysis(analysis)
	if err != nil {
		return nil, err
	}

	var out analysisRow
	err = r.db.QueryRow(ctx, createAnalysisQuery, row.ID, row.TelegramID, row.InputData, row.Result).
		Scan(&out.ID, &out.TelegramID, &out.InputData, &out.Result, &out.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create analysis: %w", err)
	}

	return toEntityAnalysis(&out)
}

func (r *AnalysisPostgres) Get(ctx context.Context, id string) (*entity.Analysis, error) {
	analysisID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: parse analysis ID: %v", entity.ErrInvalidParameter, err)
	}

	var out analysisRow
	err = r.db.QueryRow(ctx, getAnalysisQuery, pgtype.UUID{Bytes: analysisID, Valid: true}).
		Scan(&out.ID, &out.TelegramID, &out.InputData, &out.Result, &out.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entity.ErrAnalysisNotFound
		}
		return nil, fmt.Errorf("get analysis: %w", err)
	}

	return toEntityAnalysis(&out)
}

func (r *AnalysisPostgres) ListByUser(ctx context.Context, userID string, limit int) ([]*entity.Analysis, error) {
	rows, err := r.db.Query(ctx, listUserAnalysesQuery, userID, int32(limit))
	if err != nil {
		return nil, fmt.Errorf("list analyses: %w", err)
	}

	results, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (analysisRow, error) {
		var out analysisRow
		err := row.Scan(&out.ID, &out.TelegramID, &out.InputData, &out.Result, &out.CreatedAt)
		return out, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan analyses: %w", err)
	}

	analyses := make([]*entity.Analysis, 0, len(results))
	for i := range results {
		a, err := toEntityAnalysis(&results[i])
		if err != nil {
			return nil, err
		}
		analyses = append(analyses, a)
	}

	return analyses, nil
}
