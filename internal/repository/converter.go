package repository

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/starlenz/patent-assistant/internal/entity"
)

// analysisRow mirrors one row of the analyses table
type analysisRow struct {
	ID         pgtype.UUID
	TelegramID string
	InputData  []byte
	Result     []byte
	CreatedAt  pgtype.Timestamptz
}

func toEntityAnalysis(row *analysisRow) (*entity.Analysis, error) {
	input, err := decodeInput(row.InputData)
	if err != nil {
		return nil, fmt.Errorf("decode input data: %w", err)
	}

	var result entity.ResultRecord
	if len(row.Result) > 0 {
		if err := json.Unmarshal(row.Result, &result); err != nil {
			return nil, fmt.Errorf("decode result: %w", err)
		}
	}
	// JSONB sorts the keys of the object embedded in result; input_data
	// keeps the answer order
	if len(row.InputData) > 0 || result.Input == nil {
		result.Input = input
	}

	return &entity.Analysis{
		ID:        uuid.UUID(row.ID.Bytes).String(),
		UserID:    row.TelegramID,
		Input:     input,
		Result:    &result,
		CreatedAt: row.CreatedAt.Time,
	}, nil
}

// answerPair is one answer of input_data. JSONB does not keep object key
// order, so answers are stored as an array of pairs.
type answerPair struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

func encodeInput(m *entity.AnswerMap) ([]byte, error) {
	pairs := make([]answerPair, 0, m.Len())
	for _, k := range m.Keys() {
		v, _ := m.Get(k)
		pairs = append(pairs, answerPair{Key: k, Value: v})
	}
	return json.Marshal(pairs)
}

// decodeInput also accepts the object form written by earlier versions
func decodeInput(raw []byte) (*entity.AnswerMap, error) {
	input := entity.NewAnswerMap()

	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return input, nil
	}
	if raw[0] == '{' {
		if err := json.Unmarshal(raw, input); err != nil {
			return nil, err
		}
		return input, nil
	}

	var pairs []answerPair
	if err := json.Unmarshal(raw, &pairs); err != nil {
		return nil, err
	}
	for _, p := range pairs {
		input.Set(p.Key, p.Value)
	}
	return input, nil
}

func fromEntityAnalysis(a entity.Analysis) (*analysisRow, error) {
	id, err := uuid.Parse(a.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: parse analysis ID: %v", entity.ErrInvalidParameter, err)
	}

	input, err := encodeInput(a.Input)
	if err != nil {
		return nil, fmt.Errorf("encode input data: %w", err)
	}

	result := a.Result
	if result == nil {
		result = entity.NewResultRecord(a.Input)
	}
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}

	return &analysisRow{
		ID:         pgtype.UUID{Bytes: id, Valid: true},
		TelegramID: a.UserID,
		InputData:  input,
		Result:     resultJSON,
	}, nil
}
