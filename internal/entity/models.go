package entity

import (
	"fmt"
	"time"
)

// Analysis is one persisted, completed analysis
type Analysis struct {
	ID        string        `json:"id"`
	UserID    string        `json:"telegram_id"`
	Input     *AnswerMap    `json:"input_data"`
	Result    *ResultRecord `json:"result"`
	CreatedAt time.Time     `json:"created_at"`
}

type ResultFormat string

const (
	FormatMarkdown ResultFormat = "md"
	FormatPDF      ResultFormat = "pdf"
	FormatDOCX     ResultFormat = "docx"
)

func (f ResultFormat) Validate() error {
	switch f {
	case FormatMarkdown, FormatPDF, FormatDOCX:
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, f)
	}
}
