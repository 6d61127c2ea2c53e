package entity

// AnalysisSummary is one entry of a user's analysis history
type AnalysisSummary struct {
	ID        string `json:"id"`
	UserID    string `json:"telegram_id"`
	Title     string `json:"title"`
	CreatedAt string `json:"created_at"`
}

type ListAnalysesResponse struct {
	Analyses []*AnalysisSummary `json:"analyses"`
}

// AnalysisDetailResponse is a stored analysis with its display text
type AnalysisDetailResponse struct {
	ID        string        `json:"id"`
	UserID    string        `json:"telegram_id"`
	Input     *AnswerMap    `json:"input_data"`
	Result    *ResultRecord `json:"result"`
	Text      string        `json:"text"`
	CreatedAt string        `json:"created_at"`
}
