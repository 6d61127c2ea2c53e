package entity

// AnthropicMessage is one turn of a Messages API conversation
type AnthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type AnthropicMessagesRequest struct {
	Model     string             `json:"model"`
	System    string             `json:"system,omitempty"`
	Messages  []AnthropicMessage `json:"messages"`
	MaxTokens int                `json:"max_tokens"`
}

type AnthropicContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type AnthropicMessagesResponse struct {
	ID         string                  `json:"id"`
	Model      string                  `json:"model"`
	Content    []AnthropicContentBlock `json:"content"`
	StopReason string                  `json:"stop_reason"`
}

// FirstText returns the first text block of the response
func (r *AnthropicMessagesResponse) FirstText() string {
	for _, block := range r.Content {
		if block.Type == "text" || block.Type == "" {
			return block.Text
		}
	}
	return ""
}
