package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/starlenz/patent-assistant/internal/config"
	"github.com/starlenz/patent-assistant/internal/entity"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// GeminiConnector runs both stages on a Gemini model
type GeminiConnector struct {
	client   *genai.Client
	model    string
	summary  *genai.GenerativeModel
	critique *genai.GenerativeModel
}

// NewGeminiConnector opens a client. Close releases it.
func NewGeminiConnector(ctx context.Context, cfg config.GeminiConfig) (*GeminiConnector, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is empty")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(strings.TrimSpace(cfg.APIKey)))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	model := strings.TrimSpace(cfg.Model)
	return &GeminiConnector{
		client:   client,
		model:    model,
		summary:  newGeminiModel(client, model, SummarySystemPrompt, cfg.MaxTokens),
		critique: newGeminiModel(client, model, CritiqueSystemPrompt, cfg.MaxTokens),
	}, nil
}

func newGeminiModel(client *genai.Client, name, system string, maxTokens int32) *genai.GenerativeModel {
	m := client.GenerativeModel(name)
	m.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(system)},
	}
	if maxTokens > 0 {
		m.SetMaxOutputTokens(maxTokens)
	}
	return m
}

func (g *GeminiConnector) Name() string  { return config.ProviderGemini }
func (g *GeminiConnector) Model() string { return g.model }

func (g *GeminiConnector) Summarize(ctx context.Context, answers *entity.AnswerMap) (string, error) {
	ctxzap.Info(ctx, "generating specification draft via gemini", zap.String("model", g.model))

	text, err := generate(ctx, g.summary, SummaryUserPrompt(answers))
	if err != nil {
		return "", fmt.Errorf("summarize: %w", err)
	}
	return text, nil
}

func (g *GeminiConnector) Critique(ctx context.Context, summary string) (string, error) {
	ctxzap.Info(ctx, "generating draft review via gemini", zap.String("model", g.model))

	text, err := generate(ctx, g.critique, CritiqueUserPrompt(summary))
	if err != nil {
		return "", fmt.Errorf("critique: %w", err)
	}
	return text, nil
}

func (g *GeminiConnector) Close() error {
	return g.client.Close()
}

func generate(ctx context.Context, m *genai.GenerativeModel, prompt string) (string, error) {
	resp, err := m.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}

	text := firstText(resp)
	if strings.TrimSpace(text) == "" {
		return "", entity.ErrEmptyEngineResult
	}
	return text, nil
}

func firstText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	for _, c := range resp.Candidates {
		if c.Content == nil {
			continue
		}
		for _, p := range c.Content.Parts {
			if t, ok := p.(genai.Text); ok {
				return string(t)
			}
		}
	}
	return ""
}
