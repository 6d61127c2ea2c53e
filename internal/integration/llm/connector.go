package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/starlenz/patent-assistant/internal/config"
	"github.com/starlenz/patent-assistant/internal/entity"
	pkghttp "github.com/starlenz/patent-assistant/pkg/http"
	"go.uber.org/zap"
)

// Connector calls the Anthropic Messages API. Failures are returned as is;
// the engine is not retried.
type Connector struct {
	config    config.AnthropicConfig
	connector *pkghttp.Connector
	logger    *zap.Logger
}

func NewConnector(cfg config.AnthropicConfig, logger *zap.Logger) *Connector {
	connCfg := &pkghttp.ConnectorConfig{
		Logger:  logger,
		BaseURL: strings.TrimRight(cfg.Url, "/"),
	}

	return &Connector{
		connector: pkghttp.NewConnector(
			connCfg,
			pkghttp.WithRequestTimeout(cfg.RequestTimeout),
			pkghttp.WithConnClientTimeout(cfg.ConnTimeout),
			pkghttp.WithClientKeepAlive(cfg.KeepAlive),
			pkghttp.WithIdleConnTimeout(cfg.IdleConnTimeout),
			pkghttp.WithResponseHeaderTimeout(cfg.ResponseHeaderTimeout),
			pkghttp.WithRequestLogging(),
			pkghttp.WithStaticHeaders(map[string]string{
				"x-api-key":         cfg.APIKey,
				"anthropic-version": cfg.Version,
			}),
		),
		config: cfg,
		logger: logger,
	}
}

func (c *Connector) Name() string  { return config.ProviderAnthropic }
func (c *Connector) Model() string { return c.config.Model }

// Summarize drafts the patent specification from the collected answers
func (c *Connector) Summarize(ctx context.Context, answers *entity.AnswerMap) (string, error) {
	ctxzap.Info(ctx, "generating specification draft via anthropic", zap.String("model", c.config.Model))

	text, err := c.complete(ctx, SummarySystemPrompt, SummaryUserPrompt(answers))
	if err != nil {
		return "", fmt.Errorf("summarize: %w", err)
	}

	ctxzap.Info(ctx, "specification draft generated", zap.Int("result_length", len(text)))
	return text, nil
}

// Critique reviews a specification draft
func (c *Connector) Critique(ctx context.Context, summary string) (string, error) {
	ctxzap.Info(ctx, "generating draft review via anthropic", zap.String("model", c.config.Model))

	text, err := c.complete(ctx, CritiqueSystemPrompt, CritiqueUserPrompt(summary))
	if err != nil {
		return "", fmt.Errorf("critique: %w", err)
	}

	ctxzap.Info(ctx, "draft review generated", zap.Int("result_length", len(text)))
	return text, nil
}

func (c *Connector) complete(ctx context.Context, system, user string) (string, error) {
	req := &entity.AnthropicMessagesRequest{
		Model:     c.config.Model,
		System:    system,
		MaxTokens: c.config.MaxTokens,
		Messages: []entity.AnthropicMessage{
			{Role: "user", Content: user},
		},
	}

	var resp entity.AnthropicMessagesResponse
	if err := c.connector.Post(ctx, c.config.Endpoint, req, &resp); err != nil {
		return "", err
	}

	text := resp.FirstText()
	if strings.TrimSpace(text) == "" {
		return "", entity.ErrEmptyEngineResult
	}

	ctxzap.Debug(ctx, "anthropic response",
		zap.String("id", resp.ID),
		zap.String("stop_reason", resp.StopReason),
	)

	return text, nil
}
