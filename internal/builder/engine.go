package builder

import (
	"context"
	"fmt"

	"github.com/starlenz/patent-assistant/internal/config"
	"github.com/starlenz/patent-assistant/internal/integration/llm"
	"github.com/starlenz/patent-assistant/internal/usecase/analysis"
	"go.uber.org/zap"
)

// setupEngine picks the generation backend. The returned func releases it.
func setupEngine(ctx context.Context, cfg *config.Config, logger *zap.Logger) (analysis.Engine, func(), error) {
	switch cfg.LLMProvider {
	case config.ProviderMock:
		logger.Info("Using mock generation engine")
		return llm.NewMockConnector(logger), func() {}, nil
	case config.ProviderGemini:
		g, err := llm.NewGeminiConnector(ctx, cfg.GeminiCfg)
		if err != nil {
			return nil, nil, fmt.Errorf("create gemini connector: %w", err)
		}
		logger.Info("Using gemini generation engine", zap.String("model", g.Model()))
		return g, func() {
			if err := g.Close(); err != nil {
				logger.Warn("failed to close gemini client", zap.Error(err))
			}
		}, nil
	case config.ProviderAnthropic:
		c := llm.NewConnector(cfg.AnthropicCfg, logger)
		logger.Info("Using anthropic generation engine", zap.String("model", c.Model()))
		return c, func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown LLM provider %q", cfg.LLMProvider)
	}
}
