package telegram

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/starlenz/patent-assistant/internal/config"
	"github.com/starlenz/patent-assistant/internal/telegram/bot"
	"github.com/starlenz/patent-assistant/internal/telegram/keyboard"
	"github.com/starlenz/patent-assistant/internal/telegram/sender"
	"github.com/starlenz/patent-assistant/internal/usecase/analysis"
	"github.com/starlenz/patent-assistant/internal/wizard"
	"go.uber.org/zap"
)

// Bot is the main telegram bot interface
type Bot interface {
	Start(ctx context.Context) error
	Stop() error
}

// NewBot authorizes against the Bot API and wires the wizard to it
func NewBot(
	cfg *config.TelegramConfig,
	wizardCfg wizard.Config,
	analysisUC *analysis.AnalysisUsecase,
	logger *zap.Logger,
) (Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("create bot API: %w", err)
	}

	logger.Info("telegram bot authorized",
		zap.String("username", api.Self.UserName),
		zap.Int64("id", api.Self.ID),
	)

	msgSender := sender.NewMessageSender(api, keyboard.NewBuilder(), cfg.SendRetry)

	machine, err := wizard.NewMachine(wizardCfg, msgSender, analysisUC, analysisUC, analysisUC,
		wizard.WithActivityNotifier(sender.NewTypingNotifier(api)),
	)
	if err != nil {
		return nil, fmt.Errorf("create wizard: %w", err)
	}

	b := bot.New(api, cfg, machine, analysisUC, msgSender, logger)

	logger.Info("telegram bot initialized successfully",
		zap.Int("steps", len(wizardCfg.Steps)),
		zap.Int("max_concurrent_users", cfg.MaxConcurrentUsers),
	)

	return b, nil
}
