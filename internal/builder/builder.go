package builder

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/starlenz/patent-assistant/internal/api"
	analysisapi "github.com/starlenz/patent-assistant/internal/api/analysis"
	"github.com/starlenz/patent-assistant/internal/config"
	"github.com/starlenz/patent-assistant/internal/mapper"
	"github.com/starlenz/patent-assistant/internal/pkg/formatter"
	"github.com/starlenz/patent-assistant/internal/telegram"
	"github.com/starlenz/patent-assistant/internal/usecase/analysis"
	"go.uber.org/zap"
)

// core holds what both binaries share
type core struct {
	db         *pgxpool.Pool
	formatters *formatter.Factory
	analysisUC *analysis.AnalysisUsecase
	closers    []func()
}

func (c *core) close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
}

func buildCore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*core, error) {
	c := &core{}

	repo, db := setupStorage(ctx, cfg, logger)
	if db != nil {
		c.db = db
		c.closers = append(c.closers, db.Close)
	}

	m, err := setupMapper(cfg, logger)
	if err != nil {
		c.close()
		return nil, err
	}

	engine, closeEngine, err := setupEngine(ctx, cfg, logger)
	if err != nil {
		c.close()
		return nil, err
	}
	c.closers = append(c.closers, closeEngine)

	c.formatters = formatter.NewFactory(formatter.WithPDFFont(cfg.ExportCfg.PDFFontPath))
	c.analysisUC = analysis.NewUsecase(engine, m, repo, c.formatters)
	logger.Info("Use cases initialized")

	return c, nil
}

func setupMapper(cfg *config.Config, logger *zap.Logger) (*mapper.Mapper, error) {
	if cfg.MapperSchemaFile == "" {
		return mapper.NewDefault(), nil
	}

	schema, err := mapper.LoadSchema(cfg.MapperSchemaFile)
	if err != nil {
		return nil, fmt.Errorf("load mapper schema: %w", err)
	}
	logger.Info("Loaded result mapping schema", zap.String("file", cfg.MapperSchemaFile))

	return mapper.New(schema), nil
}

// Build creates the HTTP API application
func Build() (*App, error) {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := setupLogger(cfg.LogLevel, cfg.Environment)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}

	logger.Info("Building application",
		zap.String("environment", cfg.Environment),
		zap.String("server_addr", cfg.ServerAddr),
	)

	c, err := buildCore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	router := api.SetupRouter(analysisapi.NewHandler(c.analysisUC), logger)
	logger.Info("HTTP router configured")

	server := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("Application built successfully",
		zap.String("environment", cfg.Environment),
	)

	return &App{
		server: server,
		close:  c.close,
		logger: logger,
	}, nil
}

// BuildTelegramBot creates and initializes the Telegram bot
func BuildTelegramBot() (*BotApp, error) {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.ValidateTelegram(); err != nil {
		return nil, fmt.Errorf("telegram configuration: %w", err)
	}

	logger, err := setupLogger(cfg.LogLevel, cfg.Environment)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}

	logger.Info("Building Telegram bot",
		zap.String("environment", cfg.Environment),
		zap.String("llm_provider", cfg.LLMProvider),
	)

	c, err := buildCore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	bot, err := telegram.NewBot(&cfg.TelegramCfg, wizardConfig(cfg, c.formatters, logger), c.analysisUC, logger)
	if err != nil {
		c.close()
		return nil, fmt.Errorf("initialize telegram bot: %w", err)
	}

	logger.Info("Telegram bot built successfully",
		zap.String("environment", cfg.Environment),
	)

	return &BotApp{
		bot:    bot,
		close:  c.close,
		logger: logger,
	}, nil
}
