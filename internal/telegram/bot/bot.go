package bot

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/starlenz/patent-assistant/internal/config"
	"github.com/starlenz/patent-assistant/internal/entity"
	"github.com/starlenz/patent-assistant/internal/pkg/logger"
	"github.com/starlenz/patent-assistant/internal/telegram/keyboard"
	"github.com/starlenz/patent-assistant/internal/telegram/middleware"
	"github.com/starlenz/patent-assistant/internal/telegram/render"
	"github.com/starlenz/patent-assistant/internal/telegram/sender"
	"github.com/starlenz/patent-assistant/internal/usecase/analysis"
	"github.com/starlenz/patent-assistant/internal/wizard"
	"go.uber.org/zap"
)

var errShutdownTimeout = errors.New("shutdown timeout exceeded")

// API is the part of *tgbotapi.BotAPI the bot loop needs
type API interface {
	sender.API
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Wizard receives every text a user sends
type Wizard interface {
	Handle(ctx context.Context, s wizard.Session, text string) error
	// Wait blocks until background analyses have finished
	Wait()
}

// Exporter renders saved analyses into files
type Exporter interface {
	Export(ctx context.Context, id string, format entity.ResultFormat) (*analysis.Export, error)
}

// Bot represents the Telegram bot
type Bot struct {
	api         API
	cfg         *config.TelegramConfig
	wizard      Wizard
	exporter    Exporter
	sender      *sender.MessageSender
	logger      *zap.Logger
	loggingMW   *middleware.LoggingMiddleware
	recoveryMW  *middleware.RecoveryMiddleware
	rateLimitMW *middleware.RateLimiterMiddleware

	updatesChan tgbotapi.UpdatesChannel
	stopChan    chan struct{}
	stopOnce    sync.Once
	wg          sync.WaitGroup

	// updates of one chat are handled in arrival order
	queueMu sync.Mutex
	queues  map[int64]*chatQueue
	slots   chan struct{}
}

type chatQueue struct {
	pending []tgbotapi.Update
}

// New creates a new Telegram bot
func New(
	api API,
	cfg *config.TelegramConfig,
	w Wizard,
	exporter Exporter,
	msgSender *sender.MessageSender,
	logger *zap.Logger,
) *Bot {
	maxUsers := cfg.MaxConcurrentUsers
	if maxUsers < 1 {
		maxUsers = 1
	}

	return &Bot{
		api:         api,
		cfg:         cfg,
		wizard:      w,
		exporter:    exporter,
		sender:      msgSender,
		logger:      logger,
		loggingMW:   middleware.NewLoggingMiddleware(logger),
		recoveryMW:  middleware.NewRecoveryMiddleware(logger, api),
		rateLimitMW: middleware.NewRateLimiterMiddleware(cfg.RateLimitPerMinute, cfg.RateLimitBurst, logger, api),
		stopChan:    make(chan struct{}),
		queues:      make(map[int64]*chatQueue),
		slots:       make(chan struct{}, maxUsers),
	}
}

// Start starts the bot
func (b *Bot) Start(ctx context.Context) error {
	b.logger.Info("starting telegram bot")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.cfg.UpdateTimeout
	b.updatesChan = b.api.GetUpdatesChan(u)

	ctx = ctxzap.ToContext(ctx, b.logger)

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		b.processUpdates(ctx)
	}()

	b.logger.Info("telegram bot started successfully")
	return nil
}

// Stop stops receiving updates and waits for in-flight work, including
// running analyses, up to the shutdown timeout
func (b *Bot) Stop() error {
	b.logger.Info("stopping telegram bot")

	b.stopOnce.Do(func() {
		close(b.stopChan)
		b.api.StopReceivingUpdates()
	})

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		b.wizard.Wait()
		close(done)
	}()

	shutdownTimeout := time.Duration(b.cfg.ShutdownTimeout) * time.Second
	select {
	case <-done:
		b.logger.Info("all handlers completed gracefully")
	case <-time.After(shutdownTimeout):
		b.logger.Warn("shutdown timeout exceeded, some handlers may not have completed",
			zap.Duration("timeout", shutdownTimeout),
		)
		return errShutdownTimeout
	}

	b.logger.Info("telegram bot stopped successfully")
	return nil
}

func (b *Bot) processUpdates(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			ctxzap.Info(ctx, "context cancelled, stopping update processing")
			return
		case <-b.stopChan:
			ctxzap.Info(ctx, "stop signal received, stopping update processing")
			return
		case update, ok := <-b.updatesChan:
			if !ok {
				return
			}
			b.dispatch(ctx, update)
		}
	}
}

// dispatch queues an update behind earlier updates of the same chat
func (b *Bot) dispatch(ctx context.Context, update tgbotapi.Update) {
	chatID := chatOf(update)

	b.queueMu.Lock()
	q, running := b.queues[chatID]
	if !running {
		q = &chatQueue{}
		b.queues[chatID] = q
	}
	q.pending = append(q.pending, update)
	b.queueMu.Unlock()

	if running {
		return
	}

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		b.drain(ctx, chatID, q)
	}()
}

func (b *Bot) drain(ctx context.Context, chatID int64, q *chatQueue) {
	b.slots <- struct{}{}
	defer func() { <-b.slots }()

	for {
		b.queueMu.Lock()
		if len(q.pending) == 0 {
			delete(b.queues, chatID)
			b.queueMu.Unlock()
			return
		}
		update := q.pending[0]
		q.pending = q.pending[1:]
		b.queueMu.Unlock()

		b.handleUpdateWithMiddleware(ctx, update)
	}
}

// handleUpdateWithMiddleware processes update through middleware chain
func (b *Bot) handleUpdateWithMiddleware(ctx context.Context, update tgbotapi.Update) {
	b.rateLimitMW.Handle(update, func(u tgbotapi.Update) {
		b.loggingMW.Handle(u, func(u2 tgbotapi.Update) {
			b.recoveryMW.Handle(u2, func(u3 tgbotapi.Update) {
				b.handleUpdate(ctx, u3)
			})
		})
	})
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		b.handleCallbackQuery(ctx, update.CallbackQuery)
	case update.Message != nil:
		b.handleMessage(ctx, update.Message)
	}
}

func (b *Bot) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	if message.From == nil {
		return
	}

	s := wizard.Session{
		ID:     sender.SessionID(message.Chat.ID),
		UserID: strconv.FormatInt(message.From.ID, 10),
	}
	ctx = logger.AddFields(ctx, zap.Int64("chat_id", message.Chat.ID))

	text := message.Text
	if message.IsCommand() {
		// "/start@bot arg" reaches the wizard as "/start"
		text = "/" + message.Command()
		ctxzap.Info(ctx, "command received", zap.String("command", text))
	}

	if text == "" {
		b.sendText(ctx, message.Chat.ID, render.MsgTextOnly)
		return
	}

	if err := b.wizard.Handle(ctx, s, text); err != nil {
		ctxzap.Error(ctx, "wizard error", zap.Error(err))
		b.sendText(ctx, message.Chat.ID, render.ClassifyError(err))
	}
}

func (b *Bot) handleCallbackQuery(ctx context.Context, query *tgbotapi.CallbackQuery) {
	if query.Message == nil {
		b.sender.AnswerCallback(ctx, query.ID, render.ErrInvalidCallback)
		return
	}
	chatID := query.Message.Chat.ID
	ctx = logger.AddFields(ctx,
		zap.Int64("chat_id", chatID),
		zap.Int64("user_id", query.From.ID),
	)

	data, err := keyboard.ParseCallback(query.Data)
	if err != nil {
		ctxzap.Warn(ctx, "invalid callback data", zap.Error(err), zap.String("data", query.Data))
		b.sender.AnswerCallback(ctx, query.ID, render.ErrInvalidCallback)
		return
	}

	ctxzap.Info(ctx, "callback query received",
		zap.String("action", data.Action),
		zap.String("value", data.Value),
	)

	switch data.Action {
	case wizard.ExportCallback:
		b.handleExport(ctx, query.ID, chatID, data)
	default:
		b.sender.AnswerCallback(ctx, query.ID, render.ErrInvalidCallback)
	}
}

func (b *Bot) handleExport(ctx context.Context, callbackID string, chatID int64, data *keyboard.CallbackData) {
	format, id, err := data.ParseExport()
	if err != nil {
		ctxzap.Warn(ctx, "invalid export callback", zap.Error(err))
		b.sender.AnswerCallback(ctx, callbackID, render.ClassifyError(err))
		return
	}

	// answer right away, Telegram drops callbacks that wait too long
	b.sender.AnswerCallback(ctx, callbackID, render.MsgPreparingFile)

	exp, err := b.exporter.Export(ctx, id, format)
	if err != nil {
		ctxzap.Error(ctx, "failed to export analysis",
			zap.Error(err),
			zap.String("analysis_id", id),
			zap.String("format", string(format)),
		)
		b.sendText(ctx, chatID, render.ClassifyError(err))
		return
	}

	if err := b.sender.SendDocument(ctx, chatID, exp.Filename, exp.Data); err != nil {
		ctxzap.Error(ctx, "failed to deliver export", zap.Error(err))
		return
	}

	ctxzap.Info(ctx, "analysis exported",
		zap.String("analysis_id", id),
		zap.String("format", string(format)),
		zap.Int("size", len(exp.Data)),
	)
}

func (b *Bot) sendText(ctx context.Context, chatID int64, text string) {
	if err := b.sender.SendText(ctx, chatID, text); err != nil {
		ctxzap.Error(ctx, "failed to send message", zap.Error(err), zap.Int64("chat_id", chatID))
	}
}

func chatOf(update tgbotapi.Update) int64 {
	switch {
	case update.Message != nil:
		return update.Message.Chat.ID
	case update.CallbackQuery != nil && update.CallbackQuery.Message != nil:
		return update.CallbackQuery.Message.Chat.ID
	default:
		return 0
	}
}
