package sender

import (
	"context"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/starlenz/patent-assistant/internal/wizard"
	"go.uber.org/zap"
)

// The typing status expires after five seconds
const typingInterval = 4 * time.Second

var _ wizard.ActivityNotifier = &TypingNotifier{}

// TypingNotifier keeps the "typing" status up while an analysis runs
type TypingNotifier struct {
	api      API
	interval time.Duration
}

func NewTypingNotifier(api API) *TypingNotifier {
	return &TypingNotifier{api: api, interval: typingInterval}
}

// StartActivity sends a typing action now and then every few seconds
// until stop is called or ctx is done
func (t *TypingNotifier) StartActivity(ctx context.Context, s wizard.Session) func() {
	chatID, err := ChatID(s.ID)
	if err != nil {
		ctxzap.Warn(ctx, "typing indicator skipped", zap.Error(err))
		return func() {}
	}

	t.sendTyping(ctx, chatID)

	done := make(chan struct{})
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		ticker := time.NewTicker(t.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				t.sendTyping(ctx, chatID)
			case <-done:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			close(done)
			<-finished
		})
	}
}

func (t *TypingNotifier) sendTyping(ctx context.Context, chatID int64) {
	if _, err := t.api.Request(tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)); err != nil {
		ctxzap.Warn(ctx, "failed to send typing action",
			zap.Error(err),
			zap.Int64("chat_id", chatID),
		)
	}
}
