package sender

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/starlenz/patent-assistant/internal/pkg/retry"
	"github.com/starlenz/patent-assistant/internal/telegram/keyboard"
	"github.com/starlenz/patent-assistant/internal/wizard"
	"go.uber.org/zap"
)

var _ wizard.Emitter = &MessageSender{}

// MessageSender provides centralized message sending functionality
type MessageSender struct {
	api      API
	keyboard *keyboard.Builder
	retry    retry.RetryConfig
}

// NewMessageSender creates a new MessageSender
func NewMessageSender(api API, kb *keyboard.Builder, rc retry.RetryConfig) *MessageSender {
	if rc.Attempts == 0 {
		rc = *retry.DefaultRetryConfig()
	}
	return &MessageSender{
		api:      api,
		keyboard: kb,
		retry:    rc,
	}
}

// Emit delivers one wizard reply. Long texts go out as several messages,
// the keyboard rides on the last one.
func (s *MessageSender) Emit(ctx context.Context, session wizard.Session, r wizard.Reply) error {
	chatID, err := ChatID(session.ID)
	if err != nil {
		return err
	}

	markup := s.keyboard.Markup(r)
	text := r.Text

	if r.ImageURL != "" {
		sent, err := s.sendPhoto(ctx, chatID, r.ImageURL, text, markup)
		if err != nil {
			ctxzap.Warn(ctx, "failed to send photo, falling back to text",
				zap.Error(err),
				zap.String("image_url", r.ImageURL),
			)
		} else if sent {
			return nil
		}
	}

	if text == "" {
		return nil
	}

	chunks := SplitText(text, MaxMessageLength)
	for i, chunk := range chunks {
		msg := tgbotapi.NewMessage(chatID, chunk)
		if i == len(chunks)-1 && markup != nil {
			msg.ReplyMarkup = markup
		}
		if err := s.send(ctx, msg); err != nil {
			return fmt.Errorf("send message part %d/%d: %w", i+1, len(chunks), err)
		}
	}

	return nil
}

// sendPhoto reports whether the text went out as the caption
func (s *MessageSender) sendPhoto(ctx context.Context, chatID int64, url, text string, markup any) (bool, error) {
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileURL(url))
	withCaption := TextLength(text) <= MaxCaptionLength
	if withCaption {
		photo.Caption = text
		photo.ReplyMarkup = markup
	}

	if err := s.send(ctx, photo); err != nil {
		return false, err
	}
	return withCaption, nil
}

// SendDocument uploads a generated file
func (s *MessageSender) SendDocument(ctx context.Context, chatID int64, filename string, data []byte) error {
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{
		Name:  filename,
		Bytes: data,
	})
	if err := s.send(ctx, doc); err != nil {
		return fmt.Errorf("send document: %w", err)
	}
	return nil
}

// SendText sends a plain message without keyboard changes
func (s *MessageSender) SendText(ctx context.Context, chatID int64, text string) error {
	return s.send(ctx, tgbotapi.NewMessage(chatID, text))
}

// AnswerCallback acknowledges a button press
func (s *MessageSender) AnswerCallback(ctx context.Context, callbackID, text string) {
	if _, err := s.api.Request(tgbotapi.NewCallback(callbackID, text)); err != nil {
		ctxzap.Warn(ctx, "failed to answer callback",
			zap.Error(err),
			zap.String("callback_id", callbackID),
		)
	}
}

func (s *MessageSender) send(ctx context.Context, c tgbotapi.Chattable) error {
	attempt := 0
	err := s.retry.Do(ctx, func() error {
		attempt++
		_, err := s.api.Send(c)
		if err != nil && IsTemporary(err) && attempt < int(s.retry.Attempts) {
			ctxzap.Warn(ctx, "failed to send, retrying",
				zap.Error(err),
				zap.Int("attempt", attempt),
			)
		}
		return err
	}, IsTemporary)
	if err != nil {
		ctxzap.Error(ctx, "failed to send", zap.Error(err), zap.Int("attempts", attempt))
		return err
	}
	if attempt > 1 {
		ctxzap.Info(ctx, "sent after retry", zap.Int("attempt", attempt))
	}
	return nil
}
