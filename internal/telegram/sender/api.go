// Package sender delivers wizard replies through the Bot API.
package sender

import (
	"errors"
	"net"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// API is the part of *tgbotapi.BotAPI used for outgoing messages
type API interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

var _ API = (*tgbotapi.BotAPI)(nil)

// ChatID parses a session id back into a chat id
func ChatID(sessionID string) (int64, error) {
	id, err := strconv.ParseInt(sessionID, 10, 64)
	if err != nil {
		return 0, errors.New("session id is not a chat id: " + sessionID)
	}
	return id, nil
}

// SessionID formats a chat id as a session id
func SessionID(chatID int64) string {
	return strconv.FormatInt(chatID, 10)
}

// IsTemporary reports whether a failed request is worth repeating:
// flood control, server side failures and network errors
func IsTemporary(err error) bool {
	var apiErr *tgbotapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code == 429 || apiErr.Code >= 500
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}
