package middleware

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Notifier sends the short notices middleware replies with
type Notifier interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// updateIDs extracts the user and chat of an update
func updateIDs(update tgbotapi.Update) (userID, chatID int64, ok bool) {
	switch {
	case update.Message != nil:
		if update.Message.From != nil {
			userID = update.Message.From.ID
		}
		return userID, update.Message.Chat.ID, true
	case update.CallbackQuery != nil:
		userID = update.CallbackQuery.From.ID
		if update.CallbackQuery.Message != nil {
			chatID = update.CallbackQuery.Message.Chat.ID
		}
		return userID, chatID, true
	default:
		return 0, 0, false
	}
}
