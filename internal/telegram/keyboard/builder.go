package keyboard

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/starlenz/patent-assistant/internal/wizard"
)

// Builder creates reply and inline keyboards
type Builder struct{}

// NewBuilder creates a keyboard builder
func NewBuilder() *Builder {
	return &Builder{}
}

// Markup picks the keyboard of a reply. A message carries one markup,
// so inline actions win over answer options.
func (b *Builder) Markup(r wizard.Reply) any {
	switch {
	case len(r.Actions) > 0:
		return b.Actions(r.Actions)
	case len(r.Options) > 0:
		return b.Options(r.Options)
	case r.RemoveKeyboard:
		return tgbotapi.NewRemoveKeyboard(false)
	default:
		return nil
	}
}

// Options lays selectable answers out as a reply keyboard
func (b *Builder) Options(options [][]string) tgbotapi.ReplyKeyboardMarkup {
	rows := make([][]tgbotapi.KeyboardButton, 0, len(options))
	for _, opts := range options {
		if len(opts) == 0 {
			continue
		}
		row := make([]tgbotapi.KeyboardButton, 0, len(opts))
		for _, o := range opts {
			row = append(row, tgbotapi.NewKeyboardButton(o))
		}
		rows = append(rows, row)
	}

	kb := tgbotapi.NewReplyKeyboard(rows...)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = true
	return kb
}

// Actions creates inline link and callback buttons
func (b *Builder) Actions(actions [][]wizard.Action) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(actions))
	for _, acts := range actions {
		row := make([]tgbotapi.InlineKeyboardButton, 0, len(acts))
		for _, a := range acts {
			if a.URL != "" {
				row = append(row, tgbotapi.NewInlineKeyboardButtonURL(a.Label, a.URL))
				continue
			}
			row = append(row, tgbotapi.NewInlineKeyboardButtonData(a.Label, a.Data))
		}
		if len(row) > 0 {
			rows = append(rows, row)
		}
	}
	return tgbotapi.InlineKeyboardMarkup{InlineKeyboard: rows}
}
