package keyboard

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Button labels for the persistent reply keyboard. The labels double as
// routing keys: a tap arrives as a plain text message with this exact text.
const (
	ButtonMaterials = "📚 Материалы"
	ButtonReset     = "♻️ Новый диалог"
	ButtonHelp      = "ℹ️ Помощь"
)

// Builder creates reply keyboards
type Builder struct{}

// NewBuilder creates a keyboard builder
func NewBuilder() *Builder {
	return &Builder{}
}

// MainKeyboard returns the persistent keyboard shown under the input field
func (b *Builder) MainKeyboard() tgbotapi.ReplyKeyboardMarkup {
	keyboard := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(ButtonMaterials),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(ButtonReset),
			tgbotapi.NewKeyboardButton(ButtonHelp),
		),
	)
	keyboard.ResizeKeyboard = true

	return keyboard
}

// IsButton reports whether the message text is one of the keyboard labels
func IsButton(text string) bool {
	switch text {
	case ButtonMaterials, ButtonReset, ButtonHelp:
		return true
	default:
		return false
	}
}
