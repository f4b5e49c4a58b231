package handlers

import (
	"context"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// ActionNotifier sends periodic chat actions to show bot activity while a
// slow backend call is in flight
type ActionNotifier struct {
	bot     *tgbotapi.BotAPI
	chatID  int64
	action  string
	ticker  *time.Ticker
	done    chan struct{}
	logger  *zap.Logger
	started bool
}

// NewTypingNotifier creates a notifier with the "typing" chat action
func NewTypingNotifier(bot *tgbotapi.BotAPI, chatID int64, logger *zap.Logger) *ActionNotifier {
	return NewActionNotifier(bot, chatID, tgbotapi.ChatTyping, logger)
}

// NewActionNotifier creates a notifier for an arbitrary chat action
func NewActionNotifier(bot *tgbotapi.BotAPI, chatID int64, action string, logger *zap.Logger) *ActionNotifier {
	return &ActionNotifier{
		bot:    bot,
		chatID: chatID,
		action: action,
		done:   make(chan struct{}),
		logger: logger,
	}
}

// Start begins sending chat actions every 4 seconds.
// A Telegram chat action expires after 5 seconds, so 4 keeps it visible.
func (t *ActionNotifier) Start(ctx context.Context) {
	if t.started {
		return
	}

	t.started = true
	t.ticker = time.NewTicker(4 * time.Second)

	// Send the first action immediately
	t.send()

	go func() {
		for {
			select {
			case <-t.ticker.C:
				t.send()
			case <-t.done:
				t.ticker.Stop()
				return
			case <-ctx.Done():
				t.ticker.Stop()
				return
			}
		}
	}()
}

// Stop stops sending chat actions
func (t *ActionNotifier) Stop() {
	if !t.started {
		return
	}

	close(t.done)
	t.started = false
}

func (t *ActionNotifier) send() {
	action := tgbotapi.NewChatAction(t.chatID, t.action)
	if _, err := t.bot.Request(action); err != nil {
		t.logger.Warn("failed to send chat action",
			zap.Error(err),
			zap.String("action", t.action),
			zap.Int64("chat_id", t.chatID),
		)
	}
}
