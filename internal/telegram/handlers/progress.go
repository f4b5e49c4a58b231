package handlers

import (
	"context"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

const progressInterval = 10 * time.Second

// progressMessages cycle while a turn is in flight so a slow backend call
// does not look like a dead bot
var progressMessages = []string{
	"⏳ Всё ещё думаю над ответом...",
	"⏳ Сверяюсь с материалами курса...",
	"⏳ Почти готово...",
}

// ProgressNotifier keeps the typing indicator alive and sends periodic
// progress messages during long operations
type ProgressNotifier struct {
	bot     *tgbotapi.BotAPI
	chatID  int64
	typing  *ActionNotifier
	ticker  *time.Ticker
	done    chan struct{}
	index   int
	stopped bool
	logger  *zap.Logger
}

// NewProgressNotifier creates a new progress notifier
func NewProgressNotifier(bot *tgbotapi.BotAPI, chatID int64, logger *zap.Logger) *ProgressNotifier {
	return &ProgressNotifier{
		bot:    bot,
		chatID: chatID,
		typing: NewTypingNotifier(bot, chatID, logger),
		done:   make(chan struct{}),
		logger: logger,
	}
}

// Start begins sending the typing indicator and periodic progress messages
func (pn *ProgressNotifier) Start(ctx context.Context) {
	pn.typing.Start(ctx)
	pn.ticker = time.NewTicker(progressInterval)

	go func() {
		for {
			select {
			case <-pn.ticker.C:
				message := progressMessages[pn.index%len(progressMessages)]
				pn.index++

				msg := tgbotapi.NewMessage(pn.chatID, message)
				if _, err := pn.bot.Send(msg); err != nil {
					pn.logger.Warn("failed to send progress message",
						zap.Error(err),
						zap.Int64("chat_id", pn.chatID),
					)
				}

			case <-pn.done:
				return

			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop stops the typing indicator and progress messages
func (pn *ProgressNotifier) Stop() {
	if pn.stopped {
		return
	}

	pn.stopped = true
	pn.typing.Stop()
	if pn.ticker != nil {
		pn.ticker.Stop()
	}
	close(pn.done)
}
