package telegram

import (
	"context"
	"fmt"

	"github.com/futig/coursechat-backend/internal/config"
	"github.com/futig/coursechat-backend/internal/telegram/bot"
	"github.com/futig/coursechat-backend/internal/telegram/handlers"
	"github.com/futig/coursechat-backend/internal/telegram/state"
	"go.uber.org/zap"
)

// Bot is the main telegram bot interface
type Bot interface {
	Start(ctx context.Context) error
	Stop() error
}

// NewBot initializes the telegram bot with all dependencies
func NewBot(
	cfg *config.TelegramConfig,
	client handlers.BackendClient,
	stateManager *state.Manager,
	logger *zap.Logger,
) (Bot, error) {
	// Create bot instance
	b, err := bot.New(cfg, client, stateManager, logger)
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}

	// Register handlers
	registerHandlers(b, logger)

	logger.Info("telegram bot initialized successfully")

	return b, nil
}

// registerHandlers registers all handlers with the bot
func registerHandlers(b *bot.Bot, logger *zap.Logger) {
	// Get bot dependencies
	api := b.GetAPI()
	stateManager := b.GetStateManager()
	client := b.GetClient()
	cfg := b.GetConfig()

	// Register chat handler (plain text messages run a chat turn)
	chatHandler := handlers.NewChatHandler(api, stateManager, client, cfg.HistoryLimit, logger)
	b.RegisterHandler(chatHandler)

	// Register document handler (attached files become course materials)
	documentHandler := handlers.NewDocumentHandler(api, stateManager, client, logger)
	b.RegisterHandler(documentHandler)

	logger.Info("telegram handlers registered",
		zap.Int("handler_count", 2),
	)
}
