package bot

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/futig/coursechat-backend/internal/config"
	"github.com/futig/coursechat-backend/internal/telegram/handlers"
	"github.com/futig/coursechat-backend/internal/telegram/keyboard"
	"github.com/futig/coursechat-backend/internal/telegram/middleware"
	"github.com/futig/coursechat-backend/internal/telegram/render"
	"github.com/futig/coursechat-backend/internal/telegram/state"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Bot represents the Telegram bot
type Bot struct {
	api          *tgbotapi.BotAPI
	cfg          *config.TelegramConfig
	stateManager *state.Manager
	client       handlers.BackendClient
	handlers     map[string]handlers.Handler
	keyboard     *keyboard.Builder
	logger       *zap.Logger
	loggingMW    *middleware.LoggingMiddleware
	recoveryMW   *middleware.RecoveryMiddleware
	rateLimitMW  *middleware.RateLimiterMiddleware
	updatesChan  tgbotapi.UpdatesChannel
	stopChan     chan struct{}
	wg           sync.WaitGroup
}

// New creates a new Telegram bot
func New(
	cfg *config.TelegramConfig,
	client handlers.BackendClient,
	stateManager *state.Manager,
	logger *zap.Logger,
) (*Bot, error) {
	// Create bot API instance
	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("create bot API: %w", err)
	}

	api.Debug = false

	logger.Info("telegram bot authorized",
		zap.String("username", api.Self.UserName),
		zap.Int64("id", api.Self.ID),
	)

	bot := &Bot{
		api:          api,
		cfg:          cfg,
		stateManager: stateManager,
		client:       client,
		keyboard:     keyboard.NewBuilder(),
		logger:       logger,
		handlers:     make(map[string]handlers.Handler),
		stopChan:     make(chan struct{}),
	}

	// Initialize middleware
	bot.loggingMW = middleware.NewLoggingMiddleware(logger)
	bot.recoveryMW = middleware.NewRecoveryMiddleware(logger, api)
	bot.rateLimitMW = middleware.NewRateLimiterMiddleware(
		cfg.RateLimitPerMinute,
		cfg.RateLimitBurst,
		logger,
		api,
	)

	return bot, nil
}

// Start starts the bot
func (b *Bot) Start(ctx context.Context) error {
	b.logger.Info("starting telegram bot")

	// Configure updates
	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.cfg.UpdateTimeout

	// Get updates channel
	updates := b.api.GetUpdatesChan(u)
	b.updatesChan = updates

	// Add logger to context for processUpdates
	ctx = ctxzap.ToContext(ctx, b.logger)

	// Start update processing loop
	go b.processUpdates(ctx)

	b.logger.Info("telegram bot started successfully")
	return nil
}

// Stop stops the bot gracefully with timeout
func (b *Bot) Stop() error {
	b.logger.Info("stopping telegram bot")

	// Signal to stop receiving new updates
	close(b.stopChan)
	b.api.StopReceivingUpdates()

	// Wait for all active handlers to complete
	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()

	// Wait with timeout
	shutdownTimeout := time.Duration(b.cfg.ShutdownTimeout) * time.Second
	select {
	case <-done:
		b.logger.Info("all handlers completed gracefully")
	case <-time.After(shutdownTimeout):
		b.logger.Warn("shutdown timeout exceeded, some handlers may not have completed",
			zap.Duration("timeout", shutdownTimeout),
		)
		return fmt.Errorf("shutdown timeout exceeded")
	}

	b.logger.Info("telegram bot stopped successfully")
	return nil
}

// processUpdates processes incoming updates
func (b *Bot) processUpdates(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			ctxzap.Info(ctx, "context cancelled, stopping update processing")
			return
		case <-b.stopChan:
			ctxzap.Info(ctx, "stop signal received, stopping update processing")
			return
		case update := <-b.updatesChan:
			// Process update with middleware in separate goroutine
			b.wg.Add(1)
			go func(u tgbotapi.Update) {
				defer b.wg.Done()
				b.handleUpdateWithMiddleware(u)
			}(update)
		}
	}
}

// handleUpdateWithMiddleware processes update through middleware chain
func (b *Bot) handleUpdateWithMiddleware(update tgbotapi.Update) {
	// Rate limiter middleware (first to check)
	b.rateLimitMW.Handle(update, func(u tgbotapi.Update) {
		// Logging middleware
		b.loggingMW.Handle(u, func(u2 tgbotapi.Update) {
			// Recovery middleware
			b.recoveryMW.Handle(u2, func(u3 tgbotapi.Update) {
				// Actual handler
				b.handleUpdate(u3)
			})
		})
	})
}

// handleUpdate routes update to appropriate handler
func (b *Bot) handleUpdate(update tgbotapi.Update) {
	// Create context with logger
	ctx := ctxzap.ToContext(context.Background(), b.logger)

	if update.Message != nil {
		b.handleMessage(ctx, update.Message)
	}
}

// handleMessage handles incoming messages
func (b *Bot) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	// Handle commands
	if message.IsCommand() {
		b.handleCommand(ctx, message)
		return
	}

	// Reply keyboard taps arrive as plain text with the button label
	if keyboard.IsButton(message.Text) {
		b.handleKeyboardButton(ctx, message)
		return
	}

	kind := handlers.KindText
	if message.Document != nil {
		kind = handlers.KindDocument
	} else if message.Text == "" {
		// Voice messages, stickers and the like carry no text to answer
		b.sendError(message.Chat.ID, render.MsgUnsupportedMessage)
		return
	}

	handler, exists := b.handlers[kind]
	if !exists {
		ctxzap.Warn(ctx, "no handler for update kind",
			zap.String("kind", kind),
			zap.Int64("user_id", message.From.ID),
		)
		b.sendError(message.Chat.ID, render.ErrGeneric)
		return
	}

	// Create normalized message
	msg := &handlers.Message{
		ChatID:    message.Chat.ID,
		UserID:    message.From.ID,
		MessageID: message.MessageID,
		Text:      message.Text,
		Caption:   message.Caption,
		Document:  message.Document,
	}

	// Handle message; the handler messages the user about failures itself
	if err := handler.Handle(ctx, msg); err != nil {
		ctxzap.Error(ctx, "handler error",
			zap.Error(err),
			zap.String("kind", kind),
			zap.Int64("user_id", message.From.ID),
		)
	}
}

// handleCommand handles bot commands
func (b *Bot) handleCommand(ctx context.Context, message *tgbotapi.Message) {
	command := message.Command()

	ctxzap.Info(ctx, "command received",
		zap.String("command", command),
		zap.Int64("user_id", message.From.ID),
	)

	switch command {
	case "start":
		b.handleStartCommand(ctx, message)
	case "help":
		b.handleHelpCommand(ctx, message)
	case "reset":
		b.handleResetCommand(ctx, message)
	default:
		b.sendError(message.Chat.ID, render.MsgUnknownCommand)
	}
}

// handleStartCommand greets the user and drops any previous dialogue
func (b *Bot) handleStartCommand(ctx context.Context, message *tgbotapi.Message) {
	chatID := message.Chat.ID

	b.stateManager.ResetConversation(chatID)

	if _, err := b.sendMessage(chatID, render.MsgWelcome, b.keyboard.MainKeyboard()); err != nil {
		ctxzap.Error(ctx, "failed to send welcome message",
			zap.Error(err),
			zap.Int64("chat_id", chatID),
		)
	}
}

// handleHelpCommand handles /help command
func (b *Bot) handleHelpCommand(ctx context.Context, message *tgbotapi.Message) {
	if _, err := b.sendMessage(message.Chat.ID, render.MsgHelp, nil); err != nil {
		ctxzap.Error(ctx, "failed to send help message",
			zap.Error(err),
		)
	}
}

// handleResetCommand drops the dialogue history and the used material set
func (b *Bot) handleResetCommand(ctx context.Context, message *tgbotapi.Message) {
	chatID := message.Chat.ID

	b.stateManager.ResetConversation(chatID)

	ctxzap.Info(ctx, "conversation reset",
		zap.Int64("chat_id", chatID),
	)

	b.sendMessage(chatID, render.MsgReset, nil)
}

// handleKeyboardButton routes reply keyboard taps
func (b *Bot) handleKeyboardButton(ctx context.Context, message *tgbotapi.Message) {
	switch message.Text {
	case keyboard.ButtonMaterials:
		b.handleMaterialsButton(ctx, message.Chat.ID)
	case keyboard.ButtonReset:
		b.handleResetCommand(ctx, message)
	case keyboard.ButtonHelp:
		b.handleHelpCommand(ctx, message)
	}
}

// handleMaterialsButton lists the stored course materials
func (b *Bot) handleMaterialsButton(ctx context.Context, chatID int64) {
	materials, found := b.stateManager.Materials()
	if !found {
		var err error
		materials, err = b.client.InitMaterials(ctx)
		if err != nil {
			ctxzap.Error(ctx, "failed to fetch materials",
				zap.Error(err),
				zap.Int64("chat_id", chatID),
			)
			b.sendError(chatID, render.ClassifyError(err))
			return
		}
		b.stateManager.SetMaterials(materials)
	}

	titles := make([]string, 0, len(materials))
	for _, m := range materials {
		titles = append(titles, m.Title)
	}

	b.sendMessage(chatID, render.RenderMaterialsList(titles), nil)
}

// sendMessage sends a message to chat
func (b *Bot) sendMessage(chatID int64, text string, replyMarkup interface{}) (tgbotapi.Message, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	if replyMarkup != nil {
		msg.ReplyMarkup = replyMarkup
	}
	return b.api.Send(msg)
}

// sendError sends an error message
func (b *Bot) sendError(chatID int64, text string) {
	if _, err := b.sendMessage(chatID, text, nil); err != nil {
		b.logger.Error("failed to send error message",
			zap.Error(err),
			zap.Int64("chat_id", chatID),
		)
	}
}

// RegisterHandler registers a handler for an update kind
func (b *Bot) RegisterHandler(handler handlers.Handler) {
	kind := handler.Kind()

	// Validate kind
	if !handlers.IsValidKind(kind) {
		b.logger.Fatal("invalid handler kind",
			zap.String("kind", kind),
		)
	}

	b.handlers[kind] = handler
	b.logger.Info("handler registered",
		zap.String("kind", kind),
	)
}

// GetAPI returns the bot API instance (for handlers)
func (b *Bot) GetAPI() *tgbotapi.BotAPI {
	return b.api
}

// GetStateManager returns the state manager (for handlers)
func (b *Bot) GetStateManager() *state.Manager {
	return b.stateManager
}

// GetClient returns the backend API client (for handlers)
func (b *Bot) GetClient() handlers.BackendClient {
	return b.client
}

// GetConfig returns the bot config (for handlers)
func (b *Bot) GetConfig() *config.TelegramConfig {
	return b.cfg
}
