package builder

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/futig/coursechat-backend/internal/api"
	chatapi "github.com/futig/coursechat-backend/internal/api/chat"
	materialsapi "github.com/futig/coursechat-backend/internal/api/materials"
	"github.com/futig/coursechat-backend/internal/config"
	backendclient "github.com/futig/coursechat-backend/internal/integration/chatapi"
	"github.com/futig/coursechat-backend/internal/integration/llm"
	"github.com/futig/coursechat-backend/internal/pkg/validator"
	"github.com/futig/coursechat-backend/internal/repository"
	"github.com/futig/coursechat-backend/internal/telegram"
	"github.com/futig/coursechat-backend/internal/telegram/state"
	"github.com/futig/coursechat-backend/internal/usecase/chat"
	"github.com/futig/coursechat-backend/internal/usecase/materials"
	"go.uber.org/zap"
)

func Build() (*App, error) {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := setupLogger(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}

	logger.Info("Building application",
		zap.String("environment", cfg.Environment),
		zap.String("server_addr", cfg.ServerAddr),
	)

	// Setup database connection
	db, err := setupDatabase(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("setup database: %w", err)
	}

	// Run database migrations
	logger.Info("Running database migrations")
	if err := repository.RunMigrations(cfg.DatabaseURL); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("Database migrations completed successfully")

	// Initialize repositories
	materialRepo := repository.NewMaterialPostgres(db)
	logger.Info("Repositories initialized")

	// Initialize model connector (with mock support)
	var modelConnector chat.ModelConnector

	if cfg.EnableMocks {
		logger.Info("Using mock model connector")
		modelConnector = llm.NewMockConnector(logger)
	} else {
		logger.Info("Using real model connector",
			zap.String("model", cfg.ModelCfg.Name),
		)
		modelConnector = llm.NewConnector(cfg.ModelCfg, logger)
	}

	// Initialize validators
	fileValidator := validator.NewFileValidator(cfg.FileUploadCfg)
	logger.Info("Validators initialized")

	// Initialize use cases
	chatUC := chat.NewUsecase(modelConnector, fileValidator, logger)
	materialsUC := materials.NewUsecase(materialRepo, fileValidator, logger)
	logger.Info("Use cases initialized")

	// Setup API handlers
	materialsHandler := materialsapi.NewHandler(materialsUC, cfg.FileUploadCfg)
	chatHandler := chatapi.NewHandler(chatUC)
	logger.Info("API handlers initialized")

	// Setup router
	router := api.SetupRouter(materialsHandler, chatHandler, logger)
	logger.Info("HTTP router configured")

	// A chat turn waits on two sequential model calls, so the write timeout
	// must cover both plus slack for rendering the response.
	server := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 2*cfg.ModelCfg.RequestTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("Application built successfully",
		zap.String("environment", cfg.Environment),
	)

	return &App{
		server: server,
		db:     db,
		logger: logger,
	}, nil
}

// BuildTelegramBot creates and initializes the Telegram bot. The bot is a
// plain client of the backend API: conversation state lives in an in-memory
// store, so no database connection is needed here.
func BuildTelegramBot() (telegram.Bot, *zap.Logger, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := setupLogger(cfg.LogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("setup logger: %w", err)
	}

	logger.Info("Building Telegram bot",
		zap.String("environment", cfg.Environment),
	)

	// Initialize backend API client
	apiClient := backendclient.NewConnector(cfg.ChatAPICfg, logger)
	logger.Info("Backend API client initialized",
		zap.String("base_url", cfg.ChatAPICfg.Url),
	)

	// Initialize conversation state store
	stateManager := state.NewManager(cfg.TelegramCfg.StateTTL, cfg.TelegramCfg.MaterialsCacheTTL)
	logger.Info("Conversation state store initialized",
		zap.Duration("state_ttl", cfg.TelegramCfg.StateTTL),
		zap.Duration("materials_cache_ttl", cfg.TelegramCfg.MaterialsCacheTTL),
	)

	// Initialize Telegram bot
	bot, err := telegram.NewBot(&cfg.TelegramCfg, apiClient, stateManager, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("initialize telegram bot: %w", err)
	}

	logger.Info("Telegram bot built successfully",
		zap.String("environment", cfg.Environment),
	)

	return bot, logger, nil
}
