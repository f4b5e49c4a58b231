package chat

import (
	"context"
	"fmt"

	"github.com/futig/coursechat-backend/internal/entity"
	"github.com/futig/coursechat-backend/internal/pkg/logger"
	"github.com/futig/coursechat-backend/internal/pkg/validator"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// ChatUsecase implements the chat turn pipeline
type ChatUsecase struct {
	modelConnector ModelConnector
	validator      *validator.Validator
	logger         *zap.Logger
}

// NewUsecase creates a new chat use case
func NewUsecase(
	modelConnector ModelConnector,
	validator *validator.Validator,
	logger *zap.Logger,
) *ChatUsecase {
	return &ChatUsecase{
		modelConnector: modelConnector,
		validator:      validator,
		logger:         logger,
	}
}

// ProcessTurn runs one chat turn: ask the model for relevant titles, merge
// them into the caller's used set, render the context block and ask the model
// for the final reply. The two model calls are strictly sequential, the second
// depends on the first's output. A failure at either stage aborts the turn,
// there are no retries and no fallback model.
func (uc *ChatUsecase) ProcessTurn(ctx context.Context, req *entity.ChatRequest) (*entity.ChatResponse, error) {
	if err := uc.validator.ValidateChatRequest(req); err != nil {
		return nil, err
	}

	ctx = logger.AddFields(ctx,
		zap.Int("material_count", len(req.Materials)),
		zap.Int("history_length", len(req.History)),
	)

	titles := make([]string, 0, len(req.Materials))
	for _, m := range req.Materials {
		titles = append(titles, m.Title)
	}

	completion, err := uc.modelConnector.SelectTitles(ctx, buildSelectorMessages(titles, req.History, req.Message))
	if err != nil {
		return nil, fmt.Errorf("select titles: %w", err)
	}

	selection := ParseTitleSelection(completion)
	ctxzap.Info(ctx, "title selection parsed",
		zap.Int("selected_count", len(selection)),
		zap.Strings("selected_titles", selection),
	)

	used := MergeUsed(req.UsedMaterials, selection, req.Materials)
	contextBlock := RenderContext(used)

	reply, err := uc.modelConnector.GenerateReply(ctx, buildResponderMessages(contextBlock, req.History, req.Message))
	if err != nil {
		return nil, fmt.Errorf("generate reply: %w", err)
	}

	ctxzap.Info(ctx, "chat turn processed",
		zap.Int("used_material_count", len(used)),
		zap.Int("reply_length", len(reply)),
	)

	// The caller stores the used set between requests, keep it a JSON array
	// even when empty.
	if used == nil {
		used = []entity.Material{}
	}

	return &entity.ChatResponse{
		Response:      reply,
		UsedMaterials: used,
	}, nil
}
