package chat

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/futig/coursechat-backend/internal/entity"
	"github.com/futig/coursechat-backend/internal/pkg/logger"
	"github.com/futig/coursechat-backend/internal/pkg/response"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

type Handler struct {
	usecase ChatUsecase
}

func NewHandler(usecase ChatUsecase) *Handler {
	return &Handler{usecase: usecase}
}

// ProcessChat handles POST /chat - run one chat turn
func (h *Handler) ProcessChat(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "ProcessChat")

	var req entity.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ctxzap.Error(ctx, "failed to decode request body", zap.Error(err))
		h.respondError(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	ctxzap.Info(ctx, "processing chat turn",
		zap.Int("history_length", len(req.History)),
		zap.Int("material_count", len(req.Materials)),
		zap.Int("used_material_count", len(req.UsedMaterials)),
	)

	resp, err := h.usecase.ProcessTurn(ctx, &req)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	ctxzap.Info(ctx, "chat turn processed successfully",
		zap.Int("used_material_count", len(resp.UsedMaterials)),
	)

	h.respondJSON(w, http.StatusOK, resp)
}

// Helper methods
func (h *Handler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	response.JSON(w, status, data)
}

func (h *Handler) respondError(ctx context.Context, w http.ResponseWriter, status int, message string, err error) {
	if err != nil {
		ctxzap.Error(ctx, message, zap.Error(err))
		response.Error(w, status, message, err.Error())
		return
	}
	ctxzap.Error(ctx, message)
	response.Error(w, status, message, "")
}

func (h *Handler) handleUsecaseError(ctx context.Context, w http.ResponseWriter, err error) {
	if errors.Is(err, entity.ErrMissingField) || errors.Is(err, entity.ErrInvalidParameter) {
		h.respondError(ctx, w, http.StatusBadRequest, "validation failed", err)
	} else {
		h.respondError(ctx, w, http.StatusInternalServerError, "failed to process chat turn", err)
	}
}
