package chat

import (
	"context"

	"github.com/futig/coursechat-backend/internal/entity"
)

type ChatUsecase interface {
	ProcessTurn(ctx context.Context, req *entity.ChatRequest) (*entity.ChatResponse, error)
}
