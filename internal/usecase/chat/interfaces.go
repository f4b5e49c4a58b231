package chat

import (
	"context"

	"github.com/futig/coursechat-backend/internal/entity"
)

type ModelConnector interface {
	SelectTitles(ctx context.Context, messages []entity.ChatMessage) (string, error)
	GenerateReply(ctx context.Context, messages []entity.ChatMessage) (string, error)
}
