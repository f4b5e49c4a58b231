package handlers

import (
	"context"

	"github.com/futig/coursechat-backend/internal/entity"
)

// BackendClient is the coursechat backend surface the bot consumes. The bot
// holds no business logic of its own, every turn and upload goes through the
// HTTP API.
type BackendClient interface {
	InitMaterials(ctx context.Context) ([]entity.Material, error)
	Chat(ctx context.Context, req *entity.ChatRequest) (*entity.ChatResponse, error)
	UploadMaterial(ctx context.Context, title, filename string, content []byte) (*entity.UploadResponse, error)
}
