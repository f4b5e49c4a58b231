package chatapi

import (
	"context"
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/futig/coursechat-backend/internal/config"
	"github.com/futig/coursechat-backend/internal/entity"
	"github.com/futig/coursechat-backend/internal/integration/common"
	pkghttp "github.com/futig/coursechat-backend/pkg/http"
	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Connector is the bot-side client for the coursechat backend. Every request
// carries a fresh X-Request-ID so bot and backend logs can be correlated.
type Connector struct {
	config    config.ChatAPIConnectorConfig
	connector *pkghttp.Connector
	logger    *zap.Logger
}

func NewConnector(
	cfg config.ChatAPIConnectorConfig,
	logger *zap.Logger,
) *Connector {
	return &Connector{
		connector: common.NewBaseConnector(cfg.HTTPClientConfig, logger),
		config:    cfg,
		logger:    logger,
	}
}

// InitMaterials fetches the full course material list
// GET {materials_endpoint}
func (c *Connector) InitMaterials(ctx context.Context) ([]entity.Material, error) {
	requestID := uuid.NewString()
	ctxzap.Info(ctx, "fetching course materials", zap.String("request_id", requestID))

	var resp entity.MaterialsResponse
	err := c.connector.DoRequest(ctx, http.MethodGet, c.config.MaterialsEndpoint, nil, &resp,
		pkghttp.WithHeader("X-Request-ID", requestID),
	)
	if err != nil {
		ctxzap.Error(ctx, "failed to fetch materials", zap.Error(err))
		return nil, fmt.Errorf("fetch materials: %w", err)
	}

	ctxzap.Info(ctx, "course materials fetched", zap.Int("material_count", len(resp.Materials)))
	return resp.Materials, nil
}

// Chat runs one chat turn
// POST {chat_endpoint} with the full caller-owned session state
func (c *Connector) Chat(ctx context.Context, req *entity.ChatRequest) (*entity.ChatResponse, error) {
	requestID := uuid.NewString()
	ctxzap.Info(ctx, "sending chat turn",
		zap.String("request_id", requestID),
		zap.Int("history_length", len(req.History)),
		zap.Int("used_material_count", len(req.UsedMaterials)),
	)

	var resp entity.ChatResponse
	err := c.connector.DoRequest(ctx, http.MethodPost, c.config.ChatEndpoint, req, &resp,
		pkghttp.WithHeader("X-Request-ID", requestID),
	)
	if err != nil {
		ctxzap.Error(ctx, "chat turn failed", zap.Error(err))
		return nil, fmt.Errorf("chat turn: %w", err)
	}

	return &resp, nil
}

// UploadMaterial stores a new course material
// POST {upload_endpoint} with multipart/form-data (title + file)
func (c *Connector) UploadMaterial(ctx context.Context, title, filename string, content []byte) (*entity.UploadResponse, error) {
	requestID := uuid.NewString()
	ctxzap.Info(ctx, "uploading material",
		zap.String("request_id", requestID),
		zap.String("filename", filename),
		zap.Int("size", len(content)),
	)

	prepareBody := func(writer *multipart.Writer) error {
		if err := writer.WriteField("title", title); err != nil {
			return fmt.Errorf("write title field: %w", err)
		}

		part, err := writer.CreateFormFile("file", filename)
		if err != nil {
			return fmt.Errorf("create form file: %w", err)
		}

		if _, err := part.Write(content); err != nil {
			return fmt.Errorf("write file content: %w", err)
		}

		return nil
	}

	var resp entity.UploadResponse
	err := c.connector.DoMultipartRequest(ctx, http.MethodPost, c.config.UploadEndpoint, prepareBody, &resp,
		pkghttp.WithHeader("X-Request-ID", requestID),
	)
	if err != nil {
		ctxzap.Error(ctx, "failed to upload material", zap.Error(err))
		return nil, fmt.Errorf("upload material: %w", err)
	}

	ctxzap.Info(ctx, "material uploaded")
	return &resp, nil
}
