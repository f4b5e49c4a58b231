package handlers

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/futig/coursechat-backend/internal/telegram/render"
	"github.com/futig/coursechat-backend/internal/telegram/state"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const (
	maxDocumentSize = 10 * 1024 * 1024 // 10 MB
	downloadTimeout = 30 * time.Second
)

var secureHTTPClient = &http.Client{
	Timeout: downloadTimeout,
	Transport: &http.Transport{
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
	},
}

// DocumentHandler turns an attached document into a new course material. The
// caption becomes the material title, the file body goes to the backend as-is
// and text extraction happens there.
type DocumentHandler struct {
	BaseHandler
	api    *tgbotapi.BotAPI
	client BackendClient
	state  *state.Manager
	logger *zap.Logger
}

// NewDocumentHandler creates the document upload handler
func NewDocumentHandler(
	api *tgbotapi.BotAPI,
	stateManager *state.Manager,
	client BackendClient,
	logger *zap.Logger,
) *DocumentHandler {
	return &DocumentHandler{
		BaseHandler: BaseHandler{
			kind:          KindDocument,
			messageSender: NewMessageSender(api, logger),
		},
		api:    api,
		client: client,
		state:  stateManager,
		logger: logger,
	}
}

// Handle implements Handler
func (h *DocumentHandler) Handle(ctx context.Context, msg *Message) error {
	doc := msg.Document

	title := strings.TrimSpace(msg.Caption)
	if title == "" {
		h.sendMessage(msg.ChatID, render.MsgUploadNeedTitle, nil)
		return nil
	}

	if int64(doc.FileSize) > maxDocumentSize {
		h.sendMessage(msg.ChatID, render.RenderDocumentTooLarge(maxDocumentSize), nil)
		return nil
	}

	notifier := NewActionNotifier(h.api, msg.ChatID, tgbotapi.ChatUploadDocument, h.logger)
	notifier.Start(ctx)
	defer notifier.Stop()

	ctxzap.Info(ctx, "document received",
		zap.Int64("chat_id", msg.ChatID),
		zap.String("filename", doc.FileName),
		zap.Int("size", doc.FileSize),
	)

	data, err := downloadDocument(ctx, h.api, doc.FileID)
	if err != nil {
		h.HandleError(ctx, msg.ChatID, err)
		return err
	}

	resp, err := h.client.UploadMaterial(ctx, title, doc.FileName, data)
	if err != nil {
		h.HandleError(ctx, msg.ChatID, err)
		return err
	}

	// The new material must be selectable on the next turn
	h.state.InvalidateMaterials()

	return sendCriticalMessage(h.api, msg.ChatID, render.RenderUploadAccepted(title, resp.ContentPreview), nil, h.logger)
}

// downloadDocument is a shared helper for downloading files from Telegram
func downloadDocument(ctx context.Context, bot *tgbotapi.BotAPI, fileID string) ([]byte, error) {
	file, err := bot.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("get file info: %w", err)
	}

	// Check file size before download
	if file.FileSize > maxDocumentSize {
		return nil, fmt.Errorf("file too large: %d bytes (max %d)", file.FileSize, maxDocumentSize)
	}

	fileURL := file.Link(bot.Token)

	// Validate URL
	parsedURL, err := url.Parse(fileURL)
	if err != nil {
		return nil, fmt.Errorf("invalid file URL: %w", err)
	}

	// Ensure HTTPS
	if parsedURL.Scheme != "https" {
		return nil, fmt.Errorf("insecure URL scheme: %s (expected https)", parsedURL.Scheme)
	}

	// Create request with context
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	// Download file
	resp, err := secureHTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	// The reported size is advisory, cap the actual read too
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize+1))
	if err != nil {
		return nil, fmt.Errorf("read file data: %w", err)
	}
	if len(data) > maxDocumentSize {
		return nil, fmt.Errorf("file too large: exceeds %d bytes", maxDocumentSize)
	}

	return data, nil
}
