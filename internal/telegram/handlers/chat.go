package handlers

import (
	"context"

	"github.com/futig/coursechat-backend/internal/entity"
	"github.com/futig/coursechat-backend/internal/telegram/render"
	"github.com/futig/coursechat-backend/internal/telegram/state"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// ChatHandler runs one chat turn against the backend for every plain text
// message. The bot owns the session state: history and the used material set
// are loaded before the call and saved back after it.
type ChatHandler struct {
	BaseHandler
	api          *tgbotapi.BotAPI
	client       BackendClient
	state        *state.Manager
	historyLimit int
	logger       *zap.Logger
}

// NewChatHandler creates the text message handler
func NewChatHandler(
	api *tgbotapi.BotAPI,
	stateManager *state.Manager,
	client BackendClient,
	historyLimit int,
	logger *zap.Logger,
) *ChatHandler {
	return &ChatHandler{
		BaseHandler: BaseHandler{
			kind:          KindText,
			messageSender: NewMessageSender(api, logger),
		},
		api:          api,
		client:       client,
		state:        stateManager,
		historyLimit: historyLimit,
		logger:       logger,
	}
}

// Handle implements Handler
func (h *ChatHandler) Handle(ctx context.Context, msg *Message) error {
	// Serialize turns per chat: the state update is read-modify-write around
	// a slow backend call, a second message must wait for the first to land.
	lock := h.state.ConversationLock(msg.ChatID)
	lock.Lock()
	defer lock.Unlock()

	// A turn waits on two sequential model calls, keep the user informed
	notifier := NewProgressNotifier(h.api, msg.ChatID, h.logger)
	notifier.Start(ctx)
	defer notifier.Stop()

	materials, err := h.loadMaterials(ctx)
	if err != nil {
		h.HandleError(ctx, msg.ChatID, err)
		return err
	}

	conv := h.state.Conversation(msg.ChatID)

	resp, err := h.client.Chat(ctx, &entity.ChatRequest{
		Message:       msg.Text,
		History:       conv.History,
		Materials:     materials,
		UsedMaterials: conv.Used,
	})
	if err != nil {
		h.HandleError(ctx, msg.ChatID, err)
		return err
	}

	conv.AppendTurn(msg.Text, resp.Response, h.historyLimit)
	conv.Used = resp.UsedMaterials
	h.state.SaveConversation(msg.ChatID, conv)

	ctxzap.Info(ctx, "chat turn completed",
		zap.Int64("chat_id", msg.ChatID),
		zap.Int("history_length", len(conv.History)),
		zap.Int("used_material_count", len(conv.Used)),
	)

	// The state is already saved, the reply must reach the user
	reply := render.RenderReply(resp.Response, materialTitles(resp.UsedMaterials))
	return sendCriticalMessage(h.api, msg.ChatID, reply, nil, h.logger)
}

// loadMaterials returns the cached material list or fetches a fresh one
func (h *ChatHandler) loadMaterials(ctx context.Context) ([]entity.Material, error) {
	if materials, ok := h.state.Materials(); ok {
		return materials, nil
	}

	materials, err := h.client.InitMaterials(ctx)
	if err != nil {
		return nil, err
	}

	h.state.SetMaterials(materials)
	return materials, nil
}

func materialTitles(materials []entity.Material) []string {
	titles := make([]string, 0, len(materials))
	for _, m := range materials {
		titles = append(titles, m.Title)
	}
	return titles
}
