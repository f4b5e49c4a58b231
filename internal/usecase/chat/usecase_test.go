package chat

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/futig/coursechat-backend/internal/config"
	"github.com/futig/coursechat-backend/internal/entity"
	"github.com/futig/coursechat-backend/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// scriptedModel implements ModelConnector with canned answers and records the
// messages it was called with.
type scriptedModel struct {
	selectorCompletion string
	selectorErr        error
	reply              string
	replyErr           error

	selectorMessages []entity.ChatMessage
	replyMessages    []entity.ChatMessage
	replyCalled      bool
}

func (s *scriptedModel) SelectTitles(_ context.Context, messages []entity.ChatMessage) (string, error) {
	s.selectorMessages = messages
	return s.selectorCompletion, s.selectorErr
}

func (s *scriptedModel) GenerateReply(_ context.Context, messages []entity.ChatMessage) (string, error) {
	s.replyCalled = true
	s.replyMessages = messages
	return s.reply, s.replyErr
}

func newTestUsecase(model ModelConnector) *ChatUsecase {
	v := validator.NewFileValidator(config.FileUploadConfig{MaxFileSize: 1 << 20, MaxUploadSize: 1 << 22})
	return NewUsecase(model, v, zap.NewNop())
}

func chatRequestFixture() *entity.ChatRequest {
	return &entity.ChatRequest{
		Message:   "Как сдать первую лабораторную?",
		History:   []entity.ConversationTurn{},
		Materials: materialsFixture(),
	}
}

func TestProcessTurnSelectsAndReplies(t *testing.T) {
	t.Parallel()

	model := &scriptedModel{
		selectorCompletion: "selected titles: lab1",
		reply:              "Сначала прочитай методичку.",
	}
	uc := newTestUsecase(model)

	resp, err := uc.ProcessTurn(context.Background(), chatRequestFixture())
	require.NoError(t, err)

	assert.Equal(t, "Сначала прочитай методичку.", resp.Response)
	require.Len(t, resp.UsedMaterials, 1)
	assert.Equal(t, "lab1", resp.UsedMaterials[0].Title)

	// Selector prompt carries every stored title and ends with the user turn.
	require.NotEmpty(t, model.selectorMessages)
	system := model.selectorMessages[0]
	assert.Equal(t, entity.ChatRoleSystem, system.Role)
	assert.Contains(t, system.Content, "lab1\nlab2\nlab3")
	last := model.selectorMessages[len(model.selectorMessages)-1]
	assert.Equal(t, entity.ChatRoleUser, last.Role)
	assert.Equal(t, "Как сдать первую лабораторную?", last.Content)

	// Responder system prompt carries the selected content only.
	require.NotEmpty(t, model.replyMessages)
	responderSystem := model.replyMessages[0]
	assert.Equal(t, entity.ChatRoleSystem, responderSystem.Role)
	assert.Contains(t, responderSystem.Content, "A")
	assert.NotContains(t, responderSystem.Content, "lab2")
}

func TestProcessTurnWithoutSelection(t *testing.T) {
	t.Parallel()

	model := &scriptedModel{
		selectorCompletion: "Привет! Чем помочь?",
		reply:              "Здравствуйте!",
	}
	uc := newTestUsecase(model)

	resp, err := uc.ProcessTurn(context.Background(), chatRequestFixture())
	require.NoError(t, err)

	assert.NotNil(t, resp.UsedMaterials)
	assert.Empty(t, resp.UsedMaterials)

	// No context block means the responder gets the bare persona.
	responderSystem := model.replyMessages[0]
	assert.NotContains(t, responderSystem.Content, "A")
	assert.NotContains(t, responderSystem.Content, "lab1")
}

func TestProcessTurnKeepsPriorUsedMaterials(t *testing.T) {
	t.Parallel()

	model := &scriptedModel{
		selectorCompletion: "selected titles: lab1",
		reply:              "Уже обсуждали.",
	}
	uc := newTestUsecase(model)

	req := chatRequestFixture()
	req.UsedMaterials = []entity.Material{{ID: 1, Title: "lab1", Content: "A"}}

	resp, err := uc.ProcessTurn(context.Background(), req)
	require.NoError(t, err)

	require.Len(t, resp.UsedMaterials, 1)
	assert.Equal(t, "lab1", resp.UsedMaterials[0].Title)

	block := model.replyMessages[0].Content
	assert.Equal(t, 1, strings.Count(block, "lab1"))
}

func TestProcessTurnThreadsHistory(t *testing.T) {
	t.Parallel()

	model := &scriptedModel{
		selectorCompletion: "selected titles:",
		reply:              "ok",
	}
	uc := newTestUsecase(model)

	req := chatRequestFixture()
	req.History = []entity.ConversationTurn{
		{Role: entity.TurnRoleUser, Content: "Привет"},
		{Role: entity.TurnRoleAssistant, Content: "Здравствуйте!"},
	}

	_, err := uc.ProcessTurn(context.Background(), req)
	require.NoError(t, err)

	// system + 2 history turns + current message, in both calls
	require.Len(t, model.selectorMessages, 4)
	require.Len(t, model.replyMessages, 4)
	assert.Equal(t, entity.ChatRoleUser, model.selectorMessages[1].Role)
	assert.Equal(t, entity.ChatRoleAssistant, model.selectorMessages[2].Role)
}

func TestProcessTurnSelectorFailureAbortsTurn(t *testing.T) {
	t.Parallel()

	model := &scriptedModel{selectorErr: errors.New("model unavailable")}
	uc := newTestUsecase(model)

	_, err := uc.ProcessTurn(context.Background(), chatRequestFixture())
	require.Error(t, err)
	assert.False(t, model.replyCalled, "reply must not be requested after selector failure")
}

func TestProcessTurnReplyFailureAbortsTurn(t *testing.T) {
	t.Parallel()

	model := &scriptedModel{
		selectorCompletion: "selected titles: lab1",
		replyErr:           errors.New("model unavailable"),
	}
	uc := newTestUsecase(model)

	_, err := uc.ProcessTurn(context.Background(), chatRequestFixture())
	require.Error(t, err)
}

func TestProcessTurnRejectsEmptyMessage(t *testing.T) {
	t.Parallel()

	model := &scriptedModel{}
	uc := newTestUsecase(model)

	req := chatRequestFixture()
	req.Message = "   "

	_, err := uc.ProcessTurn(context.Background(), req)
	require.Error(t, err)
	assert.ErrorIs(t, err, entity.ErrMissingField)
	assert.False(t, model.replyCalled)
}
