package state

import (
	"testing"
	"time"

	"github.com/futig/coursechat-backend/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConversationRoundTrip(t *testing.T) {
	t.Parallel()

	m := NewManager(time.Hour, time.Hour)

	conv := m.Conversation(42)
	assert.Empty(t, conv.History, "new chat starts with empty history")
	assert.Empty(t, conv.Used)

	conv.AppendTurn("привет", "Привет! Чем помочь?", 10)
	conv.Used = []entity.Material{{ID: 1, Title: "lab1"}}
	m.SaveConversation(42, conv)

	loaded := m.Conversation(42)
	require.Len(t, loaded.History, 2)
	assert.Equal(t, entity.TurnRoleUser, loaded.History[0].Role)
	assert.Equal(t, "привет", loaded.History[0].Content)
	assert.Equal(t, entity.TurnRoleAssistant, loaded.History[1].Role)
	require.Len(t, loaded.Used, 1)
	assert.Equal(t, "lab1", loaded.Used[0].Title)
}

func TestConversationIsolatedPerChat(t *testing.T) {
	t.Parallel()

	m := NewManager(time.Hour, time.Hour)

	conv := &ConversationState{}
	conv.AppendTurn("вопрос", "ответ", 10)
	m.SaveConversation(1, conv)

	assert.Empty(t, m.Conversation(2).History)
}

func TestResetConversation(t *testing.T) {
	t.Parallel()

	m := NewManager(time.Hour, time.Hour)

	conv := &ConversationState{}
	conv.AppendTurn("вопрос", "ответ", 10)
	m.SaveConversation(7, conv)

	m.ResetConversation(7)

	assert.Empty(t, m.Conversation(7).History)
}

func TestConversationExpires(t *testing.T) {
	t.Parallel()

	m := NewManager(20*time.Millisecond, time.Hour)

	conv := &ConversationState{}
	conv.AppendTurn("вопрос", "ответ", 10)
	m.SaveConversation(7, conv)

	time.Sleep(60 * time.Millisecond)

	assert.Empty(t, m.Conversation(7).History, "idle conversation must expire")
}

func TestAppendTurnTrimsHistory(t *testing.T) {
	t.Parallel()

	conv := &ConversationState{}
	conv.AppendTurn("один", "раз", 4)
	conv.AppendTurn("два", "два", 4)
	conv.AppendTurn("три", "три", 4)

	require.Len(t, conv.History, 4)
	assert.Equal(t, "два", conv.History[0].Content, "oldest turns are dropped first")
	assert.Equal(t, "три", conv.History[3].Content)
}

func TestMaterialsCache(t *testing.T) {
	t.Parallel()

	m := NewManager(time.Hour, time.Hour)

	_, found := m.Materials()
	assert.False(t, found, "empty cache reports a miss")

	m.SetMaterials([]entity.Material{{ID: 1, Title: "lab1"}})

	materials, found := m.Materials()
	require.True(t, found)
	require.Len(t, materials, 1)
	assert.Equal(t, "lab1", materials[0].Title)

	m.InvalidateMaterials()

	_, found = m.Materials()
	assert.False(t, found)
}

func TestConversationLockIsStablePerChat(t *testing.T) {
	t.Parallel()

	m := NewManager(time.Hour, time.Hour)

	first := m.ConversationLock(1)
	second := m.ConversationLock(1)
	other := m.ConversationLock(2)

	assert.Same(t, first, second, "same chat must share one lock")
	assert.NotSame(t, first, other)
}
