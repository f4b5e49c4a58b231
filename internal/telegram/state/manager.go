package state

import (
	"strconv"
	"sync"
	"time"

	"github.com/futig/coursechat-backend/internal/entity"
	"github.com/patrickmn/go-cache"
)

const (
	materialsKey    = "materials"
	cleanupInterval = 10 * time.Minute
)

// Manager keeps per-chat conversation state and a shared cache of the course
// material list. Everything lives in memory: a bot restart starts every chat
// from scratch, which the stateless backend does not notice.
type Manager struct {
	conversations *cache.Cache
	materials     *cache.Cache

	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

// NewManager creates a state manager. stateTTL bounds how long an idle
// conversation survives, materialsTTL how long the material list is reused
// before the backend is asked again.
func NewManager(stateTTL, materialsTTL time.Duration) *Manager {
	return &Manager{
		conversations: cache.New(stateTTL, cleanupInterval),
		materials:     cache.New(materialsTTL, cleanupInterval),
		locks:         make(map[int64]*sync.Mutex),
	}
}

// ConversationLock returns the mutex serializing turns for one chat. A turn
// is read-modify-write around a slow backend call, so a second message from
// the same chat must wait for the first to land.
func (m *Manager) ConversationLock(chatID int64) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()

	lock, exists := m.locks[chatID]
	if !exists {
		lock = &sync.Mutex{}
		m.locks[chatID] = lock
	}

	return lock
}

// Conversation returns the stored state for chatID, or a fresh empty state
// when the chat is new or its state expired.
func (m *Manager) Conversation(chatID int64) *ConversationState {
	if v, found := m.conversations.Get(conversationKey(chatID)); found {
		if conv, ok := v.(*ConversationState); ok {
			return conv
		}
	}

	return &ConversationState{}
}

// SaveConversation stores the state and refreshes its TTL
func (m *Manager) SaveConversation(chatID int64, conv *ConversationState) {
	m.conversations.SetDefault(conversationKey(chatID), conv)
}

// ResetConversation drops the chat state
func (m *Manager) ResetConversation(chatID int64) {
	m.conversations.Delete(conversationKey(chatID))
}

// Materials returns the cached material list if it is still fresh
func (m *Manager) Materials() ([]entity.Material, bool) {
	v, found := m.materials.Get(materialsKey)
	if !found {
		return nil, false
	}

	materials, ok := v.([]entity.Material)
	return materials, ok
}

// SetMaterials caches the material list for the configured TTL
func (m *Manager) SetMaterials(materials []entity.Material) {
	m.materials.SetDefault(materialsKey, materials)
}

// InvalidateMaterials drops the cached list so the next turn refetches it.
// Called after a successful upload, new material must become selectable.
func (m *Manager) InvalidateMaterials() {
	m.materials.Delete(materialsKey)
}

func conversationKey(chatID int64) string {
	return strconv.FormatInt(chatID, 10)
}
