package entity

import (
	"fmt"
	"time"
)

type TurnRole string

// Turn roles are the two sides of the caller-owned conversation history
const (
	TurnRoleUser      TurnRole = "user"
	TurnRoleAssistant TurnRole = "assistant"
)

func (tr *TurnRole) Validate() error {
	switch *tr {
	case TurnRoleUser, TurnRoleAssistant:
		return nil
	default:
		return fmt.Errorf("unknown turn role: %s", *tr)
	}
}

// Material is a stored unit of course content. Materials are immutable:
// created by upload, never updated or deleted. Title is stored lower-cased
// so selection matching stays case-insensitive.
type Material struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"created_at"`
}

// ConversationTurn is one message of the conversation history. The caller
// owns and persists the full history; the server is stateless across requests.
type ConversationTurn struct {
	Role    TurnRole `json:"role"`
	Content string   `json:"content"`
}
