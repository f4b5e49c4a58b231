package state

import "github.com/futig/coursechat-backend/internal/entity"

// ConversationState is the caller-owned session state for one Telegram chat:
// the dialogue history plus the materials already shown to the model. The
// backend is stateless, so the bot carries this with every chat turn.
type ConversationState struct {
	History []entity.ConversationTurn
	Used    []entity.Material
}

// AppendTurn records one user/assistant exchange. History is capped at limit
// entries, oldest first out; the model only needs recent context anyway.
func (s *ConversationState) AppendTurn(userText, assistantText string, limit int) {
	s.History = append(s.History,
		entity.ConversationTurn{Role: entity.TurnRoleUser, Content: userText},
		entity.ConversationTurn{Role: entity.TurnRoleAssistant, Content: assistantText},
	)

	if limit > 0 && len(s.History) > limit {
		s.History = s.History[len(s.History)-limit:]
	}
}
