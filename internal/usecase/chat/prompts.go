package chat

import (
	"fmt"
	"strings"

	"github.com/futig/coursechat-backend/internal/entity"
)

// The literal "selected titles:" prefix is what the selection parser looks
// for, change it only together with selectionPattern in selection.go.
const selectorSystemTemplate = `Ты - ассистент учебного курса. Твоя задача - подобрать материалы курса, которые помогут ответить на последнее сообщение студента.

Доступные материалы (одно название в строке):
%s

Ответь одной строкой строго в формате:
selected titles: название1, название2

Если материалы не нужны (приветствие, сообщение не по теме курса), ответь ровно:
selected titles:`

const responderPersona = `Ты - ассистент учебного курса. Помогай студентам: отвечай понятно и по существу. Если к диалогу приложены материалы курса, опирайся на них при ответе.`

const contextHeader = "Материалы курса, уже выбранные для этого диалога:"

// buildSelectorMessages assembles the title-selection conversation: the system
// instruction with the full title list, the prior history, and the current
// user message last.
func buildSelectorMessages(titles []string, history []entity.ConversationTurn, userMessage string) []entity.ChatMessage {
	system := fmt.Sprintf(selectorSystemTemplate, strings.Join(titles, "\n"))

	messages := make([]entity.ChatMessage, 0, len(history)+2)
	messages = append(messages, entity.ChatMessage{Role: entity.ChatRoleSystem, Content: system})
	messages = appendHistory(messages, history)
	messages = append(messages, entity.ChatMessage{Role: entity.ChatRoleUser, Content: userMessage})

	return messages
}

// buildResponderMessages assembles the reply conversation. A non-empty context
// block is attached to the system instruction; the user message goes last.
func buildResponderMessages(contextBlock string, history []entity.ConversationTurn, userMessage string) []entity.ChatMessage {
	system := responderPersona
	if contextBlock != "" {
		system = fmt.Sprintf("%s\n\n%s\n\n%s", responderPersona, contextHeader, contextBlock)
	}

	messages := make([]entity.ChatMessage, 0, len(history)+2)
	messages = append(messages, entity.ChatMessage{Role: entity.ChatRoleSystem, Content: system})
	messages = appendHistory(messages, history)
	messages = append(messages, entity.ChatMessage{Role: entity.ChatRoleUser, Content: userMessage})

	return messages
}

func appendHistory(messages []entity.ChatMessage, history []entity.ConversationTurn) []entity.ChatMessage {
	for _, turn := range history {
		messages = append(messages, entity.ChatMessage{
			Role:    entity.ChatRole(turn.Role),
			Content: turn.Content,
		})
	}
	return messages
}
