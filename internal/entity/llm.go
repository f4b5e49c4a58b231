package entity

type ChatRole string

const (
	ChatRoleSystem    ChatRole = "system"
	ChatRoleUser      ChatRole = "user"
	ChatRoleAssistant ChatRole = "assistant"
)

// ChatMessage is a single message of a model conversation, in the order it is
// sent to the completion endpoint.
type ChatMessage struct {
	Role    ChatRole `json:"role"`
	Content string   `json:"content"`
}

// TitleSelection is the transient set of titles parsed from the selector
// completion; not persisted. Titles are lower-cased and trimmed.
type TitleSelection []string

func (ts TitleSelection) Contains(title string) bool {
	for _, t := range ts {
		if t == title {
			return true
		}
	}
	return false
}
