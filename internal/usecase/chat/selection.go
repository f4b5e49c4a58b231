package chat

import (
	"regexp"
	"strings"

	"github.com/futig/coursechat-backend/internal/entity"
)

// selectionPattern matches the selector reply grammar
// "selected titles:" (text ("," text)*)? up to the end of the line.
var selectionPattern = regexp.MustCompile(`selected titles:([^\n]*)`)

// ParseTitleSelection extracts material titles from a raw selector completion.
// The function is total: any input maps to a valid selection. A completion
// without the expected prefix means no materials are needed, the same as an
// explicit empty list, so it is never treated as an error.
func ParseTitleSelection(completion string) entity.TitleSelection {
	match := selectionPattern.FindStringSubmatch(strings.ToLower(completion))
	if match == nil {
		return nil
	}

	parts := strings.Split(match[1], ",")
	selection := make(entity.TitleSelection, 0, len(parts))
	for _, part := range parts {
		title := strings.TrimSpace(part)
		if title == "" {
			continue
		}
		selection = append(selection, title)
	}

	return selection
}
