package chat

import (
	"fmt"
	"strings"

	"github.com/futig/coursechat-backend/internal/entity"
)

// materialDelimiter opens each material inside the rendered context block.
const materialDelimiter = "===== Материал: %s ====="

// MergeUsed appends newly selected materials to the used set. Candidates are
// taken from the full material list in its original order; anything already
// present in the used set (by title) is skipped. The used set only ever
// grows and never holds two materials with the same title.
func MergeUsed(used []entity.Material, selected entity.TitleSelection, all []entity.Material) []entity.Material {
	usedTitles := make(map[string]bool, len(used))
	for _, m := range used {
		usedTitles[m.Title] = true
	}

	for _, m := range all {
		if !selected.Contains(m.Title) || usedTitles[m.Title] {
			continue
		}
		used = append(used, m)
		usedTitles[m.Title] = true
	}

	return used
}

// RenderContext renders the whole used set as a single text block: a delimiter
// line with the title, then the content, in used-set order. Re-sending
// previously used materials every turn keeps the model's working context
// complete without another store query.
func RenderContext(used []entity.Material) string {
	if len(used) == 0 {
		return ""
	}

	var sb strings.Builder
	for i, m := range used {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		fmt.Fprintf(&sb, materialDelimiter, m.Title)
		sb.WriteString("\n")
		sb.WriteString(m.Content)
	}

	return sb.String()
}
