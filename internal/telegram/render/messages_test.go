package render

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderReply(t *testing.T) {
	t.Parallel()

	t.Run("with used materials", func(t *testing.T) {
		t.Parallel()

		got := RenderReply("Сначала прочитай методичку.", []string{"lab1", "лекция 2"})
		assert.Contains(t, got, "Сначала прочитай методичку.")
		assert.Contains(t, got, "📚 Материалы: lab1, лекция 2")
	})

	t.Run("without used materials", func(t *testing.T) {
		t.Parallel()

		got := RenderReply("Привет!", nil)
		assert.Equal(t, "Привет!", got)
	})
}

func TestRenderMaterialsList(t *testing.T) {
	t.Parallel()

	got := RenderMaterialsList([]string{"lab1", "lab2"})
	assert.Contains(t, got, MsgMaterialsHeader)
	assert.Contains(t, got, "• lab1")
	assert.Contains(t, got, "• lab2")

	assert.Equal(t, MsgNoMaterials, RenderMaterialsList(nil))
}

func TestRenderUploadAccepted(t *testing.T) {
	t.Parallel()

	got := RenderUploadAccepted("Лекция 3", "конспект лекции")
	assert.Contains(t, got, "«Лекция 3»")
	assert.Contains(t, got, "конспект лекции")

	empty := RenderUploadAccepted("Лекция 3", "   ")
	assert.Contains(t, empty, "«Лекция 3»")
	assert.Contains(t, empty, "без содержимого")
}

func TestRenderDocumentTooLarge(t *testing.T) {
	t.Parallel()

	assert.Contains(t, RenderDocumentTooLarge(10*1024*1024), "10 МБ")
}

func TestClassifyError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil error", err: nil, want: ErrGeneric},
		{name: "deadline exceeded", err: context.DeadlineExceeded, want: ErrTimeout},
		{name: "wrapped deadline", err: fmt.Errorf("chat turn: %w", context.DeadlineExceeded), want: ErrTimeout},
		{name: "connection refused text", err: errors.New("dial tcp: connection refused"), want: ErrServiceUnavailable},
		{name: "timeout text", err: errors.New("request timeout"), want: ErrTimeout},
		{name: "quota text", err: errors.New("quota exceeded for key"), want: ErrQuotaExceeded},
		{name: "unknown error", err: errors.New("boom"), want: ErrGeneric},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, ClassifyError(tt.err))
		})
	}
}
