package formatter

import (
	"testing"

	"github.com/futig/coursechat-backend/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFactoryCreate(t *testing.T) {
	t.Parallel()

	factory := NewFactory()

	tests := []struct {
		format      entity.ResultFormat
		contentType string
		extension   string
	}{
		{format: entity.FormatMarkdown, contentType: "text/markdown; charset=utf-8", extension: ".md"},
		{format: entity.FormatDOCX, contentType: docxContentType, extension: ".docx"},
		{format: entity.FormatPDF, contentType: pdfContentType, extension: ".pdf"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(string(tt.format), func(t *testing.T) {
			t.Parallel()

			fmtr, err := factory.Create(tt.format)
			require.NoError(t, err)
			assert.Equal(t, tt.contentType, fmtr.ContentType())
			assert.Equal(t, tt.extension, fmtr.FileExtension())
		})
	}
}

func TestFactoryCreateUnknownFormat(t *testing.T) {
	t.Parallel()

	_, err := NewFactory().Create(entity.ResultFormat("xlsx"))
	assert.Error(t, err)
}

func TestMarkdownFormat(t *testing.T) {
	t.Parallel()

	out, err := NewMarkdownFormatter().Format("lab1", "Install the toolchain.")
	require.NoError(t, err)
	assert.Equal(t, "# lab1\n\nInstall the toolchain.\n", string(out))
}

func TestDOCXFormatProducesDocument(t *testing.T) {
	t.Parallel()

	out, err := NewDOCXFormatter().Format("lab1", "Install the toolchain.")
	require.NoError(t, err)
	assert.NotEmpty(t, out)
	// DOCX is a zip container
	assert.Equal(t, []byte{'P', 'K'}, out[:2])
}
