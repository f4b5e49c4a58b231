package extract

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	pdf "github.com/ledongthuc/pdf"
	"github.com/unidoc/unioffice/document"
)

// plainTextExtensions are declared types whose bytes are read verbatim.
var plainTextExtensions = map[string]bool{
	".txt":      true,
	".md":       true,
	".markdown": true,
	".py":       true,
	".js":       true,
	".ts":       true,
	".go":       true,
	".c":        true,
	".cpp":      true,
	".h":        true,
	".java":     true,
	".sh":       true,
	".sql":      true,
	".json":     true,
	".yaml":     true,
	".yml":      true,
	".csv":      true,
	".log":      true,
}

// Text extracts plain text from an uploaded file based on its declared type.
// Files of unrecognized type yield empty content with a nil error; a parse
// failure of a recognized format is returned to the caller to decide on.
func Text(filename string, data []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	switch {
	case plainTextExtensions[ext]:
		return string(data), nil
	case ext == ".docx":
		return docxText(data)
	case ext == ".pdf":
		return pdfText(data)
	default:
		return "", nil
	}
}

// TypeTag returns the stored material type for a filename: the lower-cased
// extension without the leading dot. Empty when the filename has none.
func TypeTag(filename string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
}

func docxText(data []byte) (string, error) {
	doc, err := document.Read(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("read docx: %w", err)
	}
	defer doc.Close()

	var sb strings.Builder
	for _, para := range doc.Paragraphs() {
		for _, run := range para.Runs() {
			sb.WriteString(run.Text())
		}
		sb.WriteString("\n")
	}

	return strings.TrimRight(sb.String(), "\n"), nil
}

func pdfText(data []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("read pdf: %w", err)
	}

	plain, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("pdf plain text: %w", err)
	}

	text, err := io.ReadAll(plain)
	if err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}

	return string(text), nil
}
