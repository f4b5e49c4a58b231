package extract

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/unidoc/unioffice/document"
)

func TestTextPlainFiles(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		filename string
		data     string
		want     string
	}{
		{name: "txt verbatim", filename: "notes.txt", data: "hello", want: "hello"},
		{name: "md verbatim", filename: "README.md", data: "# Lab 1\nsteps", want: "# Lab 1\nsteps"},
		{name: "script verbatim", filename: "solve.py", data: "print(42)\n", want: "print(42)\n"},
		{name: "upper case extension", filename: "NOTES.TXT", data: "hello", want: "hello"},
		{name: "keeps whitespace", filename: "data.csv", data: "a, b ,c\n", want: "a, b ,c\n"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Text(tt.filename, []byte(tt.data))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTextUnknownTypeYieldsEmpty(t *testing.T) {
	t.Parallel()

	for _, filename := range []string{"image.png", "archive.tar.gz", "noext", "track.mp3"} {
		got, err := Text(filename, []byte{0x89, 0x50, 0x4e, 0x47})
		require.NoError(t, err, filename)
		assert.Empty(t, got, filename)
	}
}

func TestTextDocxRoundTrip(t *testing.T) {
	t.Parallel()

	doc := document.New()
	defer doc.Close()

	first := doc.AddParagraph()
	first.AddRun().AddText("Lab setup")
	second := doc.AddParagraph()
	second.AddRun().AddText("Install the toolchain.")

	var buf bytes.Buffer
	require.NoError(t, doc.Save(&buf))

	got, err := Text("lab.docx", buf.Bytes())
	require.NoError(t, err)
	assert.Contains(t, got, "Lab setup")
	assert.Contains(t, got, "Install the toolchain.")
}

func TestTextCorruptDocxFails(t *testing.T) {
	t.Parallel()

	_, err := Text("broken.docx", []byte("not a zip archive"))
	assert.Error(t, err)
}

func TestTextCorruptPDFFails(t *testing.T) {
	t.Parallel()

	_, err := Text("broken.pdf", []byte("no pdf header here"))
	assert.Error(t, err)
}

func TestTypeTag(t *testing.T) {
	t.Parallel()

	tests := []struct {
		filename string
		want     string
	}{
		{filename: "lab1.txt", want: "txt"},
		{filename: "Lecture.DOCX", want: "docx"},
		{filename: "archive.tar.gz", want: "gz"},
		{filename: "noext", want: ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, TypeTag(tt.filename), tt.filename)
	}
}
