package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "report.pdf", "report.pdf"},
		{"unix path", "/etc/passwd", "passwd"},
		{"traversal", "../../secret.md", "secret.md"},
		{"windows path", `C:\Users\me\notes.txt`, "notes.txt"},
		{"embedded dots", "a..b.txt", "ab.txt"},
		{"control chars", "bad\x00name.md", "badname.md"},
		{"empty", "", "untitled"},
		{"only traversal", "../..", "untitled"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeFilename(tt.input))
		})
	}
}

func TestUploadedFile_Extension(t *testing.T) {
	assert.Equal(t, "pdf", UploadedFile{Filename: "Report.PDF"}.Extension())
	assert.Equal(t, "", UploadedFile{Filename: "README"}.Extension())
	assert.Equal(t, int64(3), UploadedFile{Content: []byte("abc")}.Size())
}

func TestFormat_IsValid(t *testing.T) {
	for _, f := range Formats() {
		assert.True(t, f.IsValid())
	}
	assert.False(t, Format("html").IsValid())
}

func TestParsedDocument_Content(t *testing.T) {
	assert.False(t, ParsedDocument{Content: " \n\t"}.HasContent())
	assert.False(t, ParsedDocument{Content: " \n\t"}.Failed())
	assert.True(t, ParsedDocument{}.Failed())
	assert.True(t, ParsedDocument{Content: "x"}.HasContent())
}

func TestCountWords(t *testing.T) {
	assert.Equal(t, 0, CountWords("   "))
	assert.Equal(t, 4, CountWords("one two\nthree\tfour"))
}

func TestBatchLimits_WithDefaults(t *testing.T) {
	l := BatchLimits{MaxFiles: 3}.WithDefaults()

	assert.Equal(t, 3, l.MaxFiles)
	assert.Equal(t, DefaultMaxFileSize, l.MaxFileSize)
	assert.Equal(t, DefaultMaxBatchSize, l.MaxBatchSize)
}
