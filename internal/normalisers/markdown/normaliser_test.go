package markdown

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drewgilbert-lab/content-automation-app/internal/core/domain"
	"github.com/drewgilbert-lab/content-automation-app/internal/core/ports/driven"
)

func TestInterfaceCompliance(t *testing.T) {
	var _ driven.Normaliser = (*Normaliser)(nil)
}

func TestNew(t *testing.T) {
	normaliser := New()
	require.NotNil(t, normaliser)
	assert.IsType(t, &Normaliser{}, normaliser)
}

func TestSupportedMIMETypes(t *testing.T) {
	mimeTypes := New().SupportedMIMETypes()

	assert.Contains(t, mimeTypes, "text/markdown")
	assert.Contains(t, mimeTypes, "text/x-markdown")
	assert.Len(t, mimeTypes, 2)
}

func TestSupportedExtensions(t *testing.T) {
	assert.Contains(t, New().SupportedExtensions(), "md")
	assert.Contains(t, New().SupportedExtensions(), "markdown")
}

func TestPriority(t *testing.T) {
	assert.Equal(t, 50, New().Priority())
	assert.Equal(t, domain.FormatMarkdown, New().Format())
}

func TestNormalise_Success(t *testing.T) {
	file := &domain.UploadedFile{
		Filename: "document.md",
		MIMEType: "text/markdown",
		Content:  []byte("# Hello World\n\nThis is a **test**."),
	}

	result, err := New().Normalise(context.Background(), file)
	require.NoError(t, err)

	assert.Equal(t, "Hello World", result.Title)
	assert.Equal(t, "# Hello World\n\nThis is a **test**.", result.Content, "markdown is kept as written")
	assert.Empty(t, result.Warnings)
}

func TestNormalise_TitleFallsBackToFilename(t *testing.T) {
	file := &domain.UploadedFile{
		Filename: "enterprise_buyer-notes.md",
		Content:  []byte("## Only a subheading\n\ntext"),
	}

	result, err := New().Normalise(context.Background(), file)
	require.NoError(t, err)
	assert.Equal(t, "enterprise buyer notes", result.Title)
}

func TestNormalise_FrontMatter(t *testing.T) {
	content := "---\ntitle: Healthcare CIO\ntags:\n  - healthcare\n  - cio\nowner: growth\n---\n\n# Heading\nBody text\n"

	result, err := New().Normalise(context.Background(), &domain.UploadedFile{
		Filename: "cio.md",
		Content:  []byte(content),
	})
	require.NoError(t, err)

	assert.Equal(t, "Healthcare CIO", result.Title)
	assert.Equal(t, "# Heading\nBody text\n", result.Content)
	assert.Equal(t, "healthcare, cio", result.Metadata["tags"])
	assert.Equal(t, "growth", result.Metadata["owner"])
}

func TestNormalise_InvalidFrontMatterKeepsContent(t *testing.T) {
	content := "---\ntitle: [unclosed\n---\nBody\n"

	result, err := New().Normalise(context.Background(), &domain.UploadedFile{
		Filename: "bad.md",
		Content:  []byte(content),
	})
	require.NoError(t, err)

	assert.Equal(t, content, result.Content)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "front matter")
}

func TestNormalise_UnterminatedFrontMatterIsContent(t *testing.T) {
	content := "---\nnot front matter\n"

	result, err := New().Normalise(context.Background(), &domain.UploadedFile{Filename: "x.md", Content: []byte(content)})
	require.NoError(t, err)
	assert.Equal(t, content, result.Content)
}

func TestNormalise_NilInput(t *testing.T) {
	_, err := New().Normalise(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestExtractMarkdownTitle(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		filename string
		want     string
	}{
		{"h1 heading", "# Title\ntext", "a.md", "Title"},
		{"indented h1", "   # Indented\n", "a.md", "Indented"},
		{"no heading", "plain", "use-case_notes.md", "use case notes"},
		{"hash without space", "#tag\n", "file.md", "file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractMarkdownTitle(tt.content, tt.filename))
		})
	}
}
