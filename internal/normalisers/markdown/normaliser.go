// Package markdown provides the normaliser for Markdown uploads.
package markdown

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/drewgilbert-lab/content-automation-app/internal/core/domain"
	"github.com/drewgilbert-lab/content-automation-app/internal/core/ports/driven"
	"github.com/drewgilbert-lab/content-automation-app/internal/normalisers/plaintext"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles Markdown documents.
// Content is kept as Markdown; only YAML front matter is removed.
type Normaliser struct{}

// New creates a new Markdown normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// Format returns the document format this normaliser produces.
func (n *Normaliser) Format() domain.Format {
	return domain.FormatMarkdown
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{"text/markdown", "text/x-markdown"}
}

// SupportedExtensions returns the file extensions this normaliser handles.
func (n *Normaliser) SupportedExtensions() []string {
	return []string{"md", "markdown", "mdown"}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 50 // Generic MIME normaliser, higher than plaintext
}

// Normalise decodes the Markdown, splits off front matter and finds a title.
func (n *Normaliser) Normalise(_ context.Context, file *domain.UploadedFile) (*driven.NormaliseResult, error) {
	if file == nil {
		return nil, domain.ErrInvalidInput
	}

	text, warnings := plaintext.Decode(file.Content)

	meta, body, err := splitFrontMatter(text)
	if err != nil {
		warnings = append(warnings, fmt.Sprintf("ignored invalid front matter: %v", err))
		body = text
		meta = nil
	}

	title := meta["title"]
	if title == "" {
		title = extractMarkdownTitle(body, file.Filename)
	}

	return &driven.NormaliseResult{
		Content:  body,
		Title:    title,
		Warnings: warnings,
		Metadata: meta,
	}, nil
}

// splitFrontMatter separates a leading YAML block delimited by "---" lines.
// Scalar values are kept as strings and lists are joined with ", ".
func splitFrontMatter(text string) (map[string]string, string, error) {
	if !strings.HasPrefix(text, "---\n") {
		return nil, text, nil
	}

	rest := text[len("---\n"):]
	end := -1
	offset := 0
	for _, line := range strings.SplitAfter(rest, "\n") {
		trimmed := strings.TrimRight(line, "\n")
		if trimmed == "---" || trimmed == "..." {
			end = offset
			offset += len(line)
			break
		}
		offset += len(line)
	}
	if end < 0 {
		return nil, text, nil
	}

	var raw map[string]any
	if err := yaml.Unmarshal([]byte(rest[:end]), &raw); err != nil {
		return nil, text, err
	}

	meta := make(map[string]string, len(raw))
	for k, v := range raw {
		if s := stringify(v); s != "" {
			meta[k] = s
		}
	}

	return meta, strings.TrimLeft(rest[offset:], "\n"), nil
}

func stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	case []any:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			if s := stringify(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, k+"="+stringify(val[k]))
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprint(val)
	}
}

// extractMarkdownTitle extracts a title from the first H1 heading or falls back to filename.
func extractMarkdownTitle(content, filename string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "# ") {
			return strings.TrimSpace(strings.TrimPrefix(line, "#"))
		}
	}
	return plaintext.TitleFromFilename(filename)
}
