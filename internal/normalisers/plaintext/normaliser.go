// Package plaintext provides the normaliser for plain text uploads.
package plaintext

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/drewgilbert-lab/content-automation-app/internal/core/domain"
	"github.com/drewgilbert-lab/content-automation-app/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// utf8BOM is stripped from the start of decoded text.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Normaliser handles plain text documents.
type Normaliser struct{}

// New creates a new plain text normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// Format returns the document format this normaliser produces.
func (n *Normaliser) Format() domain.Format {
	return domain.FormatPlainText
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{"text/plain"}
}

// SupportedExtensions returns the file extensions this normaliser handles.
func (n *Normaliser) SupportedExtensions() []string {
	return []string{"txt", "text"}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 5 // Fallback normaliser
}

// Normalise decodes the file as UTF-8 text.
func (n *Normaliser) Normalise(_ context.Context, file *domain.UploadedFile) (*driven.NormaliseResult, error) {
	if file == nil {
		return nil, domain.ErrInvalidInput
	}

	content, warnings := Decode(file.Content)

	return &driven.NormaliseResult{
		Content:  content,
		Title:    TitleFromFilename(file.Filename),
		Warnings: warnings,
	}, nil
}

// Decode converts bytes to text, dropping a UTF-8 byte order mark and
// replacing invalid sequences. Line endings are normalised to "\n".
func Decode(b []byte) (string, []string) {
	b = bytes.TrimPrefix(b, utf8BOM)

	var warnings []string
	s := string(b)
	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, "�")
		warnings = append(warnings, "file contains invalid UTF-8; undecodable bytes were replaced")
	}

	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return s, warnings
}

// TitleFromFilename derives a human-readable title from a file name.
func TitleFromFilename(name string) string {
	filename := filepath.Base(name)

	// Remove extension for cleaner title
	if ext := filepath.Ext(filename); ext != "" {
		filename = strings.TrimSuffix(filename, ext)
	}

	// Replace underscores and dashes with spaces
	filename = strings.ReplaceAll(filename, "_", " ")
	filename = strings.ReplaceAll(filename, "-", " ")

	return strings.TrimSpace(filename)
}
