package domain

import (
	"path/filepath"
	"strings"
)

// UploadedFile represents opaque bytes received from a caller.
// It is the parser's input before normalisation.
type UploadedFile struct {
	// Filename is the name supplied by the caller. It is not trusted.
	Filename string

	// MIMEType is the declared content type (e.g., "application/pdf").
	// May be empty or generic ("application/octet-stream").
	MIMEType string

	// Content is the raw bytes.
	Content []byte
}

// Size returns the byte length of the file content.
func (f UploadedFile) Size() int64 {
	return int64(len(f.Content))
}

// Extension returns the lower-cased extension of the file name without the dot.
func (f UploadedFile) Extension() string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(f.Filename)), ".")
}

// SanitizeFilename strips directory components and traversal sequences
// so the name is safe to store and echo back.
func SanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	name = strings.ReplaceAll(name, "..", "")
	name = strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, name)
	name = strings.TrimSpace(name)
	if name == "" {
		return "untitled"
	}
	return name
}
