package domain

import "strings"

// Format identifies a supported document format.
type Format string

// Supported document formats.
const (
	FormatMarkdown  Format = "md"
	FormatPDF       Format = "pdf"
	FormatDOCX      Format = "docx"
	FormatPlainText Format = "txt"
)

// Formats returns every supported format in display order.
func Formats() []Format {
	return []Format{FormatMarkdown, FormatPDF, FormatDOCX, FormatPlainText}
}

// IsValid returns true if the format is recognised.
func (f Format) IsValid() bool {
	switch f {
	case FormatMarkdown, FormatPDF, FormatDOCX, FormatPlainText:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (f Format) String() string {
	return string(f)
}

// ParsedDocument is the normalised text extracted from one uploaded file.
// It is immutable once produced by the parser.
type ParsedDocument struct {
	// Filename is the sanitised original file name.
	Filename string `json:"filename"`

	// Format is the detected format. Empty when detection failed.
	Format Format `json:"format"`

	// Content is the extracted text. Empty signals an unrecoverable parse failure.
	Content string `json:"content"`

	// WordCount is the number of whitespace-separated words in Content.
	WordCount int `json:"wordCount"`

	// Errors holds hard failures and soft warnings.
	// It may be non-empty even when Content is present.
	Errors []string `json:"errors"`

	// Title is a document title found during extraction, if any.
	Title string `json:"title,omitempty"`

	// Metadata contains format-specific key-value pairs (e.g. front matter).
	Metadata map[string]string `json:"metadata,omitempty"`
}

// HasContent returns true if the document has non-whitespace text.
func (d ParsedDocument) HasContent() bool {
	return strings.TrimSpace(d.Content) != ""
}

// Failed returns true if the parser could not produce any text.
func (d ParsedDocument) Failed() bool {
	return d.Content == ""
}

// CountWords returns the number of whitespace-separated words in s.
func CountWords(s string) int {
	return len(strings.Fields(s))
}

// Default batch limits.
const (
	DefaultMaxFileSize  int64 = 10 * 1024 * 1024
	DefaultMaxFiles           = 50
	DefaultMaxBatchSize int64 = 100 * 1024 * 1024
)

// BatchLimits bounds the size of a single upload batch.
type BatchLimits struct {
	// MaxFileSize is the per-file byte ceiling.
	MaxFileSize int64

	// MaxFiles is the maximum number of files in one batch.
	MaxFiles int

	// MaxBatchSize is the aggregate byte ceiling for the batch.
	MaxBatchSize int64
}

// DefaultBatchLimits returns the default limits.
func DefaultBatchLimits() BatchLimits {
	return BatchLimits{
		MaxFileSize:  DefaultMaxFileSize,
		MaxFiles:     DefaultMaxFiles,
		MaxBatchSize: DefaultMaxBatchSize,
	}
}

// WithDefaults fills zero fields with their default values.
func (l BatchLimits) WithDefaults() BatchLimits {
	d := DefaultBatchLimits()
	if l.MaxFileSize <= 0 {
		l.MaxFileSize = d.MaxFileSize
	}
	if l.MaxFiles <= 0 {
		l.MaxFiles = d.MaxFiles
	}
	if l.MaxBatchSize <= 0 {
		l.MaxBatchSize = d.MaxBatchSize
	}
	return l
}

// ParseBatchResult is the outcome of parsing a whole batch.
type ParseBatchResult struct {
	// Documents holds one entry per input file, in input order.
	Documents []ParsedDocument `json:"documents"`

	// Errors summarises per-file failures as "filename: message".
	Errors []string `json:"errors"`
}
