package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/drewgilbert-lab/content-automation-app/internal/core/domain"
	"github.com/drewgilbert-lab/content-automation-app/internal/core/ports/driven"
	"github.com/drewgilbert-lab/content-automation-app/internal/core/ports/driving"
	"github.com/drewgilbert-lab/content-automation-app/internal/logger"
)

// Ensure ParserService implements the interface.
var _ driving.DocumentParser = (*ParserService)(nil)

// ScannedPDFWarning is recorded for a PDF without a text layer.
const ScannedPDFWarning = "no extractable text found; the PDF is likely scanned or image-based (OCR is not supported)"

// ParserService extracts text from uploaded files using the normaliser registry.
type ParserService struct {
	registry driven.NormaliserRegistry
	limits   domain.BatchLimits
	metrics  driven.PipelineMetrics
}

// NewParserService creates a parser. Zero limits fall back to the defaults.
func NewParserService(
	registry driven.NormaliserRegistry,
	limits domain.BatchLimits,
	metrics driven.PipelineMetrics,
) *ParserService {
	return &ParserService{
		registry: registry,
		limits:   limits.WithDefaults(),
		metrics:  metricsOrNop(metrics),
	}
}

// Limits returns the limits applied when a batch does not specify its own.
func (s *ParserService) Limits() domain.BatchLimits {
	return s.limits
}

// Parse extracts a single file using the configured per-file limit.
func (s *ParserService) Parse(ctx context.Context, file domain.UploadedFile) domain.ParsedDocument {
	return s.parse(ctx, file, s.limits.MaxFileSize)
}

// ParseBatch checks the batch guards and then parses every file in order.
func (s *ParserService) ParseBatch(
	ctx context.Context,
	files []domain.UploadedFile,
	limits domain.BatchLimits,
) (*domain.ParseBatchResult, error) {
	limits = s.mergeLimits(limits)

	if err := checkBatch(files, limits); err != nil {
		s.metrics.BatchRejected()
		logger.Warn("Batch rejected: %v", err)
		return nil, err
	}

	result := &domain.ParseBatchResult{
		Documents: make([]domain.ParsedDocument, 0, len(files)),
		Errors:    []string{},
	}
	for _, file := range files {
		doc := s.parse(ctx, file, limits.MaxFileSize)
		if doc.Failed() {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %s", doc.Filename, strings.Join(doc.Errors, "; ")))
		}
		result.Documents = append(result.Documents, doc)
	}

	logger.Info("Parsed %d file(s), %d failed", len(files), len(result.Errors))
	return result, nil
}

// mergeLimits fills unset batch limits from the service configuration.
func (s *ParserService) mergeLimits(l domain.BatchLimits) domain.BatchLimits {
	if l.MaxFileSize <= 0 {
		l.MaxFileSize = s.limits.MaxFileSize
	}
	if l.MaxFiles <= 0 {
		l.MaxFiles = s.limits.MaxFiles
	}
	if l.MaxBatchSize <= 0 {
		l.MaxBatchSize = s.limits.MaxBatchSize
	}
	return l
}

// checkBatch applies the count and aggregate size guards.
func checkBatch(files []domain.UploadedFile, limits domain.BatchLimits) error {
	if len(files) == 0 {
		return fmt.Errorf("%w: no files provided", domain.ErrBatchRejected)
	}
	if len(files) > limits.MaxFiles {
		return fmt.Errorf("%w: too many files: %d exceeds the limit of %d",
			domain.ErrBatchRejected, len(files), limits.MaxFiles)
	}

	var total int64
	for _, f := range files {
		total += f.Size()
	}
	if total > limits.MaxBatchSize {
		return fmt.Errorf("%w: batch size %s exceeds the limit of %s",
			domain.ErrBatchRejected, humanize.IBytes(uint64(total)), humanize.IBytes(uint64(limits.MaxBatchSize)))
	}
	return nil
}

func (s *ParserService) parse(ctx context.Context, file domain.UploadedFile, maxFileSize int64) domain.ParsedDocument {
	doc := domain.ParsedDocument{
		Filename: domain.SanitizeFilename(file.Filename),
		Errors:   []string{},
	}
	file.Filename = doc.Filename

	switch {
	case file.Size() == 0:
		doc.Errors = append(doc.Errors, "file is empty")
	case file.Size() > maxFileSize:
		doc.Errors = append(doc.Errors, fmt.Sprintf("file size %s exceeds the limit of %s",
			humanize.IBytes(uint64(file.Size())), humanize.IBytes(uint64(maxFileSize))))
	}
	if len(doc.Errors) > 0 {
		logger.Debug("Skipping %s: %s", doc.Filename, doc.Errors[0])
		s.metrics.DocumentParsed(doc.Format, false)
		return doc
	}

	normaliser, ok := s.registry.Lookup(&file)
	if !ok {
		doc.Errors = append(doc.Errors, fmt.Sprintf("%s (type %q, extension %q)",
			domain.ErrUnsupportedFormat, file.MIMEType, file.Extension()))
		logger.Debug("Skipping %s: unsupported format", doc.Filename)
		s.metrics.DocumentParsed(doc.Format, false)
		return doc
	}
	doc.Format = normaliser.Format()

	res, err := normalise(ctx, normaliser, &file)
	if err != nil {
		doc.Errors = append(doc.Errors, fmt.Sprintf("failed to extract text: %v", err))
		logger.Debug("Extraction failed for %s: %v", doc.Filename, err)
		s.metrics.DocumentParsed(doc.Format, false)
		return doc
	}

	doc.Content = res.Content
	doc.Title = res.Title
	doc.Metadata = res.Metadata
	doc.Errors = append(doc.Errors, res.Warnings...)
	if doc.Format == domain.FormatPDF && !doc.HasContent() {
		doc.Errors = append(doc.Errors, ScannedPDFWarning)
	}
	doc.WordCount = domain.CountWords(doc.Content)

	logger.Debug("Parsed %s as %s: %d words", doc.Filename, doc.Format, doc.WordCount)
	s.metrics.DocumentParsed(doc.Format, !doc.Failed())
	return doc
}

// normalise runs the normaliser and turns a panic into an error.
func normalise(ctx context.Context, n driven.Normaliser, file *domain.UploadedFile) (res *driven.NormaliseResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			res = nil
			err = fmt.Errorf("panic during extraction: %v", r)
		}
	}()

	res, err = n.Normalise(ctx, file)
	if err == nil && res == nil {
		err = fmt.Errorf("normaliser returned no result")
	}
	return res, err
}
