package services

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"alfredoptarigan/resume-matcher/internal/models"
	"alfredoptarigan/resume-matcher/internal/observability"
)

// DocumentFormat is the extraction branch chosen for a MIME type.
type DocumentFormat string

const (
	FormatUnknown DocumentFormat = ""
	FormatPDF     DocumentFormat = "pdf"
	FormatWord    DocumentFormat = "word"
)

// DetectFormat matches known tokens anywhere in the MIME string so that
// browser variants of the same family land on the same branch.
func DetectFormat(mimeType string) DocumentFormat {
	m := strings.ToLower(mimeType)
	switch {
	case strings.Contains(m, "pdf"):
		return FormatPDF
	case strings.Contains(m, "word"), strings.Contains(m, "officedocument"):
		return FormatWord
	}
	return FormatUnknown
}

func isGenericMimeType(mimeType string) bool {
	switch strings.ToLower(strings.TrimSpace(mimeType)) {
	case "", "application/octet-stream", "binary/octet-stream":
		return true
	}
	return false
}

// TextExtractor turns an uploaded resume into plain text.
//
// A document without a recoverable text layer is not an error: the result is
// an empty string. Only unsupported types and missing files fail.
type TextExtractor interface {
	Extract(doc *models.UploadedDocument) (string, error)
	// ExtractFile reads filePath without modifying or removing it.
	ExtractFile(filePath, mimeType string) (string, error)
}

type textExtractor struct {
	maxChars int
}

func NewTextExtractor(maxChars int) TextExtractor {
	return &textExtractor{
		maxChars: maxChars,
	}
}

// Extract implements TextExtractor.
func (e *textExtractor) Extract(doc *models.UploadedDocument) (string, error) {
	mimeType := strings.TrimSpace(doc.DeclaredMimeType)
	format := DetectFormat(mimeType)

	if format == FormatUnknown && isGenericMimeType(mimeType) {
		sniffed := mimetype.Detect(doc.RawBytes).String()
		format = DetectFormat(sniffed)
		if mimeType == "" {
			mimeType = sniffed
		}
	}

	if format == FormatUnknown {
		observability.ExtractionsTotal.WithLabelValues("unknown", "unsupported").Inc()
		return "", &UnsupportedFormatError{MimeType: mimeType}
	}

	var (
		text string
		err  error
	)
	switch format {
	case FormatPDF:
		text, err = extractPDFText(doc.RawBytes)
	case FormatWord:
		text, err = extractDocxText(doc.RawBytes)
	}

	if err != nil {
		slog.Warn("resume has no extractable text",
			slog.String("file", doc.OriginalFileName),
			slog.String("format", string(format)),
			slog.Any("error", err))
		observability.ExtractionsTotal.WithLabelValues(string(format), "empty").Inc()
		return "", nil
	}

	text = TruncateRunes(CleanText(text), e.maxChars)

	outcome := "ok"
	if text == "" {
		outcome = "empty"
	}
	observability.ExtractionsTotal.WithLabelValues(string(format), outcome).Inc()

	return text, nil
}

// ExtractFile implements TextExtractor.
func (e *textExtractor) ExtractFile(filePath, mimeType string) (string, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			observability.ExtractionsTotal.WithLabelValues(string(DetectFormat(mimeType)), "not_found").Inc()
			return "", fmt.Errorf("%w: %s", ErrFileNotFound, filepath.Base(filePath))
		}
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	return e.Extract(&models.UploadedDocument{
		RawBytes:         data,
		DeclaredMimeType: mimeType,
		OriginalFileName: filepath.Base(filePath),
	})
}
