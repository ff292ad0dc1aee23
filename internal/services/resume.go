package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"alfredoptarigan/resume-matcher/internal/models"
	"alfredoptarigan/resume-matcher/internal/repositories"
)

const (
	mimePDF  = "application/pdf"
	mimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	mimeDOC  = "application/msword"
	mimeText = "text/plain"
)

// allowedUploadTypes maps a sniffed MIME type to the stored extension.
var allowedUploadTypes = []struct {
	mime string
	ext  string
}{
	{mimePDF, ".pdf"},
	{mimeDOCX, ".docx"},
	{mimeDOC, ".doc"},
	{mimeText, ".txt"},
}

// extensionMimeTypes drives extraction of stored files, which carry no
// declared type.
var extensionMimeTypes = map[string]string{
	".pdf":  mimePDF,
	".docx": mimeDOCX,
	".doc":  mimeDOC,
}

// ResumeService stores uploaded resumes and extracts text from stored ones.
type ResumeService interface {
	Upload(ctx context.Context, file *multipart.FileHeader) (*models.Document, error)
	ExtractStored(ctx context.Context, filename string) (string, error)
}

type resumeService struct {
	storage     StorageService
	extractor   TextExtractor
	docRepo     repositories.DocumentRepository
	maxFileSize int64
	maxChars    int
}

// NewResumeService accepts a nil docRepo when the database is disabled.
func NewResumeService(
	storage StorageService,
	extractor TextExtractor,
	docRepo repositories.DocumentRepository,
	maxFileSize int64,
	maxChars int,
) ResumeService {
	return &resumeService{
		storage:     storage,
		extractor:   extractor,
		docRepo:     docRepo,
		maxFileSize: maxFileSize,
		maxChars:    maxChars,
	}
}

// DetectUploadType sniffs data and returns its MIME type and stored extension.
func DetectUploadType(data []byte) (string, string, error) {
	mtype := mimetype.Detect(data)
	for _, allowed := range allowedUploadTypes {
		if mtype.Is(allowed.mime) {
			return allowed.mime, allowed.ext, nil
		}
	}
	return "", "", &UnsupportedFormatError{MimeType: mtype.String()}
}

// Upload implements ResumeService.
func (s *resumeService) Upload(ctx context.Context, file *multipart.FileHeader) (*models.Document, error) {
	if file.Size > s.maxFileSize {
		return nil, fmt.Errorf("%w: %d bytes exceeds limit of %d", ErrFileTooLarge, file.Size, s.maxFileSize)
	}

	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, s.maxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read uploaded file: %w", err)
	}
	if int64(len(data)) > s.maxFileSize {
		return nil, fmt.Errorf("%w: exceeds limit of %d bytes", ErrFileTooLarge, s.maxFileSize)
	}

	mimeType, ext, err := DetectUploadType(data)
	if err != nil {
		return nil, err
	}

	filename := GenerateFilename("cv", ext)
	publicPath, err := s.storage.Save(ctx, filename, data, mimeType)
	if err != nil {
		return nil, err
	}

	doc := &models.Document{
		Filename:         filename,
		OriginalFileName: file.Filename,
		MimeType:         mimeType,
		Size:             int64(len(data)),
		StorageDriver:    s.storage.Driver(),
		FilePath:         publicPath,
	}

	if s.docRepo != nil {
		if err := s.docRepo.Create(doc); err != nil {
			// Cleanup stored file if database insert fails
			if delErr := s.storage.Delete(ctx, filename); delErr != nil {
				slog.Warn("failed to remove orphaned upload", slog.String("filename", filename), slog.Any("error", delErr))
			}
			return nil, fmt.Errorf("failed to register document: %w", err)
		}
	}

	slog.Info("resume stored",
		slog.String("filename", filename),
		slog.String("mime_type", mimeType),
		slog.Int64("size", doc.Size))

	return doc, nil
}

// ExtractStored implements ResumeService. Only the base name of filename is
// used; the result has its whitespace collapsed to single spaces.
func (s *resumeService) ExtractStored(ctx context.Context, filename string) (string, error) {
	name := filepath.Base(strings.TrimSpace(filename))
	if name == "" || name == "." || name == "/" {
		return "", fmt.Errorf("%w: filename not provided", ErrBadRequest)
	}

	ext := strings.ToLower(filepath.Ext(name))
	mimeType, known := extensionMimeTypes[ext]
	if !known && ext != ".txt" {
		return "", &UnsupportedFormatError{MimeType: ext}
	}

	if registered := s.registeredMimeType(name); registered != "" {
		mimeType = registered
	}

	data, err := s.storage.Read(ctx, name)
	if err != nil {
		return "", err
	}

	var text string
	if ext == ".txt" || mimeType == mimeText {
		text = string(data)
	} else {
		text, err = s.extractor.Extract(&models.UploadedDocument{
			RawBytes:         data,
			DeclaredMimeType: mimeType,
			OriginalFileName: name,
		})
		if err != nil {
			return "", err
		}
	}

	return TruncateRunes(CollapseWhitespace(strings.ToValidUTF8(text, "")), s.maxChars), nil
}

// registeredMimeType returns the type sniffed at upload time, or "" when the
// registry is disabled or has no row for name.
func (s *resumeService) registeredMimeType(name string) string {
	if s.docRepo == nil {
		return ""
	}

	doc, err := s.docRepo.FindByFilename(name)
	if err != nil {
		if !errors.Is(err, repositories.ErrNotFound) {
			slog.Warn("document registry lookup failed", slog.String("filename", name), slog.Any("error", err))
		}
		return ""
	}

	return doc.MimeType
}
