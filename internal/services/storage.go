package services

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/google/uuid"

	"alfredoptarigan/resume-matcher/internal/config"
)

// StorageService persists uploaded resumes under generated names.
type StorageService interface {
	// Save stores data under filename and returns its public path.
	Save(ctx context.Context, filename string, data []byte, contentType string) (string, error)
	// Read returns ErrFileNotFound when filename is not stored.
	Read(ctx context.Context, filename string) ([]byte, error)
	Delete(ctx context.Context, filename string) error
	Driver() string
}

// NewStorageService builds the driver selected by STORAGE_DRIVER.
func NewStorageService(ctx context.Context, cfg config.StorageConfig) (StorageService, error) {
	switch cfg.Driver {
	case config.StorageDriverS3:
		return NewS3Storage(ctx, cfg.S3)
	default:
		local := NewLocalStorage(cfg.UploadPath, cfg.PublicPath)
		if err := local.EnsureUploadDir(); err != nil {
			return nil, err
		}
		return local, nil
	}
}

// GenerateFilename returns "<prefix>_<uuid><ext>".
func GenerateFilename(prefix, ext string) string {
	return fmt.Sprintf("%s_%s%s", prefix, uuid.New().String(), ext)
}

type LocalStorage struct {
	uploadPath string
	publicPath string
}

func NewLocalStorage(uploadPath, publicPath string) *LocalStorage {
	return &LocalStorage{
		uploadPath: uploadPath,
		publicPath: publicPath,
	}
}

func (s *LocalStorage) EnsureUploadDir() error {
	if err := os.MkdirAll(s.uploadPath, 0755); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}

	return nil
}

// Driver implements StorageService.
func (s *LocalStorage) Driver() string {
	return config.StorageDriverLocal
}

// Save implements StorageService.
func (s *LocalStorage) Save(_ context.Context, filename string, data []byte, _ string) (string, error) {
	if err := os.WriteFile(s.GetFilePath(filename), data, 0644); err != nil {
		return "", fmt.Errorf("failed to save file: %w", err)
	}

	return path.Join(s.publicPath, filename), nil
}

// Read implements StorageService.
func (s *LocalStorage) Read(_ context.Context, filename string) ([]byte, error) {
	data, err := os.ReadFile(s.GetFilePath(filename))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, filename)
		}
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	return data, nil
}

// Delete implements StorageService.
func (s *LocalStorage) Delete(_ context.Context, filename string) error {
	if err := os.Remove(s.GetFilePath(filename)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// GetFilePath only ever resolves inside the upload directory.
func (s *LocalStorage) GetFilePath(filename string) string {
	return filepath.Join(s.uploadPath, filepath.Base(filename))
}
