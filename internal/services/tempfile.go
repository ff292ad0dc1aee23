package services

import (
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
)

// SpoolUpload copies an uploaded file into a uniquely named file under dir.
// The returned cleanup removes it and must run on every exit path.
func SpoolUpload(file *multipart.FileHeader, dir string) (string, func(), error) {
	src, err := file.Open()
	if err != nil {
		return "", nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	ext := strings.ToLower(filepath.Ext(file.Filename))
	dst, err := os.CreateTemp(dir, "resume-*"+ext)
	if err != nil {
		return "", nil, fmt.Errorf("failed to create temp file: %w", err)
	}

	tempPath := dst.Name()
	cleanup := func() {
		if err := os.Remove(tempPath); err != nil && !os.IsNotExist(err) {
			slog.Warn("failed to remove temp upload", slog.String("path", tempPath), slog.Any("error", err))
		}
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		cleanup()
		return "", nil, fmt.Errorf("failed to spool upload: %w", err)
	}

	if err := dst.Close(); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("failed to spool upload: %w", err)
	}

	return tempPath, cleanup, nil
}
