package services

import (
	"errors"
	"fmt"
)

var (
	ErrBadRequest          = errors.New("bad request")
	ErrUnsupportedFormat   = errors.New("unsupported format")
	ErrFileNotFound        = errors.New("file not found")
	ErrParseFailure        = errors.New("document parse failure")
	ErrServiceUnavailable  = errors.New("text generation service unavailable")
	ErrModelReplyMalformed = errors.New("model reply malformed")
	ErrFileTooLarge        = errors.New("file too large")
)

// UnsupportedFormatError carries the MIME type that could not be dispatched.
type UnsupportedFormatError struct {
	MimeType string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported file type: %s", e.MimeType)
}

func (e *UnsupportedFormatError) Unwrap() error {
	return ErrUnsupportedFormat
}
