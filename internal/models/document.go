package models

import (
	"time"

	"github.com/google/uuid"
)

// UploadedDocument is a resume as received from a request. It is never persisted.
type UploadedDocument struct {
	RawBytes         []byte
	DeclaredMimeType string
	OriginalFileName string
}

// Document is the registry row for a resume stored through the upload endpoint.
type Document struct {
	ID               uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Filename         string    `gorm:"type:text;uniqueIndex" json:"filename"`
	OriginalFileName string    `gorm:"type:text" json:"original_filename"`
	MimeType         string    `gorm:"type:text" json:"mime_type"`
	Size             int64     `json:"size"`
	StorageDriver    string    `gorm:"type:text" json:"storage_driver"`
	FilePath         string    `gorm:"type:text" json:"file_path"`
	CreatedAt        time.Time `gorm:"type:timestamp;default:now()" json:"created_at"`
	UpdatedAt        time.Time `gorm:"type:timestamp;default:now()" json:"updated_at"`
}

func (d *Document) TableName() string {
	return "documents"
}
