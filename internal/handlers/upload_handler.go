package handlers

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/resume-matcher/internal/models"
	"alfredoptarigan/resume-matcher/internal/services"
)

// UploadHandler serves the storage endpoints. Their bodies always carry a
// "status" field of "success" or "error".
type UploadHandler struct {
	resumeService services.ResumeService
	maxFileSize   int64
}

func NewUploadHandler(resumeService services.ResumeService, maxFileSize int64) *UploadHandler {
	return &UploadHandler{
		resumeService: resumeService,
		maxFileSize:   maxFileSize,
	}
}

// HandleUpload handles POST /resumes
func (h *UploadHandler) HandleUpload(c *fiber.Ctx) error {
	file, err := c.FormFile("resume")
	if err != nil {
		return respondStatusError(c, fiber.StatusBadRequest, "No file uploaded")
	}

	if file.Size > h.maxFileSize {
		return respondStatusError(c, fiber.StatusRequestEntityTooLarge,
			fmt.Sprintf("File too large. Max size: %d bytes", h.maxFileSize))
	}

	doc, err := h.resumeService.Upload(c.UserContext(), file)
	if err != nil {
		status := statusForError(err)
		logFor(c).Warn("resume upload failed", slog.Int("status", status), slog.Any("error", err))

		message := "Failed to store file"
		switch {
		case errors.Is(err, services.ErrUnsupportedFormat):
			message = "Invalid file type. Only PDF, DOC, DOCX, and TXT are allowed"
		case errors.Is(err, services.ErrFileTooLarge):
			message = fmt.Sprintf("File too large. Max size: %d bytes", h.maxFileSize)
		}
		return respondStatusError(c, status, message)
	}

	return c.Status(fiber.StatusOK).JSON(models.UploadResponse{
		Status:   "success",
		Filename: doc.Filename,
		Path:     doc.FilePath,
	})
}

// HandleExtract handles POST /resumes/extract
func (h *UploadHandler) HandleExtract(c *fiber.Ctx) error {
	var req models.ExtractRequest
	if err := c.BodyParser(&req); err != nil {
		return respondStatusError(c, fiber.StatusBadRequest, "Invalid request payload")
	}

	if req.Filename == "" {
		return respondStatusError(c, fiber.StatusBadRequest, "Filename not provided")
	}

	text, err := h.resumeService.ExtractStored(c.UserContext(), req.Filename)
	if err != nil {
		status := statusForError(err)
		logFor(c).Warn("stored resume extraction failed", slog.Int("status", status), slog.Any("error", err))

		message := "Failed to extract text"
		switch {
		case errors.Is(err, services.ErrBadRequest):
			message = "Filename not provided"
		case errors.Is(err, services.ErrFileNotFound):
			message = "File not found"
		case errors.Is(err, services.ErrUnsupportedFormat):
			message = "Unsupported file format"
		}
		return respondStatusError(c, status, message)
	}

	return c.Status(fiber.StatusOK).JSON(models.ExtractResponse{
		Status: "success",
		Text:   text,
	})
}
