package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/resume-matcher/internal/models"
	"alfredoptarigan/resume-matcher/internal/repositories"
	"alfredoptarigan/resume-matcher/internal/services"
)

// statusForError maps pipeline errors to HTTP status codes.
func statusForError(err error) int {
	var fiberErr *fiber.Error
	switch {
	case errors.As(err, &fiberErr):
		return fiberErr.Code
	case errors.Is(err, services.ErrBadRequest):
		return fiber.StatusBadRequest
	case errors.Is(err, services.ErrFileTooLarge):
		return fiber.StatusRequestEntityTooLarge
	case errors.Is(err, services.ErrUnsupportedFormat):
		return fiber.StatusUnsupportedMediaType
	case errors.Is(err, services.ErrFileNotFound), errors.Is(err, repositories.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrServiceUnavailable):
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

func messageForError(err error, status int) string {
	switch status {
	case fiber.StatusInternalServerError:
		return "Internal server error"
	case fiber.StatusServiceUnavailable:
		return "Text generation service unavailable, please try again later"
	default:
		return err.Error()
	}
}

func respondError(c *fiber.Ctx, err error) error {
	status := statusForError(err)
	logFor(c).Warn("request failed", slog.Int("status", status), slog.Any("error", err))

	return c.Status(status).JSON(models.MessageResponse{
		Message: messageForError(err, status),
	})
}

func respondStatusError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(models.StatusErrorResponse{
		Status:  "error",
		Message: message,
	})
}

// MethodNotAllowed answers every method not registered on a route.
func MethodNotAllowed(c *fiber.Ctx) error {
	return c.Status(fiber.StatusMethodNotAllowed).JSON(models.MessageResponse{
		Message: "Method not allowed",
	})
}

// ErrorHandler renders errors that escape handlers and middleware.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := statusForError(err)

	return c.Status(code).JSON(fiber.Map{
		"message": messageForError(err, code),
		"code":    code,
	})
}

func logFor(c *fiber.Ctx) *slog.Logger {
	if id, ok := c.Locals("requestid").(string); ok && id != "" {
		return slog.With(slog.String("request_id", id))
	}
	return slog.Default()
}
