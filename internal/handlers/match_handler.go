package handlers

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/resume-matcher/internal/models"
	"alfredoptarigan/resume-matcher/internal/services"
)

type MatchHandler struct {
	extractor   services.TextExtractor
	evaluator   services.MatchEvaluator
	recorder    *services.MatchRecorder
	maxFileSize int64
	tempDir     string
	validate    *validator.Validate
}

func NewMatchHandler(
	extractor services.TextExtractor,
	evaluator services.MatchEvaluator,
	recorder *services.MatchRecorder,
	maxFileSize int64,
	tempDir string,
) *MatchHandler {
	return &MatchHandler{
		extractor:   extractor,
		evaluator:   evaluator,
		recorder:    recorder,
		maxFileSize: maxFileSize,
		tempDir:     tempDir,
		validate:    validator.New(),
	}
}

// HandleUploadAndAnalyze handles POST /upload-and-analyze
func (h *MatchHandler) HandleUploadAndAnalyze(c *fiber.Ctx) error {
	file, err := c.FormFile("resume")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.MessageResponse{
			Message: "No resume uploaded",
		})
	}

	if file.Size > h.maxFileSize {
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(models.MessageResponse{
			Message: fmt.Sprintf("Resume file too large. Max size: %d bytes", h.maxFileSize),
		})
	}

	jobDescription := c.FormValue("jobDescription")
	mimeType := file.Header.Get(fiber.HeaderContentType)

	tempPath, cleanup, err := services.SpoolUpload(file, h.tempDir)
	if err != nil {
		return respondError(c, err)
	}
	defer cleanup()

	resumeText, err := h.extractor.ExtractFile(tempPath, mimeType)
	if err != nil {
		return respondError(c, err)
	}

	return h.evaluate(c, services.MatchInput{
		JobDescription: jobDescription,
		ResumeText:     resumeText,
		ResumeFileName: file.Filename,
		ResumeMimeType: mimeType,
	})
}

// HandleAnalyze handles POST /analyze
func (h *MatchHandler) HandleAnalyze(c *fiber.Ctx) error {
	var req models.AnalyzeRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.MessageResponse{
			Message: "Invalid request payload",
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.MessageResponse{
			Message: "resumeText is required",
		})
	}

	return h.evaluate(c, services.MatchInput{
		JobDescription: req.JobDescription,
		ResumeText:     *req.ResumeText,
	})
}

func (h *MatchHandler) evaluate(c *fiber.Ctx, input services.MatchInput) error {
	outcome, err := h.evaluator.Evaluate(c.UserContext(), input.JobDescription, input.ResumeText)
	if err != nil {
		return respondError(c, err)
	}

	if id := h.recorder.Record(input, outcome); id != "" {
		c.Set("X-Match-Id", id)
	}

	return c.Status(fiber.StatusOK).JSON(outcome.Body())
}
