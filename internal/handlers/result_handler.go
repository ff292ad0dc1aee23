package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"alfredoptarigan/resume-matcher/internal/models"
	"alfredoptarigan/resume-matcher/internal/repositories"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

type ResultHandler struct {
	matchRepo repositories.MatchRepository
}

func NewResultHandler(matchRepo repositories.MatchRepository) *ResultHandler {
	return &ResultHandler{
		matchRepo: matchRepo,
	}
}

// HandleGetMatch handles GET /matches/:id
func (h *ResultHandler) HandleGetMatch(c *fiber.Ctx) error {
	matchID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.MessageResponse{
			Message: "Invalid match ID format",
		})
	}

	record, err := h.matchRepo.FindByID(matchID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(record)
}

// HandleListMatches handles GET /matches
func (h *ResultHandler) HandleListMatches(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", defaultHistoryLimit)
	if limit <= 0 || limit > maxHistoryLimit {
		limit = defaultHistoryLimit
	}

	records, err := h.matchRepo.FindRecent(limit)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"matches": records,
		"count":   len(records),
	})
}
