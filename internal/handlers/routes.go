package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// Routes groups the handlers mounted by Register. Result is nil when match
// history is disabled.
type Routes struct {
	Match  *MatchHandler
	Upload *UploadHandler
	Result *ResultHandler
}

// Register mounts every endpoint under /api/v1 and the legacy match
// endpoints under /api.
func (r Routes) Register(app *fiber.App) {
	api := app.Group("/api/v1")

	// Health check
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	r.registerMatch(api)

	api.Post("/resumes", r.Upload.HandleUpload)
	api.Post("/resumes/extract", r.Upload.HandleExtract)

	if r.Result != nil {
		api.Get("/matches", r.Result.HandleListMatches)
		api.Get("/matches/:id", r.Result.HandleGetMatch)
	}

	r.registerMatch(app.Group("/api"))
}

func (r Routes) registerMatch(router fiber.Router) {
	router.Post("/upload-and-analyze", r.Match.HandleUploadAndAnalyze)
	router.All("/upload-and-analyze", MethodNotAllowed)
	router.Post("/analyze", r.Match.HandleAnalyze)
	router.All("/analyze", MethodNotAllowed)
}
