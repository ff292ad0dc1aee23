package server

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/healthcheck"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"alfredoptarigan/resume-matcher/internal/config"
	"alfredoptarigan/resume-matcher/internal/handlers"
	"alfredoptarigan/resume-matcher/internal/models"
	"alfredoptarigan/resume-matcher/internal/observability"
)

// multipartOverhead leaves room for form fields and boundaries on top of
// the file size cap.
const multipartOverhead = 1 << 20

// ReadinessFunc reports whether backing services are reachable.
type ReadinessFunc func() bool

// New builds the Fiber app with the full middleware stack and routes.
func New(cfg *config.Config, routes handlers.Routes, ready ReadinessFunc) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "Resume Matcher API",
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		BodyLimit:    int(cfg.Storage.MaxFileSize) + multipartOverhead,
		ErrorHandler: handlers.ErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path} ${locals:requestid}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))
	app.Use(helmet.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.Server.CORSAllowOrigins,
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	healthConfig := healthcheck.Config{}
	if ready != nil {
		healthConfig.ReadinessProbe = func(*fiber.Ctx) bool { return ready() }
	}
	app.Use(healthcheck.New(healthConfig))

	app.Use(observability.HTTPMetricsMiddleware())
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	if cfg.Server.RateLimitMax > 0 {
		app.Use("/api", limiter.New(limiter.Config{
			Max:        cfg.Server.RateLimitMax,
			Expiration: cfg.Server.RateLimitWindow,
			LimitReached: func(c *fiber.Ctx) error {
				return c.Status(fiber.StatusTooManyRequests).JSON(models.MessageResponse{
					Message: "Too many requests, please slow down",
				})
			},
		}))
	}

	routes.Register(app)

	// Root route
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Resume Matcher API",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /api/v1/upload-and-analyze",
				"POST /api/v1/analyze",
				"POST /api/v1/resumes",
				"POST /api/v1/resumes/extract",
				"GET /api/v1/matches",
				"GET /api/v1/matches/:id",
				"GET /api/v1/health",
			},
		})
	})

	return app
}
