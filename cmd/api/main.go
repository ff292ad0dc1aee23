package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"gorm.io/gorm"

	"alfredoptarigan/resume-matcher/internal/config"
	"alfredoptarigan/resume-matcher/internal/handlers"
	"alfredoptarigan/resume-matcher/internal/observability"
	"alfredoptarigan/resume-matcher/internal/repositories"
	"alfredoptarigan/resume-matcher/internal/server"
	"alfredoptarigan/resume-matcher/internal/services"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}
	log.Println("✅ Config loaded successfully")

	logLevel := slog.LevelDebug
	if cfg.IsProduction() {
		logLevel = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))

	observability.InitMetrics()

	ctx := context.Background()

	// Initialize database (optional)
	var (
		db        *gorm.DB
		docRepo   repositories.DocumentRepository
		matchRepo repositories.MatchRepository
	)
	if cfg.Database.Enabled {
		db, err = config.InitDatabase(cfg)
		if err != nil {
			log.Fatalf("❌ Failed to initialize database: %v", err)
		}
		docRepo = repositories.NewDocumentRepository(db)
		matchRepo = repositories.NewMatchRepository(db)
		log.Println("✅ Repositories initialized successfully")
	} else {
		log.Println("ℹ️  Database disabled, match history is off")
	}

	// Initialize services
	storageService, err := services.NewStorageService(ctx, cfg.Storage)
	if err != nil {
		log.Fatalf("❌ Failed to initialize storage: %v", err)
	}
	log.Printf("✅ Storage initialized (driver: %s)\n", storageService.Driver())

	generator, err := services.NewTextGenerator(ctx, cfg.LLM)
	if err != nil {
		log.Fatalf("❌ Failed to initialize text generator: %v", err)
	}
	log.Printf("✅ Text generator initialized (provider: %s)\n", generator.Provider())

	extractor := services.NewTextExtractor(cfg.Extraction.MaxChars)
	evaluator := services.NewMatchEvaluator(generator, cfg.LLM, cfg.Extraction.MaxChars)
	resumeService := services.NewResumeService(
		storageService,
		extractor,
		docRepo,
		cfg.Storage.MaxFileSize,
		cfg.Extraction.MaxChars,
	)
	log.Println("✅ Services initialized successfully")

	// Initialize Handlers
	routes := handlers.Routes{
		Match: handlers.NewMatchHandler(
			extractor,
			evaluator,
			services.NewMatchRecorder(matchRepo),
			cfg.Storage.MaxFileSize,
			cfg.TempDir(),
		),
		Upload: handlers.NewUploadHandler(resumeService, cfg.Storage.MaxFileSize),
	}
	if matchRepo != nil {
		routes.Result = handlers.NewResultHandler(matchRepo)
	}
	log.Println("✅ Handlers initialized")

	app := server.New(cfg, routes, readiness(db))

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("\n🛑 Shutting down server...")
		if err := app.Shutdown(); err != nil {
			log.Printf("❌ Server forced to shutdown: %v", err)
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("🚀 Server starting on %s\n", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

func readiness(db *gorm.DB) server.ReadinessFunc {
	if db == nil {
		return nil
	}
	return func() bool {
		sqlDB, err := db.DB()
		if err != nil {
			return false
		}
		return sqlDB.Ping() == nil
	}
}
