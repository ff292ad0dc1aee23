package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const (
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"

	StorageDriverLocal = "local"
	StorageDriverS3    = "s3"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	LLM        LLMConfig
	Storage    StorageConfig
	Extraction ExtractionConfig
}

type ServerConfig struct {
	Port             string        `env:"PORT" envDefault:"3000"`
	Env              string        `env:"ENV" envDefault:"development"`
	ReadTimeout      time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"30s"`
	WriteTimeout     time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"90s"`
	CORSAllowOrigins string        `env:"CORS_ALLOW_ORIGINS" envDefault:"*"`
	RateLimitMax     int           `env:"RATE_LIMIT_MAX" envDefault:"30" validate:"min=0"`
	RateLimitWindow  time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"1m"`
}

type DatabaseConfig struct {
	Enabled  bool   `env:"DB_ENABLED" envDefault:"false"`
	Host     string `env:"DB_HOST" envDefault:"localhost"`
	Port     string `env:"DB_PORT" envDefault:"5432"`
	User     string `env:"DB_USER" envDefault:"postgres"`
	Password string `env:"DB_PASSWORD" envDefault:"postgres"`
	DBName   string `env:"DB_NAME" envDefault:"resume_matcher"`
	SSLMode  string `env:"DB_SSLMODE" envDefault:"disable"`
}

type LLMConfig struct {
	Provider          string        `env:"LLM_PROVIDER" envDefault:"gemini" validate:"oneof=gemini openrouter"`
	Temperature       float32       `env:"LLM_TEMPERATURE" envDefault:"0.2" validate:"min=0,max=2"`
	Timeout           time.Duration `env:"LLM_TIMEOUT" envDefault:"45s"`
	MaxRetries        int           `env:"LLM_MAX_RETRIES" envDefault:"1" validate:"min=0,max=1"`
	RetryInitialDelay time.Duration `env:"LLM_RETRY_INITIAL_DELAY" envDefault:"1s"`

	Gemini     GeminiConfig
	OpenRouter OpenRouterConfig
}

type GeminiConfig struct {
	APIKey   string `env:"GEMINI_API_KEY"`
	Model    string `env:"GEMINI_MODEL" envDefault:"gemini-2.5-flash"`
	JSONMode bool   `env:"GEMINI_JSON_MODE" envDefault:"false"`
	// BaseURL overrides the API endpoint; empty uses the SDK default.
	BaseURL string `env:"GEMINI_BASE_URL"`
}

type OpenRouterConfig struct {
	APIKey  string `env:"OPENROUTER_API_KEY"`
	BaseURL string `env:"OPENROUTER_BASE_URL" envDefault:"https://openrouter.ai/api/v1"`
	Model   string `env:"OPENROUTER_MODEL" envDefault:"google/gemini-2.5-flash"`
	Title   string `env:"OPENROUTER_TITLE" envDefault:"Resume Matcher"`
}

type StorageConfig struct {
	Driver      string `env:"STORAGE_DRIVER" envDefault:"local" validate:"oneof=local s3"`
	UploadPath  string `env:"UPLOAD_PATH" envDefault:"./uploads"`
	PublicPath  string `env:"UPLOAD_PUBLIC_PATH" envDefault:"/uploads"`
	MaxFileSize int64  `env:"MAX_FILE_SIZE" envDefault:"5242880" validate:"min=1"`
	TempDir     string `env:"TEMP_DIR"`

	S3 S3Config
}

type S3Config struct {
	Bucket    string `env:"S3_BUCKET"`
	Region    string `env:"S3_REGION" envDefault:"auto"`
	Endpoint  string `env:"S3_ENDPOINT"`
	AccessKey string `env:"S3_ACCESS_KEY"`
	SecretKey string `env:"S3_SECRET_KEY"`
	Prefix    string `env:"S3_PREFIX" envDefault:"resumes/"`
}

type ExtractionConfig struct {
	MaxChars int `env:"MAX_EXTRACTED_CHARS" envDefault:"20000" validate:"min=1"`
}

// Load reads an optional .env file and parses the environment into Config.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Using environment and defaults.")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks field rules and cross-field requirements of the selected drivers.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	switch c.LLM.Provider {
	case ProviderGemini:
		if c.LLM.Gemini.APIKey == "" {
			return fmt.Errorf("invalid config: GEMINI_API_KEY is required for provider gemini")
		}
	case ProviderOpenRouter:
		if c.LLM.OpenRouter.APIKey == "" {
			return fmt.Errorf("invalid config: OPENROUTER_API_KEY is required for provider openrouter")
		}
	}

	if c.Storage.Driver == StorageDriverS3 && c.Storage.S3.Bucket == "" {
		return fmt.Errorf("invalid config: S3_BUCKET is required for storage driver s3")
	}

	return nil
}

func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// TempDir returns the directory used to spool uploads before extraction.
func (c *Config) TempDir() string {
	if c.Storage.TempDir != "" {
		return c.Storage.TempDir
	}
	return os.TempDir()
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
		c.Database.SSLMode,
	)
}
