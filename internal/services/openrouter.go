package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"

	"alfredoptarigan/resume-matcher/internal/config"
)

const openRouterSystemPrompt = "You compare resumes with job descriptions and answer with a single JSON object."

type openRouterService struct {
	client *resty.Client
	model  string
}

func NewOpenRouterService(cfg config.OpenRouterConfig, timeout time.Duration) TextGenerator {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetAuthToken(cfg.APIKey).
		SetHeader("Content-Type", "application/json").
		SetHeader("X-Title", cfg.Title).
		SetTimeout(timeout)

	return &openRouterService{
		client: client,
		model:  cfg.Model,
	}
}

// Provider implements TextGenerator.
func (s *openRouterService) Provider() string {
	return config.ProviderOpenRouter
}

// GenerateText implements TextGenerator.
func (s *openRouterService) GenerateText(ctx context.Context, prompt string, temperature float32) (string, error) {
	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(map[string]interface{}{
			"model":       s.model,
			"temperature": temperature,
			"messages": []map[string]string{
				{"role": "system", "content": openRouterSystemPrompt},
				{"role": "user", "content": prompt},
			},
		}).
		Post("/chat/completions")
	if err != nil {
		return "", fmt.Errorf("openrouter request failed: %w", err)
	}

	if resp.IsError() {
		body := TruncateRunes(resp.String(), 512)
		slog.Warn("openrouter non-2xx",
			slog.Int("status", resp.StatusCode()),
			slog.String("model", s.model),
			slog.String("body", body))
		return "", &StatusError{Provider: config.ProviderOpenRouter, StatusCode: resp.StatusCode(), Body: body}
	}

	content := gjson.Get(resp.String(), "choices.0.message.content")
	if !content.Exists() {
		return "", fmt.Errorf("no choices in openrouter response")
	}

	return content.String(), nil
}
