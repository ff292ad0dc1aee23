package services

import (
	"context"
	"fmt"
	"log/slog"

	"google.golang.org/genai"

	"alfredoptarigan/resume-matcher/internal/config"
)

const geminiMaxOutputTokens = 4096

type geminiService struct {
	client    *genai.Client
	modelName string
	jsonMode  bool
}

func NewGeminiService(ctx context.Context, cfg config.GeminiConfig) (TextGenerator, error) {
	clientConfig := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &geminiService{
		client:    client,
		modelName: cfg.Model,
		jsonMode:  cfg.JSONMode,
	}, nil
}

// Provider implements TextGenerator.
func (g *geminiService) Provider() string {
	return config.ProviderGemini
}

// GenerateText implements TextGenerator.
func (g *geminiService) GenerateText(ctx context.Context, prompt string, temperature float32) (string, error) {
	generationConfig := &genai.GenerateContentConfig{
		Temperature:     &temperature,
		MaxOutputTokens: geminiMaxOutputTokens,
	}
	if g.jsonMode {
		generationConfig.ResponseMIMEType = "application/json"
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.modelName, genai.Text(prompt), generationConfig)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no response generated (no candidates)")
	}

	text := resp.Text()
	if text == "" {
		// An empty reply is passed on; normalization reports it as malformed.
		slog.Warn("gemini returned no text content",
			slog.String("model", g.modelName),
			slog.String("finish_reason", string(resp.Candidates[0].FinishReason)))
	}

	return text, nil
}
