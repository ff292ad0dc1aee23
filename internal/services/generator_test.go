package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"alfredoptarigan/resume-matcher/internal/config"
)

func TestIsTransientError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"rate limited", &StatusError{StatusCode: http.StatusTooManyRequests}, true},
		{"server error", fmt.Errorf("wrapped: %w", &StatusError{StatusCode: http.StatusBadGateway}), true},
		{"unauthorized", &StatusError{StatusCode: http.StatusUnauthorized}, false},
		{"bad request", &StatusError{StatusCode: http.StatusBadRequest}, false},
		{"gemini overloaded", fmt.Errorf("failed to generate text: %w", genai.APIError{Code: 503}), true},
		{"gemini quota", genai.APIError{Code: 429}, true},
		{"gemini invalid key", genai.APIError{Code: 400}, false},
		{"deadline", fmt.Errorf("call: %w", context.DeadlineExceeded), true},
		{"canceled", context.Canceled, false},
		{"connection reset", fmt.Errorf("read: %w", syscall.ECONNRESET), true},
		{"unexpected eof", io.ErrUnexpectedEOF, true},
		{"other", errors.New("boom"), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsTransientError(tc.err))
		})
	}
}

func TestNewTextGenerator(t *testing.T) {
	ctx := context.Background()

	gemini, err := NewTextGenerator(ctx, config.LLMConfig{
		Provider: config.ProviderGemini,
		Gemini:   config.GeminiConfig{APIKey: "k", Model: "gemini-2.5-flash"},
	})
	require.NoError(t, err)
	assert.Equal(t, config.ProviderGemini, gemini.Provider())

	openRouter, err := NewTextGenerator(ctx, config.LLMConfig{
		Provider:   config.ProviderOpenRouter,
		OpenRouter: config.OpenRouterConfig{APIKey: "k", BaseURL: "http://localhost", Model: "m"},
	})
	require.NoError(t, err)
	assert.Equal(t, config.ProviderOpenRouter, openRouter.Provider())

	_, err = NewTextGenerator(ctx, config.LLMConfig{Provider: "llama"})
	assert.Error(t, err)
}
