package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"

	"alfredoptarigan/resume-matcher/internal/config"
	"alfredoptarigan/resume-matcher/internal/models"
	"alfredoptarigan/resume-matcher/internal/observability"
)

// MatchEvaluator compares a job description with resume text through the
// configured TextGenerator.
//
// A reply that cannot be normalized is not an error: the outcome carries an
// ErrorResult instead. Only a failed generation call returns an error, and it
// always wraps ErrServiceUnavailable.
type MatchEvaluator interface {
	Evaluate(ctx context.Context, jobDescription, resumeText string) (*models.MatchOutcome, error)
}

type matchEvaluator struct {
	generator         TextGenerator
	promptBuilder     *PromptBuilder
	temperature       float32
	timeout           time.Duration
	maxRetries        int
	retryInitialDelay time.Duration
}

func NewMatchEvaluator(generator TextGenerator, cfg config.LLMConfig, maxChars int) MatchEvaluator {
	return &matchEvaluator{
		generator:         generator,
		promptBuilder:     NewPromptBuilder(maxChars),
		temperature:       cfg.Temperature,
		timeout:           cfg.Timeout,
		maxRetries:        cfg.MaxRetries,
		retryInitialDelay: cfg.RetryInitialDelay,
	}
}

// Evaluate implements MatchEvaluator.
func (e *matchEvaluator) Evaluate(ctx context.Context, jobDescription, resumeText string) (*models.MatchOutcome, error) {
	prompt := e.promptBuilder.BuildMatchPrompt(jobDescription, resumeText)

	slog.Info("evaluating resume match",
		slog.String("provider", e.generator.Provider()),
		slog.Int("prompt_length", len(prompt)),
		slog.Int("job_description_length", len(jobDescription)),
		slog.Int("resume_length", len(resumeText)))

	reply, err := e.generate(ctx, prompt)
	if err != nil {
		observability.MatchesTotal.WithLabelValues(string(models.StateServiceFailed)).Inc()
		slog.Error("text generation failed", slog.String("provider", e.generator.Provider()), slog.Any("error", err))
		return nil, fmt.Errorf("%w: %w", ErrServiceUnavailable, err)
	}

	outcome := NormalizeReply(reply)
	observability.MatchesTotal.WithLabelValues(string(outcome.State)).Inc()
	if outcome.Result != nil {
		observability.MatchScoreHistogram.Observe(float64(outcome.Result.OverallScore))
	}

	return outcome, nil
}

// generate calls the generator once, plus at most maxRetries further attempts
// when the failure is transient. Every attempt gets its own timeout.
func (e *matchEvaluator) generate(ctx context.Context, prompt string) (string, error) {
	var (
		reply   string
		attempt int
	)

	op := func() error {
		attempt++

		attemptCtx := ctx
		if e.timeout > 0 {
			var cancel context.CancelFunc
			attemptCtx, cancel = context.WithTimeout(ctx, e.timeout)
			defer cancel()
		}

		start := time.Now()
		text, err := e.generator.GenerateText(attemptCtx, prompt, e.temperature)

		status := "ok"
		if err != nil {
			status = "error"
		}
		observability.LLMRequestDuration.WithLabelValues(e.generator.Provider(), status).Observe(time.Since(start).Seconds())

		if err != nil {
			if ctx.Err() != nil || !IsTransientError(err) {
				return backoff.Permanent(err)
			}
			slog.Warn("text generation attempt failed",
				slog.Int("attempt", attempt),
				slog.String("provider", e.generator.Provider()),
				slog.Any("error", err))
			return err
		}

		reply = text
		return nil
	}

	expo := backoff.NewExponentialBackOff()
	if e.retryInitialDelay > 0 {
		expo.InitialInterval = e.retryInitialDelay
	}
	bo := backoff.WithContext(backoff.WithMaxRetries(expo, uint64(e.maxRetries)), ctx)

	if err := backoff.Retry(op, bo); err != nil {
		return "", fmt.Errorf("failed after %d attempt(s): %w", attempt, err)
	}

	return reply, nil
}
