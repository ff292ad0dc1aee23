package services

import (
	"log/slog"

	"github.com/google/uuid"

	"alfredoptarigan/resume-matcher/internal/models"
	"alfredoptarigan/resume-matcher/internal/repositories"
)

// MatchInput describes what was compared, for the history row.
type MatchInput struct {
	JobDescription string
	ResumeText     string
	ResumeFileName string
	ResumeMimeType string
}

// NewMatchRecord flattens an outcome into a history row.
func NewMatchRecord(input MatchInput, outcome *models.MatchOutcome) *models.MatchRecord {
	record := &models.MatchRecord{
		ID:                   uuid.New(),
		State:                outcome.State,
		ResumeFileName:       input.ResumeFileName,
		ResumeMimeType:       input.ResumeMimeType,
		JobDescriptionLength: len([]rune(input.JobDescription)),
		ResumeTextLength:     len([]rune(input.ResumeText)),
	}

	if r := outcome.Result; r != nil {
		score := r.OverallScore
		verdict := r.Verdict
		record.OverallScore = &score
		record.Strengths = r.Strengths
		record.Weaknesses = r.Weaknesses
		record.MissingKeywords = r.MissingKeywords
		record.Verdict = &verdict
	}

	if f := outcome.Failure; f != nil {
		msg := f.Error
		raw := f.Raw
		record.ErrorMessage = &msg
		record.RawSnippet = &raw
	}

	return record
}

// MatchRecorder writes finished evaluations to the history table. A nil
// repository turns it into a no-op.
type MatchRecorder struct {
	repo repositories.MatchRepository
}

func NewMatchRecorder(repo repositories.MatchRepository) *MatchRecorder {
	return &MatchRecorder{repo: repo}
}

func (m *MatchRecorder) Enabled() bool {
	return m != nil && m.repo != nil
}

// Record stores the outcome and returns the new record id, or "" when history
// is disabled or the write failed. Failures are logged only.
func (m *MatchRecorder) Record(input MatchInput, outcome *models.MatchOutcome) string {
	if !m.Enabled() {
		return ""
	}

	record := NewMatchRecord(input, outcome)
	if err := m.repo.Create(record); err != nil {
		slog.Error("failed to record match", slog.String("state", string(outcome.State)), slog.Any("error", err))
		return ""
	}

	return record.ID.String()
}
