package models

import (
	"time"

	"github.com/google/uuid"
)

// MatchState is the terminal state of one evaluation.
type MatchState string

const (
	StateParsed        MatchState = "parsed"
	StateParseFailed   MatchState = "parse_failed"
	StateServiceFailed MatchState = "service_failed"
)

// MatchResult is the normalized comparison returned by the model.
type MatchResult struct {
	OverallScore    int      `json:"overall_score" validate:"min=0,max=100"`
	Strengths       []string `json:"strengths" validate:"required"`
	Weaknesses      []string `json:"weaknesses" validate:"required"`
	MissingKeywords []string `json:"missing_keywords" validate:"required"`
	Verdict         string   `json:"verdict"`
}

// ErrorResult replaces MatchResult when the model reply could not be normalized.
type ErrorResult struct {
	Error string `json:"error"`
	Raw   string `json:"raw"`
}

// MatchOutcome holds exactly one of Result or Failure.
type MatchOutcome struct {
	State   MatchState
	Result  *MatchResult
	Failure *ErrorResult
}

// Body returns the JSON payload for the outcome.
func (o *MatchOutcome) Body() any {
	if o.Result != nil {
		return o.Result
	}
	return o.Failure
}

// MatchRecord is the audit row written after an evaluation finishes.
type MatchRecord struct {
	ID                   uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	State                MatchState `gorm:"type:text;not null" json:"state"`
	ResumeFileName       string     `gorm:"type:text" json:"resume_file_name,omitempty"`
	ResumeMimeType       string     `gorm:"type:text" json:"resume_mime_type,omitempty"`
	JobDescriptionLength int        `json:"job_description_length"`
	ResumeTextLength     int        `json:"resume_text_length"`
	OverallScore         *int       `json:"overall_score,omitempty"`
	Strengths            []string   `gorm:"serializer:json" json:"strengths,omitempty"`
	Weaknesses           []string   `gorm:"serializer:json" json:"weaknesses,omitempty"`
	MissingKeywords      []string   `gorm:"serializer:json" json:"missing_keywords,omitempty"`
	Verdict              *string    `gorm:"type:text" json:"verdict,omitempty"`
	ErrorMessage         *string    `gorm:"type:text" json:"error_message,omitempty"`
	RawSnippet           *string    `gorm:"type:text" json:"raw_snippet,omitempty"`
	CreatedAt            time.Time  `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (MatchRecord) TableName() string {
	return "match_records"
}
