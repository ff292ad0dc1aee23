package services

import (
	"fmt"
)

type PromptBuilder struct {
	maxChars int
}

func NewPromptBuilder(maxChars int) *PromptBuilder {
	return &PromptBuilder{
		maxChars: maxChars,
	}
}

// BuildMatchPrompt creates the comparison prompt. Both texts are embedded
// verbatim after truncation; nothing is escaped.
func (pb *PromptBuilder) BuildMatchPrompt(jobDescription, resumeText string) string {
	return fmt.Sprintf(`You are an expert technical recruiter comparing a candidate's resume against a job description.

Compare the following job description and resume.

Return ONLY a JSON object with exactly these fields:
{
  "overall_score": <integer 0-100, how well the resume matches the job description>,
  "strengths": ["<strength>", ...],
  "weaknesses": ["<weakness>", ...],
  "missing_keywords": ["<keyword from the job description absent in the resume>", ...],
  "verdict": "<one or two sentence hiring recommendation>"
}

If either text is empty or too short to judge, still return the JSON object with a low score and explain it in the verdict.

Job Description:
%s

Resume:
%s
`,
		TruncateRunes(jobDescription, pb.maxChars), TruncateRunes(resumeText, pb.maxChars))
}
