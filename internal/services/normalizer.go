package services

import (
	"fmt"
	"log/slog"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/tidwall/gjson"

	"alfredoptarigan/resume-matcher/internal/models"
)

// RawSnippetLimit bounds the diagnostic copy of a malformed reply.
const RawSnippetLimit = 300

const (
	minOverallScore = 0
	maxOverallScore = 100
)

var (
	openFencePattern = regexp.MustCompile("^```[ \t]*[A-Za-z0-9_+.-]*")
	resultValidator  = validator.New()
)

// StripCodeFence removes a Markdown fence wrapping the whole reply.
//
// Only an opening fence (with optional language tag) at the very start and a
// closing fence at the very end are removed. Fences inside the body are kept,
// so a reply with trailing text after its closing fence stays unparseable.
func StripCodeFence(reply string) string {
	s := strings.TrimSpace(reply)
	if loc := openFencePattern.FindStringIndex(s); loc != nil {
		s = s[loc[1]:]
	}
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// NormalizeReply converts a raw model reply into a MatchOutcome. It never
// fails: replies that cannot be read degrade to an ErrorResult carrying a
// prefix of the raw text.
func NormalizeReply(raw string) *models.MatchOutcome {
	body := StripCodeFence(raw)

	if !gjson.Valid(body) {
		return malformedReply(raw, "reply is not valid JSON")
	}

	doc := gjson.Parse(body)
	if !doc.IsObject() {
		return malformedReply(raw, "reply is not a JSON object")
	}

	fields := lastFields(doc)

	score, ok := readScore(fields["overall_score"])
	if !ok {
		return malformedReply(raw, "overall_score is missing or not a number")
	}

	result := &models.MatchResult{
		OverallScore:    score,
		Strengths:       readStringList(fields["strengths"]),
		Weaknesses:      readStringList(fields["weaknesses"]),
		MissingKeywords: readStringList(fields["missing_keywords"]),
		Verdict:         readScalarString(fields["verdict"]),
	}

	if err := resultValidator.Struct(result); err != nil {
		return malformedReply(raw, fmt.Sprintf("invalid match result: %v", err))
	}

	return &models.MatchOutcome{
		State:  models.StateParsed,
		Result: result,
	}
}

func malformedReply(raw, reason string) *models.MatchOutcome {
	slog.Warn("model reply could not be normalized",
		slog.String("reason", reason),
		slog.Int("reply_length", len(raw)))

	return &models.MatchOutcome{
		State: models.StateParseFailed,
		Failure: &models.ErrorResult{
			Error: fmt.Sprintf("%s: %s", ErrModelReplyMalformed, reason),
			Raw:   TruncateRunes(raw, RawSnippetLimit),
		},
	}
}

// lastFields indexes the top-level members of obj. A key repeated in the
// reply resolves to its last occurrence.
func lastFields(obj gjson.Result) map[string]gjson.Result {
	fields := make(map[string]gjson.Result)
	obj.ForEach(func(key, value gjson.Result) bool {
		fields[key.String()] = value
		return true
	})
	return fields
}

// readScore accepts numbers and numeric strings, rounds fractions and clamps
// the value into [0,100]. Numeric literals too large for a float64 clamp like
// any other out-of-range score.
func readScore(v gjson.Result) (int, bool) {
	var f float64
	switch v.Type {
	case gjson.Number:
		f = v.Float()
	case gjson.String:
		parsed, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(v.Str), "%"), 64)
		if err != nil || math.IsInf(parsed, 0) {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}

	if math.IsNaN(f) {
		return 0, false
	}

	if f < minOverallScore || f > maxOverallScore {
		slog.Warn("overall_score out of range, clamping", slog.String("score", strconv.FormatFloat(f, 'g', -1, 64)))
		f = math.Max(minOverallScore, math.Min(maxOverallScore, f))
	}

	return int(math.Round(f)), true
}

// readStringList never returns nil. A bare scalar becomes a one-element list;
// nested objects, arrays and nulls inside a list are skipped.
func readStringList(v gjson.Result) []string {
	items := []string{}

	switch {
	case !v.Exists():
		return items
	case v.IsArray():
		for _, item := range v.Array() {
			switch item.Type {
			case gjson.String, gjson.Number, gjson.True, gjson.False:
				items = append(items, item.String())
			}
		}
	case v.Type == gjson.String:
		if strings.TrimSpace(v.Str) != "" {
			items = append(items, v.Str)
		}
	case v.Type == gjson.Number, v.Type == gjson.True, v.Type == gjson.False:
		items = append(items, v.String())
	}

	return items
}

func readScalarString(v gjson.Result) string {
	switch v.Type {
	case gjson.String, gjson.Number, gjson.True, gjson.False:
		return v.String()
	}
	return ""
}
