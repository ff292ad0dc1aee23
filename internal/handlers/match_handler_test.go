package handlers

import (
	"fmt"
	"net/http"
	"os"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/resume-matcher/internal/models"
	"alfredoptarigan/resume-matcher/internal/services"
)

const testMaxFileSize = 1024

type matchFixture struct {
	app       *fiber.App
	extractor *fakeExtractor
	evaluator *fakeEvaluator
	repo      *fakeMatchRepo
}

func newMatchFixture(t *testing.T, withHistory bool) *matchFixture {
	t.Helper()

	f := &matchFixture{
		extractor: &fakeExtractor{text: "Jane Doe\nGo engineer"},
		evaluator: &fakeEvaluator{outcome: parsedOutcome()},
	}

	var recorder *services.MatchRecorder
	var result *ResultHandler
	if withHistory {
		f.repo = newFakeMatchRepo()
		recorder = services.NewMatchRecorder(f.repo)
		result = NewResultHandler(f.repo)
	}

	f.app = newTestApp(Routes{
		Match:  NewMatchHandler(f.extractor, f.evaluator, recorder, testMaxFileSize, t.TempDir()),
		Upload: NewUploadHandler(&fakeResumeService{}, testMaxFileSize),
		Result: result,
	})
	return f
}

func pdfUpload(content string) *formFile {
	return &formFile{field: "resume", name: "cv.pdf", contentType: "application/pdf", content: []byte(content)}
}

func TestUploadAndAnalyze_Parsed(t *testing.T) {
	f := newMatchFixture(t, false)

	req := multipartRequest(t, "/api/v1/upload-and-analyze",
		map[string]string{"jobDescription": "Senior Go engineer"}, pdfUpload("%PDF-1.4 fake"))
	resp, body := doRequest(t, f.app, req)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(82), body["overall_score"])
	assert.Equal(t, []any{"Go"}, body["strengths"])
	assert.Equal(t, []any{}, body["weaknesses"])
	assert.Equal(t, []any{"Kafka"}, body["missing_keywords"])
	assert.Equal(t, "Strong fit", body["verdict"])

	assert.Equal(t, "application/pdf", f.extractor.gotMime)
	assert.Equal(t, []byte("%PDF-1.4 fake"), f.extractor.gotContent)
	assert.Equal(t, "Senior Go engineer", f.evaluator.gotJD)
	assert.Equal(t, "Jane Doe\nGo engineer", f.evaluator.gotResume)
	assert.Empty(t, resp.Header.Get("X-Match-Id"))
}

func TestUploadAndAnalyze_LegacyPath(t *testing.T) {
	f := newMatchFixture(t, false)

	req := multipartRequest(t, "/api/upload-and-analyze",
		map[string]string{"jobDescription": "Go"}, pdfUpload("data"))
	resp, _ := doRequest(t, f.app, req)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, f.evaluator.calls)
}

func TestUploadAndAnalyze_EmptyJobDescription(t *testing.T) {
	f := newMatchFixture(t, false)

	req := multipartRequest(t, "/api/v1/upload-and-analyze", nil, pdfUpload("data"))
	resp, _ := doRequest(t, f.app, req)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "", f.evaluator.gotJD)
}

func TestUploadAndAnalyze_EmptyExtraction(t *testing.T) {
	f := newMatchFixture(t, false)
	f.extractor.text = ""

	req := multipartRequest(t, "/api/v1/upload-and-analyze",
		map[string]string{"jobDescription": "Go"}, pdfUpload("garbage"))
	resp, _ := doRequest(t, f.app, req)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, f.evaluator.calls)
	assert.Equal(t, "", f.evaluator.gotResume)
}

func TestUploadAndAnalyze_MissingFile(t *testing.T) {
	f := newMatchFixture(t, false)

	req := multipartRequest(t, "/api/v1/upload-and-analyze", map[string]string{"jobDescription": "Go"}, nil)
	resp, body := doRequest(t, f.app, req)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "No resume uploaded", body["message"])
	assert.Zero(t, f.extractor.calls)
	assert.Zero(t, f.evaluator.calls)
}

func TestUploadAndAnalyze_TooLarge(t *testing.T) {
	f := newMatchFixture(t, false)

	req := multipartRequest(t, "/api/v1/upload-and-analyze",
		map[string]string{"jobDescription": "Go"}, pdfUpload(strings.Repeat("x", testMaxFileSize+1)))
	resp, body := doRequest(t, f.app, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
	assert.Equal(t, fmt.Sprintf("Resume file too large. Max size: %d bytes", testMaxFileSize), body["message"])
	assert.Zero(t, f.extractor.calls)
	assert.Zero(t, f.evaluator.calls)
}

func TestUploadAndAnalyze_UnsupportedType(t *testing.T) {
	f := newMatchFixture(t, false)
	f.extractor.err = &services.UnsupportedFormatError{MimeType: "image/png"}

	req := multipartRequest(t, "/api/v1/upload-and-analyze", nil,
		&formFile{field: "resume", name: "cv.png", contentType: "image/png", content: []byte("png")})
	resp, body := doRequest(t, f.app, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, resp.StatusCode)
	assert.Contains(t, body["message"], "image/png")
	assert.Zero(t, f.evaluator.calls)
}

func TestUploadAndAnalyze_MalformedReply(t *testing.T) {
	f := newMatchFixture(t, false)
	f.evaluator.outcome = &models.MatchOutcome{
		State:   models.StateParseFailed,
		Failure: &models.ErrorResult{Error: "model reply malformed: not JSON", Raw: "Sure! Here is"},
	}

	req := multipartRequest(t, "/api/v1/upload-and-analyze", nil, pdfUpload("data"))
	resp, body := doRequest(t, f.app, req)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "model reply malformed: not JSON", body["error"])
	assert.Equal(t, "Sure! Here is", body["raw"])
	assert.NotContains(t, body, "overall_score")
}

func TestUploadAndAnalyze_ServiceUnavailable(t *testing.T) {
	f := newMatchFixture(t, false)
	f.evaluator.outcome = nil
	f.evaluator.err = fmt.Errorf("%w: upstream 503", services.ErrServiceUnavailable)

	req := multipartRequest(t, "/api/v1/upload-and-analyze", nil, pdfUpload("data"))
	resp, body := doRequest(t, f.app, req)

	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "Text generation service unavailable, please try again later", body["message"])
}

func TestUploadAndAnalyze_MethodNotAllowed(t *testing.T) {
	f := newMatchFixture(t, false)

	for _, target := range []string{"/api/v1/upload-and-analyze", "/api/upload-and-analyze", "/api/v1/analyze"} {
		req, err := http.NewRequest(http.MethodGet, target, nil)
		require.NoError(t, err)

		resp, body := doRequest(t, f.app, req)
		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode, target)
		assert.Equal(t, "Method not allowed", body["message"], target)
	}
	assert.Zero(t, f.evaluator.calls)
}

func TestUploadAndAnalyze_RecordsHistory(t *testing.T) {
	f := newMatchFixture(t, true)

	req := multipartRequest(t, "/api/v1/upload-and-analyze", map[string]string{"jobDescription": "Go"}, pdfUpload("data"))
	resp, _ := doRequest(t, f.app, req)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, f.repo.created)

	id := resp.Header.Get("X-Match-Id")
	require.NotEmpty(t, id)
	for recordID, record := range f.repo.records {
		assert.Equal(t, recordID.String(), id)
		assert.Equal(t, "cv.pdf", record.ResumeFileName)
		assert.Equal(t, "application/pdf", record.ResumeMimeType)
	}
}

func TestAnalyze(t *testing.T) {
	f := newMatchFixture(t, false)

	req := jsonRequest(t, http.MethodPost, "/api/v1/analyze", map[string]string{
		"jobDescription": "Go engineer",
		"resumeText":     "Jane Doe, Go",
	})
	resp, body := doRequest(t, f.app, req)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(82), body["overall_score"])
	assert.Equal(t, "Go engineer", f.evaluator.gotJD)
	assert.Equal(t, "Jane Doe, Go", f.evaluator.gotResume)
	assert.Zero(t, f.extractor.calls)
}

func TestAnalyze_EmptyResumeTextAccepted(t *testing.T) {
	f := newMatchFixture(t, false)

	req := jsonRequest(t, http.MethodPost, "/api/analyze", map[string]string{"resumeText": ""})
	resp, _ := doRequest(t, f.app, req)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, f.evaluator.calls)
}

func TestAnalyze_MissingResumeText(t *testing.T) {
	f := newMatchFixture(t, false)

	req := jsonRequest(t, http.MethodPost, "/api/v1/analyze", map[string]string{"jobDescription": "Go"})
	resp, body := doRequest(t, f.app, req)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "resumeText is required", body["message"])
	assert.Zero(t, f.evaluator.calls)
}

func TestAnalyze_InvalidPayload(t *testing.T) {
	f := newMatchFixture(t, false)

	req, err := http.NewRequest(http.MethodPost, "/api/v1/analyze", strings.NewReader("{not json"))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, body := doRequest(t, f.app, req)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid request payload", body["message"])
}

func TestUploadAndAnalyze_RemovesSpooledFile(t *testing.T) {
	cases := []struct {
		name         string
		extractErr   error
		evaluateErr  error
		status       int
		evaluateRuns int
	}{
		{"extraction fails", &services.UnsupportedFormatError{MimeType: "image/png"}, nil, http.StatusUnsupportedMediaType, 0},
		{"generation fails", nil, fmt.Errorf("%w: upstream 503", services.ErrServiceUnavailable), http.StatusServiceUnavailable, 1},
		{"success", nil, nil, http.StatusOK, 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			spoolDir := t.TempDir()
			extractor := &fakeExtractor{text: "Jane Doe", err: tc.extractErr}
			evaluator := &fakeEvaluator{outcome: parsedOutcome(), err: tc.evaluateErr}
			if tc.evaluateErr != nil {
				evaluator.outcome = nil
			}

			app := newTestApp(Routes{
				Match:  NewMatchHandler(extractor, evaluator, nil, testMaxFileSize, spoolDir),
				Upload: NewUploadHandler(&fakeResumeService{}, testMaxFileSize),
			})

			req := multipartRequest(t, "/api/v1/upload-and-analyze",
				map[string]string{"jobDescription": "Go"}, pdfUpload("%PDF-1.4 spooled"))
			resp, _ := doRequest(t, app, req)

			assert.Equal(t, tc.status, resp.StatusCode)
			assert.Equal(t, 1, extractor.calls)
			assert.Equal(t, []byte("%PDF-1.4 spooled"), extractor.gotContent)
			assert.Equal(t, tc.evaluateRuns, evaluator.calls)

			entries, err := os.ReadDir(spoolDir)
			require.NoError(t, err)
			assert.Empty(t, entries)
		})
	}
}
