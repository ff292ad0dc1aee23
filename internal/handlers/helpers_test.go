package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/resume-matcher/internal/models"
	"alfredoptarigan/resume-matcher/internal/repositories"
)

type fakeExtractor struct {
	text  string
	err   error
	calls int

	gotMime    string
	gotContent []byte
}

func (f *fakeExtractor) Extract(doc *models.UploadedDocument) (string, error) {
	f.calls++
	f.gotMime = doc.DeclaredMimeType
	f.gotContent = doc.RawBytes
	return f.text, f.err
}

func (f *fakeExtractor) ExtractFile(filePath, mimeType string) (string, error) {
	f.calls++
	f.gotMime = mimeType
	data, err := os.ReadFile(filePath)
	if err != nil {
		return "", err
	}
	f.gotContent = data
	return f.text, f.err
}

type fakeEvaluator struct {
	outcome *models.MatchOutcome
	err     error
	calls   int

	gotJD     string
	gotResume string
}

func (f *fakeEvaluator) Evaluate(_ context.Context, jobDescription, resumeText string) (*models.MatchOutcome, error) {
	f.calls++
	f.gotJD = jobDescription
	f.gotResume = resumeText
	return f.outcome, f.err
}

type fakeResumeService struct {
	doc        *models.Document
	uploadErr  error
	text       string
	extractErr error

	gotFilename string
}

func (f *fakeResumeService) Upload(_ context.Context, file *multipart.FileHeader) (*models.Document, error) {
	if f.uploadErr != nil {
		return nil, f.uploadErr
	}
	return f.doc, nil
}

func (f *fakeResumeService) ExtractStored(_ context.Context, filename string) (string, error) {
	f.gotFilename = filename
	return f.text, f.extractErr
}

type fakeMatchRepo struct {
	records map[uuid.UUID]*models.MatchRecord
	created int
	limit   int
}

func newFakeMatchRepo() *fakeMatchRepo {
	return &fakeMatchRepo{records: map[uuid.UUID]*models.MatchRecord{}}
}

func (f *fakeMatchRepo) Create(record *models.MatchRecord) error {
	f.created++
	f.records[record.ID] = record
	return nil
}

func (f *fakeMatchRepo) FindByID(id uuid.UUID) (*models.MatchRecord, error) {
	record, ok := f.records[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return record, nil
}

func (f *fakeMatchRepo) FindRecent(limit int) ([]models.MatchRecord, error) {
	f.limit = limit
	out := make([]models.MatchRecord, 0, len(f.records))
	for _, r := range f.records {
		out = append(out, *r)
	}
	return out, nil
}

func parsedOutcome() *models.MatchOutcome {
	return &models.MatchOutcome{
		State: models.StateParsed,
		Result: &models.MatchResult{
			OverallScore:    82,
			Strengths:       []string{"Go"},
			Weaknesses:      []string{},
			MissingKeywords: []string{"Kafka"},
			Verdict:         "Strong fit",
		},
	}
}

func newTestApp(routes Routes) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	routes.Register(app)
	return app
}

type formFile struct {
	field       string
	name        string
	contentType string
	content     []byte
}

func multipartRequest(t *testing.T, target string, fields map[string]string, file *formFile) *http.Request {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}

	if file != nil {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", `form-data; name="`+file.field+`"; filename="`+file.name+`"`)
		header.Set("Content-Type", file.contentType)
		part, err := writer.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write(file.content)
		require.NoError(t, err)
	}

	require.NoError(t, writer.Close())

	req, err := http.NewRequest(http.MethodPost, target, body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func jsonRequest(t *testing.T, method, target string, payload any) *http.Request {
	t.Helper()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, target, body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func doRequest(t *testing.T, app *fiber.App, req *http.Request) (*http.Response, map[string]any) {
	t.Helper()

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var body map[string]any
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &body), string(raw))
	}
	return resp, body
}
