package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/amankumarsingh77/veda-gateway/internal/generation"
	"github.com/amankumarsingh77/veda-gateway/internal/models"
	"github.com/amankumarsingh77/veda-gateway/pkg/logger"
	"github.com/amankumarsingh77/veda-gateway/pkg/utils"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubUseCase struct {
	submitErr error
	jobs      map[string]*models.GenerationJob
	download  *generation.Download
	dlErr     error
	lastPage  *utils.Pagination
	submitted *models.GenerateRequest
}

func (s *stubUseCase) Submit(ctx context.Context, input *models.GenerateRequest) (*models.GenerationJob, error) {
	if s.submitErr != nil {
		return nil, s.submitErr
	}
	if err := utils.ValidateStruct(ctx, input); err != nil {
		return nil, err
	}
	s.submitted = input
	return &models.GenerationJob{JobID: "abc12345", Status: models.JobStatusQueued}, nil
}

func (s *stubUseCase) GetJob(ctx context.Context, jobID string) (*models.GenerationJob, error) {
	job, ok := s.jobs[jobID]
	if !ok {
		return nil, generation.ErrJobNotFound
	}
	return job, nil
}

func (s *stubUseCase) ListJobs(ctx context.Context, pagination *utils.Pagination) (*models.JobList, error) {
	s.lastPage = pagination
	return &models.JobList{Jobs: []*models.GenerationJob{}, Page: pagination.Page, PageSize: pagination.Size}, nil
}

func (s *stubUseCase) ResolveDownload(ctx context.Context, jobID string) (*generation.Download, error) {
	if s.dlErr != nil {
		return nil, s.dlErr
	}
	return s.download, nil
}

func (s *stubUseCase) Process(ctx context.Context, jobID string) error { return nil }

func newTestServer(uc generation.UseCase) *echo.Echo {
	e := echo.New()
	MapGenerationRoutes(e.Group("/api"), NewGenerationHandler(uc, logger.NewNopLogger()))
	return e
}

func do(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func detail(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Detail string `json:"detail"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Detail
}

func TestGenerate(t *testing.T) {
	uc := &stubUseCase{}
	e := newTestServer(uc)

	rec := do(e, http.MethodPost, "/api/generate", `{"prompt":"a fox","style":"nature","seed":7,"num_frames":24}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.JobResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "abc12345", resp.JobID)
	assert.Equal(t, models.JobStatusQueued, resp.Status)
	assert.Equal(t, "Job submitted. Poll GET /api/status/abc12345 for progress.", resp.Message)

	require.NotNil(t, uc.submitted.Seed)
	assert.Equal(t, int64(7), *uc.submitted.Seed)
	require.NotNil(t, uc.submitted.NumFrames)
	assert.Equal(t, 24, *uc.submitted.NumFrames)
}

func TestGenerate_BadRequests(t *testing.T) {
	e := newTestServer(&stubUseCase{})

	rec := do(e, http.MethodPost, "/api/generate", `{"prompt":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(e, http.MethodPost, "/api/generate", `{"prompt":"   "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(e, http.MethodPost, "/api/generate", `{"prompt":"x","num_frames":500}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGenerate_QueueFull(t *testing.T) {
	e := newTestServer(&stubUseCase{submitErr: generation.ErrQueueFull})
	rec := do(e, http.MethodPost, "/api/generate", `{"prompt":"x"}`)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestGenerate_InternalError(t *testing.T) {
	e := newTestServer(&stubUseCase{submitErr: errors.New("redis down")})
	rec := do(e, http.MethodPost, "/api/generate", `{"prompt":"x"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "redis down")
}

func TestGetStatus(t *testing.T) {
	uc := &stubUseCase{jobs: map[string]*models.GenerationJob{
		"done0001": {JobID: "done0001", Status: models.JobStatusCompleted, ResultPath: "outputs/api/done0001.mp4", DurationSeconds: 42.3},
		"wait0001": {JobID: "wait0001", Status: models.JobStatusQueued},
	}}
	e := newTestServer(uc)

	rec := do(e, http.MethodGet, "/api/status/done0001", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "completed", body["status"])
	assert.Equal(t, "outputs/api/done0001.mp4", body["result_path"])
	assert.Equal(t, 42.3, body["duration_seconds"])

	rec = do(e, http.MethodGet, "/api/status/wait0001", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body = map[string]interface{}{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Nil(t, body["duration_seconds"])
	assert.Nil(t, body["error"])

	rec = do(e, http.MethodGet, "/api/status/nope0001", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Job nope0001 not found", detail(t, rec))
}

func TestDownload(t *testing.T) {
	local := filepath.Join(t.TempDir(), "abc12345.mp4")
	require.NoError(t, os.WriteFile(local, []byte("mp4-bytes"), 0o644))

	e := newTestServer(&stubUseCase{download: &generation.Download{FileName: "veda_abc12345.mp4", LocalPath: local}})
	rec := do(e, http.MethodGet, "/api/download/abc12345", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "video/mp4", rec.Header().Get(echo.HeaderContentType))
	assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), "veda_abc12345.mp4")
	assert.Equal(t, "mp4-bytes", rec.Body.String())
}

func TestDownload_Redirect(t *testing.T) {
	e := newTestServer(&stubUseCase{download: &generation.Download{FileName: "veda_abc12345.mp4", RedirectURL: "https://s3.example/videos/abc12345.mp4?sig=1"}})
	rec := do(e, http.MethodGet, "/api/download/abc12345", "")
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "https://s3.example/videos/abc12345.mp4?sig=1", rec.Header().Get(echo.HeaderLocation))
}

func TestDownload_Errors(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		detail string
	}{
		{"unknown job", generation.ErrJobNotFound, http.StatusNotFound, "Job abc12345 not found"},
		{"not completed", &generation.NotCompletedError{JobID: "abc12345", Status: models.JobStatusRunning}, http.StatusBadRequest, "Job abc12345 is not completed (status: running)"},
		{"file missing", generation.ErrVideoNotFound, http.StatusNotFound, "Video file not found"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := newTestServer(&stubUseCase{dlErr: tc.err})
			rec := do(e, http.MethodGet, "/api/download/abc12345", "")
			assert.Equal(t, tc.status, rec.Code)
			assert.Equal(t, tc.detail, detail(t, rec))
		})
	}
}

func TestListJobs(t *testing.T) {
	uc := &stubUseCase{}
	e := newTestServer(uc)

	rec := do(e, http.MethodGet, "/api/jobs?page=2&size=5", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, uc.lastPage.Page)
	assert.Equal(t, 5, uc.lastPage.Size)

	rec = do(e, http.MethodGet, "/api/jobs?page=x", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
