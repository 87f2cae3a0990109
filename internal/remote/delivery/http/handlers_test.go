package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/amankumarsingh77/veda-gateway/internal/config"
	"github.com/amankumarsingh77/veda-gateway/internal/models"
	"github.com/amankumarsingh77/veda-gateway/internal/remote"
	"github.com/amankumarsingh77/veda-gateway/pkg/logger"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRemote struct {
	connected  bool
	connectErr error
	genErr     error
	gotParams  remote.GenerateParams
	gotOutput  string
}

func (s *stubRemote) Connect(ctx context.Context, rawURL string) (*models.RemoteState, error) {
	if strings.TrimSpace(rawURL) == "" {
		return nil, remote.ErrEmptyURL
	}
	if s.connectErr != nil {
		return nil, s.connectErr
	}
	s.connected = true
	return &models.RemoteState{Connected: true, URL: "https://" + rawURL}, nil
}

func (s *stubRemote) Disconnect() { s.connected = false }

func (s *stubRemote) State() *models.RemoteState {
	return &models.RemoteState{Connected: s.connected}
}

func (s *stubRemote) IsConnected() bool { return s.connected }

func (s *stubRemote) Generate(ctx context.Context, params remote.GenerateParams, outputPath string) (*models.GenerationResult, error) {
	s.gotParams = params
	s.gotOutput = outputPath
	if s.genErr != nil {
		return nil, s.genErr
	}
	return &models.GenerationResult{Status: "Done!", VideoPath: outputPath}, nil
}

func newTestServer(uc remote.UseCase) *echo.Echo {
	cfg := &config.Config{
		Remote:  config.RemoteConfig{DefaultFrames: 16},
		Outputs: config.OutputsConfig{Dir: "outputs/api"},
	}
	e := echo.New()
	MapRemoteRoutes(e.Group("/api/remote"), NewRemoteHandler(cfg, uc, logger.NewNopLogger()))
	return e
}

func post(e *echo.Echo, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestConnectAndState(t *testing.T) {
	uc := &stubRemote{}
	e := newTestServer(uc)

	rec := post(e, "/api/remote/connect", `{"url":"abcd.gradio.live"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var state models.RemoteState
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &state))
	assert.True(t, state.Connected)
	assert.Equal(t, "https://abcd.gradio.live", state.URL)

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/remote", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"connected":true`)

	rec = post(e, "/api/remote/disconnect", `{}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, uc.connected)
}

func TestConnect_Errors(t *testing.T) {
	e := newTestServer(&stubRemote{})
	rec := post(e, "/api/remote/connect", `{"url":"  "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Please enter a remote URL")

	e = newTestServer(&stubRemote{connectErr: errors.New("dial tcp: no such host")})
	rec = post(e, "/api/remote/connect", `{"url":"gone.gradio.live"}`)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "Connection failed: dial tcp: no such host")
}

func TestGenerate_Defaults(t *testing.T) {
	uc := &stubRemote{connected: true}
	e := newTestServer(uc)

	rec := post(e, "/api/remote/generate", `{"prompt":"neon city","style":"unknown"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, remote.GenerateParams{Prompt: "neon city", Style: "cinematic", Frames: 16, Seed: 42, Upscale: true}, uc.gotParams)
	assert.True(t, strings.HasPrefix(uc.gotOutput, "outputs/api/remote_"))
	assert.True(t, strings.HasSuffix(uc.gotOutput, ".mp4"))

	var res models.GenerationResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "Done!", res.Status)
}

func TestGenerate_Overrides(t *testing.T) {
	uc := &stubRemote{connected: true}
	e := newTestServer(uc)

	rec := post(e, "/api/remote/generate", `{"prompt":"x","style":"Reels","frames":32,"seed":0,"upscale":false}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, remote.GenerateParams{Prompt: "x", Style: "reels", Frames: 32, Seed: 0, Upscale: false}, uc.gotParams)
}

func TestGenerate_Errors(t *testing.T) {
	cases := []struct {
		name      string
		connected bool
		err       error
		body      string
		status    int
	}{
		{"blank prompt", true, nil, `{"prompt":""}`, http.StatusBadRequest},
		{"not connected", false, nil, `{"prompt":"x"}`, http.StatusConflict},
		{"dropped mid-call", true, remote.ErrNotConnected, `{"prompt":"x"}`, http.StatusConflict},
		{"busy", true, fmt.Errorf("%w: queue full", remote.ErrRemoteBusy), `{"prompt":"x"}`, http.StatusServiceUnavailable},
		{"no endpoint", true, fmt.Errorf("%w: Cannot find", remote.ErrEndpointNotFound), `{"prompt":"x"}`, http.StatusBadGateway},
		{"failure", true, errors.New("generation failed: boom"), `{"prompt":"x"}`, http.StatusBadGateway},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := newTestServer(&stubRemote{connected: tc.connected, genErr: tc.err})
			rec := post(e, "/api/remote/generate", tc.body)
			assert.Equal(t, tc.status, rec.Code)
		})
	}
}
