package cmd

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/amankumarsingh77/veda-gateway/internal/models"
	"github.com/amankumarsingh77/veda-gateway/internal/remote"
	"github.com/amankumarsingh77/veda-gateway/pkg/utils"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitCommand(t *testing.T) {
	resetViper()

	var got models.GenerateRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/generate", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(models.JobResponse{JobID: "ab12cd34", Status: models.JobStatusQueued})
	}))
	defer server.Close()

	viper.Set("url", server.URL)
	viper.Set("token", "test-token")

	out, err := execute(t, "submit", "-p", "a koi pond at dusk", "-s", "nature", "--seed", "7")
	require.NoError(t, err)
	assert.Contains(t, out, "Job ID: ab12cd34")
	assert.Contains(t, out, "Status: queued")

	assert.Equal(t, "a koi pond at dusk", got.Prompt)
	assert.Equal(t, "nature", got.Style)
	require.NotNil(t, got.Seed)
	assert.Equal(t, int64(7), *got.Seed)
	assert.Nil(t, got.NumFrames)
}

func TestSubmitCommand_RequiresPrompt(t *testing.T) {
	resetViper()
	_, err := execute(t, "submit")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--prompt is required")
}

func TestSubmitCommand_APIError(t *testing.T) {
	resetViper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"detail":"generation queue is full"}`))
	}))
	defer server.Close()
	viper.Set("url", server.URL)

	_, err := execute(t, "submit", "-p", "x")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusServiceUnavailable, apiErr.StatusCode)
	assert.Equal(t, "generation queue is full", apiErr.Message)
}

func TestSubmitCommand_Wait(t *testing.T) {
	resetViper()
	old := pollInterval
	pollInterval = 10 * time.Millisecond
	defer func() { pollInterval = old }()

	var mu sync.Mutex
	polls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			_ = json.NewEncoder(w).Encode(models.JobResponse{JobID: "ab12cd34", Status: models.JobStatusQueued})
			return
		}
		mu.Lock()
		polls++
		n := polls
		mu.Unlock()
		st := models.JobStatusResponse{JobID: "ab12cd34", Status: models.JobStatusRunning}
		if n >= 3 {
			path, d := "outputs/api/ab12cd34.mp4", 12.3
			st.Status = models.JobStatusCompleted
			st.ResultPath = &path
			st.DurationSeconds = &d
		}
		_ = json.NewEncoder(w).Encode(st)
	}))
	defer server.Close()
	viper.Set("url", server.URL)

	out, err := execute(t, "submit", "-p", "x", "--wait")
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(out, "... running"))
	assert.Contains(t, out, "... completed")
	assert.Contains(t, out, "Duration: 12.3s")
	assert.Contains(t, out, "Result:   outputs/api/ab12cd34.mp4")
}

func TestStatusCommand(t *testing.T) {
	resetViper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/status/ab12cd34", r.URL.Path)
		msg := "remote backend is busy"
		_ = json.NewEncoder(w).Encode(models.JobStatusResponse{JobID: "ab12cd34", Status: models.JobStatusFailed, Error: &msg})
	}))
	defer server.Close()
	viper.Set("url", server.URL)

	out, err := execute(t, "status", "ab12cd34")
	require.NoError(t, err)
	assert.Contains(t, out, "Status:   failed")
	assert.Contains(t, out, "Error:    remote backend is busy")
	assert.NotContains(t, out, "Result:")
	assert.NotContains(t, out, "Duration:")
}

func TestStatusCommand_NotFound(t *testing.T) {
	resetViper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"detail":"Job nope not found"}`))
	}))
	defer server.Close()
	viper.Set("url", server.URL)

	_, err := execute(t, "status", "nope")
	require.Error(t, err)
	assert.Equal(t, "API error (404): Job nope not found", err.Error())
}

func TestStylesCommand(t *testing.T) {
	resetViper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(models.StylesResponse{Styles: []string{"aesthetic", "cinematic"}})
	}))
	defer server.Close()
	viper.Set("url", server.URL)

	out, err := execute(t, "styles")
	require.NoError(t, err)
	assert.Equal(t, "aesthetic\ncinematic\n", out)
}

func TestDownloadCommand_FollowsRedirect(t *testing.T) {
	resetViper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/download/ab12cd34", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/bucket/videos/ab12cd34.mp4", http.StatusFound)
	})
	mux.HandleFunc("/bucket/videos/ab12cd34.mp4", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "video/mp4")
		_, _ = w.Write([]byte("mp4-bytes"))
	})
	server := httptest.NewServer(mux)
	defer server.Close()
	viper.Set("url", server.URL)

	dst := filepath.Join(t.TempDir(), "out.mp4")
	out, err := execute(t, "download", "ab12cd34", "-o", dst)
	require.NoError(t, err)
	assert.Contains(t, out, "(9 bytes)")

	b, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "mp4-bytes", string(b))
}

func TestDownloadCommand_NotCompleted(t *testing.T) {
	resetViper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"detail":"Job ab12cd34 is not completed (status: running)"}`))
	}))
	defer server.Close()
	viper.Set("url", server.URL)

	dst := filepath.Join(t.TempDir(), "out.mp4")
	_, err := execute(t, "download", "ab12cd34", "-o", dst)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is not completed")
	_, statErr := os.Stat(dst)
	assert.True(t, os.IsNotExist(statErr))
}

func TestTokenCommand(t *testing.T) {
	resetViper()
	viper.Set("secret", "s3cret")

	out, err := execute(t, "token", "--subject", "ci", "--ttl", "1h")
	require.NoError(t, err)

	claims, err := utils.ValidateToken(strings.TrimSpace(out), "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "ci", claims.Subject)
}

func TestTokenCommand_RequiresSecret(t *testing.T) {
	resetViper()
	_, err := execute(t, "token")
	assert.Error(t, err)
}

// gradioApp fakes a remote notebook exposing a single /generate endpoint.
func gradioApp(t *testing.T, result string) (*httptest.Server, func() []interface{}) {
	t.Helper()
	var (
		mu   sync.Mutex
		args []interface{}
	)
	mux := http.NewServeMux()
	mux.HandleFunc("/config", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"version":"4.44.1"}`))
	})
	mux.HandleFunc("/info", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"named_endpoints":{"/generate":{}}}`))
	})
	mux.HandleFunc("/call/generate", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Data []interface{} `json:"data"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		mu.Lock()
		args = body.Data
		mu.Unlock()
		_, _ = w.Write([]byte(`{"event_id":"e1"}`))
	})
	mux.HandleFunc("/call/generate/e1", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("event: complete\ndata: " + result + "\n\n"))
	})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/file=") {
			_, _ = w.Write([]byte("mp4:" + strings.TrimPrefix(r.URL.Path, "/file=")))
			return
		}
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(server.Close)
	return server, func() []interface{} {
		mu.Lock()
		defer mu.Unlock()
		return args
	}
}

func TestGenerateCommand(t *testing.T) {
	resetViper()
	server, sent := gradioApp(t, `["Generated!", {"path": "/tmp/gradio/clip.mp4"}]`)

	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	defer func() { _ = os.Chdir(wd) }()
	cwd, err := os.Getwd()
	require.NoError(t, err)

	out, err := execute(t, "generate", "--remote", server.URL, "-p", "koi pond", "-s", "Nature",
		"--frames", "24", "--seed", "7", "--upscale=false", "-o", "koi.mp4")
	require.NoError(t, err)

	abs := filepath.Join(cwd, "koi.mp4")
	assert.Contains(t, out, "Connected to "+server.URL)
	assert.Contains(t, out, "Generated!")
	assert.Contains(t, out, "Saved "+abs)

	b, err := os.ReadFile(abs)
	require.NoError(t, err)
	assert.Equal(t, "mp4:/tmp/gradio/clip.mp4", string(b))

	// JSON numbers decode as float64
	assert.Equal(t, []interface{}{"koi pond", "nature", float64(24), float64(7), false}, sent())
}

func TestGenerateCommand_NoVideo(t *testing.T) {
	resetViper()
	server, _ := gradioApp(t, `["Error: prompt rejected", null]`)

	out, err := execute(t, "generate", "--remote", server.URL, "-p", "x", "-o", filepath.Join(t.TempDir(), "x.mp4"))
	require.Error(t, err)
	assert.ErrorIs(t, err, remote.ErrNoVideo)
	assert.Contains(t, out, "Error: prompt rejected")
}

func TestGenerateCommand_RequiresRemote(t *testing.T) {
	resetViper()
	_, err := execute(t, "generate", "-p", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "remote")
}
