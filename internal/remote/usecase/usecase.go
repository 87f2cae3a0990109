package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/amankumarsingh77/veda-gateway/internal/config"
	"github.com/amankumarsingh77/veda-gateway/internal/models"
	"github.com/amankumarsingh77/veda-gateway/internal/remote"
	"github.com/amankumarsingh77/veda-gateway/pkg/gradio"
	"github.com/amankumarsingh77/veda-gateway/pkg/logger"
)

const (
	connectTimeout  = 30 * time.Second
	generatedStatus = "Generated!"
)

// candidate is one guess at where the remote app exposes its generate function.
type candidate struct {
	endpoint    gradio.Endpoint
	firstListed bool
}

var endpointCandidates = []candidate{
	{firstListed: true},
	{endpoint: gradio.Named("/generate")},
	{endpoint: gradio.Named("/generate_0")},
	{endpoint: gradio.Named("/generate_video")},
	{endpoint: gradio.Index(0)},
}

type remoteUC struct {
	cfg        *config.Config
	httpClient *http.Client
	logger     logger.Logger

	mu     sync.RWMutex
	client *gradio.Client
	url    string
}

func NewRemoteUseCase(cfg *config.Config, httpClient *http.Client, log logger.Logger) remote.UseCase {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: time.Duration(cfg.Remote.RequestTimeout) * time.Second}
	}
	return &remoteUC{
		cfg:        cfg,
		httpClient: httpClient,
		logger:     log,
	}
}

// NormalizeURL trims the URL and adds https:// when no scheme is given.
func NormalizeURL(rawURL string) (string, error) {
	u := strings.TrimSpace(rawURL)
	if u == "" {
		return "", remote.ErrEmptyURL
	}
	if !strings.HasPrefix(u, "http") {
		u = "https://" + u
	}
	return u, nil
}

func (r *remoteUC) Connect(ctx context.Context, rawURL string) (*models.RemoteState, error) {
	u, err := NormalizeURL(rawURL)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	client, err := gradio.Dial(ctx, u, r.httpClient)

	r.mu.Lock()
	defer r.mu.Unlock()
	if err != nil {
		r.client = nil
		r.url = ""
		r.logger.Warnf("Connect - remote %s unreachable: %v", u, err)
		return nil, fmt.Errorf("connection failed: %w", err)
	}
	r.client = client
	r.url = u
	r.logger.Infof("Connected to remote backend %s (gradio %s)", u, client.Version())
	return &models.RemoteState{Connected: true, URL: u, Message: "Connected to remote backend"}, nil
}

func (r *remoteUC) Disconnect() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.client != nil {
		r.logger.Infof("Disconnected from remote backend %s", r.url)
	}
	r.client = nil
	r.url = ""
}

func (r *remoteUC) State() *models.RemoteState {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.client == nil {
		return &models.RemoteState{Connected: false, Message: "Not connected"}
	}
	return &models.RemoteState{Connected: true, URL: r.url}
}

func (r *remoteUC) IsConnected() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.client != nil
}

func (r *remoteUC) current() *gradio.Client {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.client
}

func (r *remoteUC) Generate(ctx context.Context, params remote.GenerateParams, outputPath string) (*models.GenerationResult, error) {
	client := r.current()
	if client == nil {
		return nil, remote.ErrNotConnected
	}

	args := []interface{}{
		params.Prompt,
		strings.ToLower(params.Style),
		params.Frames,
		params.Seed,
		params.Upscale,
	}

	var (
		out     []interface{}
		found   bool
		lastErr error
	)
	for _, cand := range endpointCandidates {
		ep := cand.endpoint
		if cand.firstListed {
			// metadata failures only mean there is no default to try
			def, err := client.DefaultEndpoint(ctx)
			if err != nil {
				r.logger.Debugf("Generate - no default endpoint: %v", err)
				lastErr = err
				continue
			}
			ep = def
		}

		res, err := client.Predict(ctx, ep, args...)
		if err != nil {
			if isNotFound(err) {
				r.logger.Debugf("Generate - endpoint %s not available: %v", ep, err)
				lastErr = err
				continue
			}
			return nil, classify(err)
		}
		r.logger.Debugf("Generate - remote answered on %s", ep)
		out = res
		found = true
		break
	}
	if !found {
		return nil, fmt.Errorf("%w: %v", remote.ErrEndpointNotFound, lastErr)
	}

	return r.interpret(ctx, client, out, outputPath)
}

// interpret maps the remote outputs onto a status text and a local video path.
// The app normally answers with (status_text, video).
func (r *remoteUC) interpret(ctx context.Context, client *gradio.Client, out []interface{}, outputPath string) (*models.GenerationResult, error) {
	if len(out) >= 2 {
		status := fmt.Sprint(out[0])
		if s, ok := out[0].(string); ok {
			status = s
		}
		if v, ok := out[1].(string); out[1] == nil || (ok && v == "") {
			return &models.GenerationResult{Status: status}, nil
		}
		path, err := r.fetchVideo(ctx, client, out[1], outputPath)
		if err != nil {
			return nil, err
		}
		return &models.GenerationResult{Status: status, VideoPath: path}, nil
	}
	if len(out) == 1 {
		if s, ok := out[0].(string); ok && s != "" {
			path, err := r.fetchVideo(ctx, client, s, outputPath)
			if err != nil {
				return nil, err
			}
			return &models.GenerationResult{Status: generatedStatus, VideoPath: path}, nil
		}
	}
	return &models.GenerationResult{Status: generatedStatus}, nil
}

func (r *remoteUC) fetchVideo(ctx context.Context, client *gradio.Client, video interface{}, outputPath string) (string, error) {
	var file gradio.FileData
	switch v := video.(type) {
	case string:
		if _, err := os.Stat(v); err == nil {
			return v, nil
		}
		file.Path = v
	case map[string]interface{}:
		// gr.Video answers {"video": FileData, "subtitles": ...}
		if inner, ok := v["video"]; ok && inner != nil {
			return r.fetchVideo(ctx, client, inner, outputPath)
		}
		b, err := json.Marshal(v)
		if err != nil {
			return "", fmt.Errorf("unexpected video payload: %w", err)
		}
		if err = json.Unmarshal(b, &file); err != nil {
			return "", fmt.Errorf("unexpected video payload: %w", err)
		}
	default:
		return "", fmt.Errorf("unexpected video payload of type %T", video)
	}
	if file.Path == "" && file.URL == "" {
		return "", remote.ErrNoVideo
	}
	if outputPath == "" {
		return client.FileURL(file), nil
	}
	if err := client.Download(ctx, client.FileURL(file), outputPath); err != nil {
		return "", err
	}
	return outputPath, nil
}

func isNotFound(err error) bool {
	var nf *gradio.EndpointNotFoundError
	if errors.As(err, &nf) || errors.Is(err, gradio.ErrNoEndpoints) {
		return true
	}
	var appErr *gradio.AppError
	if errors.As(err, &appErr) && appErr.StatusCode == http.StatusNotFound {
		return true
	}
	return strings.Contains(err.Error(), "Cannot find")
}

func classify(err error) error {
	if strings.Contains(strings.ToLower(err.Error()), "queue") {
		return fmt.Errorf("%w: %v", remote.ErrRemoteBusy, err)
	}
	return fmt.Errorf("generation failed: %w", err)
}
