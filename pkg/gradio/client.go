// Package gradio is a small HTTP client for apps served by Gradio.
//
// It covers what the gateway needs from a remote notebook: probing the app
// config, listing endpoints, calling a function by api name (queued /call
// protocol with a server-sent event result stream) or by function index
// (/run/predict), and fetching files the app produced.
package gradio

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const maxEventLine = 4 << 20

var ErrNoEndpoints = errors.New("app exposes no named endpoints")

// EndpointNotFoundError is returned when the app has no function under the requested name or index.
type EndpointNotFoundError struct {
	Endpoint Endpoint
}

func (e *EndpointNotFoundError) Error() string {
	if e.Endpoint.Name != "" {
		return fmt.Sprintf("Cannot find a function with api_name: %s", e.Endpoint.Name)
	}
	return fmt.Sprintf("Cannot find a function with fn_index: %d", e.Endpoint.Index)
}

// AppError carries an error the app itself reported for a call.
type AppError struct {
	StatusCode int
	Message    string
}

func (e *AppError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("gradio app error (status %d): %s", e.StatusCode, e.Message)
	}
	return "gradio app error: " + e.Message
}

// Endpoint selects a function either by api name ("/generate") or by index.
type Endpoint struct {
	Name  string
	Index int
}

func Named(name string) Endpoint {
	if !strings.HasPrefix(name, "/") {
		name = "/" + name
	}
	return Endpoint{Name: name}
}

func Index(i int) Endpoint {
	return Endpoint{Index: i}
}

func (e Endpoint) String() string {
	if e.Name != "" {
		return e.Name
	}
	return fmt.Sprintf("fn_index=%d", e.Index)
}

// FileData is the payload Gradio uses for files in results.
type FileData struct {
	Path     string `json:"path"`
	URL      string `json:"url,omitempty"`
	OrigName string `json:"orig_name,omitempty"`
	MimeType string `json:"mime_type,omitempty"`
}

type APIInfo struct {
	NamedEndpoints   map[string]json.RawMessage `json:"named_endpoints"`
	UnnamedEndpoints map[string]json.RawMessage `json:"unnamed_endpoints"`
}

// EndpointNames returns the named endpoints sorted by name.
func (i *APIInfo) EndpointNames() []string {
	names := make([]string, 0, len(i.NamedEndpoints))
	for name := range i.NamedEndpoints {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type appConfig struct {
	Version   string `json:"version"`
	APIPrefix string `json:"api_prefix"`
}

type Client struct {
	baseURL    string
	apiPrefix  string
	version    string
	httpClient *http.Client
}

// Dial probes the app config at baseURL and returns a client bound to it.
func Dial(ctx context.Context, baseURL string, httpClient *http.Client) (*Client, error) {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	u, err := url.Parse(baseURL)
	if err != nil || u.Host == "" {
		return nil, fmt.Errorf("invalid url %q", baseURL)
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}

	var cfg appConfig
	if err := c.getJSON(ctx, c.baseURL+"/config", &cfg); err != nil {
		return nil, fmt.Errorf("could not load app config: %w", err)
	}
	c.apiPrefix = strings.TrimRight(cfg.APIPrefix, "/")
	c.version = cfg.Version
	return c, nil
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) Version() string {
	return c.version
}

func (c *Client) apiURL(path string) string {
	return c.baseURL + c.apiPrefix + path
}

func (c *Client) Info(ctx context.Context) (*APIInfo, error) {
	info := &APIInfo{}
	if err := c.getJSON(ctx, c.apiURL("/info"), info); err != nil {
		return nil, fmt.Errorf("could not load api info: %w", err)
	}
	return info, nil
}

// DefaultEndpoint picks the first named endpoint the app reports.
func (c *Client) DefaultEndpoint(ctx context.Context) (Endpoint, error) {
	info, err := c.Info(ctx)
	if err != nil {
		return Endpoint{}, err
	}
	names := info.EndpointNames()
	if len(names) == 0 {
		return Endpoint{}, ErrNoEndpoints
	}
	return Named(names[0]), nil
}

// Predict calls the endpoint with args and returns the output values.
func (c *Client) Predict(ctx context.Context, ep Endpoint, args ...interface{}) ([]interface{}, error) {
	if args == nil {
		args = []interface{}{}
	}
	if ep.Name != "" {
		return c.callNamed(ctx, ep, args)
	}
	return c.runIndexed(ctx, ep, args)
}

func (c *Client) callNamed(ctx context.Context, ep Endpoint, args []interface{}) ([]interface{}, error) {
	callURL := c.apiURL("/call" + ep.Name)
	var submitted struct {
		EventID string `json:"event_id"`
	}
	status, body, err := c.postJSON(ctx, callURL, map[string]interface{}{"data": args})
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return nil, &EndpointNotFoundError{Endpoint: ep}
	}
	if status != http.StatusOK {
		return nil, &AppError{StatusCode: status, Message: detailMessage(body)}
	}
	if err := json.Unmarshal(body, &submitted); err != nil || submitted.EventID == "" {
		return nil, fmt.Errorf("unexpected call response: %s", truncateBody(body))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, callURL+"/"+submitted.EventID, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/event-stream")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to open result stream: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return nil, &EndpointNotFoundError{Endpoint: ep}
	}
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &AppError{StatusCode: resp.StatusCode, Message: detailMessage(b)}
	}
	return readEventStream(resp.Body)
}

// readEventStream consumes the SSE stream until a complete or error event.
func readEventStream(r io.Reader) ([]interface{}, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxEventLine)
	event := ""
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case line == "":
			event = ""
		case strings.HasPrefix(line, "event:"):
			event = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
			switch event {
			case "complete":
				var out []interface{}
				if err := json.Unmarshal([]byte(data), &out); err != nil {
					return nil, fmt.Errorf("malformed result payload: %w", err)
				}
				return out, nil
			case "error":
				return nil, &AppError{Message: eventErrorMessage(data)}
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("result stream broken: %w", err)
	}
	return nil, errors.New("result stream closed before completion")
}

func eventErrorMessage(data string) string {
	if data == "" || data == "null" {
		return "the app raised an error; enable show_error on the remote app for details"
	}
	var s string
	if err := json.Unmarshal([]byte(data), &s); err == nil {
		return s
	}
	return data
}

func (c *Client) runIndexed(ctx context.Context, ep Endpoint, args []interface{}) ([]interface{}, error) {
	status, body, err := c.postJSON(ctx, c.apiURL("/run/predict"), map[string]interface{}{
		"fn_index": ep.Index,
		"data":     args,
	})
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return nil, &EndpointNotFoundError{Endpoint: ep}
	}
	if status != http.StatusOK {
		return nil, &AppError{StatusCode: status, Message: detailMessage(body)}
	}
	var out struct {
		Data  []interface{} `json:"data"`
		Error string        `json:"error"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("unexpected predict response: %s", truncateBody(body))
	}
	if out.Error != "" {
		return nil, &AppError{Message: out.Error}
	}
	return out.Data, nil
}

// FileURL returns where a result file can be downloaded from.
func (c *Client) FileURL(f FileData) string {
	if f.URL != "" {
		return f.URL
	}
	if strings.HasPrefix(f.Path, "http://") || strings.HasPrefix(f.Path, "https://") {
		return f.Path
	}
	return c.apiURL("/file=" + f.Path)
}

// Download writes the file at fileURL to dst.
func (c *Client) Download(ctx context.Context, fileURL, dst string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to download %s: %w", fileURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to download %s: status %d", fileURL, resp.StatusCode)
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	tmp := dst + ".part"
	out, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("failed to create local file: %w", err)
	}
	if _, err = io.Copy(out, resp.Body); err != nil {
		out.Close()
		os.Remove(tmp)
		return fmt.Errorf("failed to write local file: %w", err)
	}
	if err = out.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, dst)
}

func (c *Client) getJSON(ctx context.Context, u string, v interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return &AppError{StatusCode: resp.StatusCode, Message: detailMessage(body)}
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("unexpected response from %s: %w", u, err)
	}
	return nil
}

func (c *Client) postJSON(ctx context.Context, u string, payload interface{}) (int, []byte, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(b))
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, err
	}
	return resp.StatusCode, body, nil
}

func detailMessage(body []byte) string {
	var withDetail struct {
		Detail interface{} `json:"detail"`
		Error  string      `json:"error"`
	}
	if err := json.Unmarshal(body, &withDetail); err == nil {
		if withDetail.Error != "" {
			return withDetail.Error
		}
		if withDetail.Detail != nil {
			return fmt.Sprint(withDetail.Detail)
		}
	}
	return truncateBody(body)
}

func truncateBody(b []byte) string {
	const limit = 200
	s := strings.TrimSpace(string(b))
	if len(s) > limit {
		return s[:limit] + "..."
	}
	return s
}
