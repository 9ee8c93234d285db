// Package backend implements the HTTP client for the tagging service.
// The service exposes a small JSON API (health probe, single-item
// tagging, folder listing, model inventory); everything model- or
// extraction-related happens on the other side of it.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	nethttp "net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"tagsense/internal/config"
	serr "tagsense/internal/errors"
	"tagsense/internal/log"
	"tagsense/pkg/types"
)

// retryLogger implements the retryablehttp.LeveledLogger interface
type retryLogger struct{}

func (l *retryLogger) Error(msg string, keysAndValues ...interface{}) {
	log.Error("http retry: %s %v", msg, keysAndValues)
}

func (l *retryLogger) Warn(msg string, keysAndValues ...interface{}) {
	log.Warn("http retry: %s %v", msg, keysAndValues)
}

func (l *retryLogger) Info(msg string, keysAndValues ...interface{})  {}
func (l *retryLogger) Debug(msg string, keysAndValues ...interface{}) {}

// Client talks to the tagging backend over HTTP
type Client struct {
	httpClient *nethttp.Client
	baseURL    string
}

// NewClient creates a new backend client from configuration
func NewClient(cfg *config.Config) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = cfg.Backend.RetryMax
	retryClient.RetryWaitMin = 500 * time.Millisecond
	retryClient.RetryWaitMax = 5 * time.Second
	retryClient.HTTPClient.Timeout = time.Duration(cfg.Backend.TimeoutSeconds) * time.Second
	retryClient.Logger = &retryLogger{}

	return &Client{
		httpClient: retryClient.StandardClient(),
		baseURL:    strings.TrimSuffix(cfg.Backend.URL, "/"),
	}
}

// doJSON performs a request against the backend and decodes the JSON
// response body into out. Transport failures come back as connectivity
// errors; HTTP-level failures are left to the caller to interpret since
// their meaning differs per endpoint.
func (c *Client) doJSON(ctx context.Context, method, path string, body interface{}, out interface{}) (int, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return 0, serr.Wrap(err, "failed to encode request")
		}
		reader = bytes.NewReader(payload)
	}

	req, err := nethttp.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, serr.Wrap(err, "failed to build request")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, serr.NewConnectivityError("backend unreachable", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, serr.NewConnectivityError("failed to read backend response", err)
	}

	if out != nil && len(data) > 0 {
		// The backend returns a JSON body even on error statuses
		if err := json.Unmarshal(data, out); err != nil {
			return resp.StatusCode, serr.Newf("malformed backend response: %v", err)
		}
	}

	return resp.StatusCode, nil
}

// HealthCheck queries the backend's two-tier health probe. A transport
// failure means the backend itself is down; a successful probe reports
// whether the model service behind it answered.
func (c *Client) HealthCheck(ctx context.Context) (types.HealthReport, error) {
	var payload struct {
		Status          string `json:"status"`
		OllamaConnected bool   `json:"ollama_connected"`
	}

	status, err := c.doJSON(ctx, nethttp.MethodGet, "/api/health", nil, &payload)
	if err != nil {
		return types.HealthReport{}, err
	}
	if status != nethttp.StatusOK {
		return types.HealthReport{}, serr.NewConnectivityError(
			fmt.Sprintf("health probe returned status %d", status), nil)
	}

	return types.HealthReport{
		BackendReachable: true,
		ModelReachable:   payload.OllamaConnected,
		Message:          payload.Status,
	}, nil
}

// ProcessItem asks the backend to tag a single file. Item-level
// failures (unsupported type, extraction failure, model error) come back
// inside the payload and are reported through ItemResult, not as an
// error; only transport-level problems return an error.
func (c *Client) ProcessItem(ctx context.Context, path string, prompt string) (types.ItemResult, error) {
	reqBody := map[string]string{"file_path": path}
	if prompt != "" {
		reqBody["prompt"] = prompt
	}

	var payload struct {
		Success bool     `json:"success"`
		Model   string   `json:"model"`
		Tags    []string `json:"tags"`
		Error   string   `json:"error"`
	}

	status, err := c.doJSON(ctx, nethttp.MethodPost, "/api/process-file", reqBody, &payload)
	if err != nil {
		return types.ItemResult{}, err
	}

	if status != nethttp.StatusOK && payload.Error == "" {
		payload.Error = fmt.Sprintf("backend returned status %d", status)
	}

	log.LogWithFields(log.F("path", path), log.F("tags", len(payload.Tags))).
		Debugf("item processed, success=%v", payload.Success)

	return types.ItemResult{
		Success: payload.Success,
		Model:   payload.Model,
		Tags:    payload.Tags,
		Error:   payload.Error,
	}, nil
}

// ListFolder asks the backend for the supported files under a folder.
// Any failure here is an enumeration error to the caller, except
// transport failures which keep their connectivity flavor.
func (c *Client) ListFolder(ctx context.Context, path string) ([]string, error) {
	reqBody := map[string]string{"folder_path": path}

	var payload struct {
		Success bool     `json:"success"`
		Files   []string `json:"files"`
		Count   int      `json:"count"`
		Error   string   `json:"error"`
	}

	status, err := c.doJSON(ctx, nethttp.MethodPost, "/api/get-folder-files", reqBody, &payload)
	if err != nil {
		return nil, err
	}

	if status != nethttp.StatusOK || !payload.Success {
		msg := payload.Error
		if msg == "" {
			msg = fmt.Sprintf("backend returned status %d", status)
		}
		return nil, serr.NewEnumerationError("folder listing failed", path, serr.New(msg))
	}

	return payload.Files, nil
}

// ModelInventory reports which models the backend has available
type ModelInventory struct {
	AvailableModels []string `json:"available_models"`
	TextAvailable   bool     `json:"tinyllama_available"`
	VisionAvailable bool     `json:"vision_available"`
}

// AvailableModels queries the backend's model inventory
func (c *Client) AvailableModels(ctx context.Context) (ModelInventory, error) {
	var inv ModelInventory
	status, err := c.doJSON(ctx, nethttp.MethodGet, "/api/models", nil, &inv)
	if err != nil {
		return ModelInventory{}, err
	}
	if status != nethttp.StatusOK {
		return ModelInventory{}, serr.NewConnectivityError(
			fmt.Sprintf("model inventory returned status %d", status), nil)
	}
	return inv, nil
}

// SupportedTypes queries the extension sets the backend can extract
// content from
func (c *Client) SupportedTypes(ctx context.Context) (text []string, image []string, err error) {
	var payload struct {
		TextExtensions  []string `json:"text_extensions"`
		ImageExtensions []string `json:"image_extensions"`
		AllExtensions   []string `json:"all_extensions"`
	}
	status, err := c.doJSON(ctx, nethttp.MethodGet, "/api/supported-types", nil, &payload)
	if err != nil {
		return nil, nil, err
	}
	if status != nethttp.StatusOK {
		return nil, nil, serr.NewConnectivityError(
			fmt.Sprintf("supported types returned status %d", status), nil)
	}
	return payload.TextExtensions, payload.ImageExtensions, nil
}
