// API service for making raw HTTP requests to a monty server
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/desertthunder/monty/internal/shared"
)

// DefaultBaseURL matches the default server host and port.
const DefaultBaseURL = "http://127.0.0.1:8000"

// APIService provides methods for making raw HTTP requests to the monty API.
type APIService struct {
	baseURL    string
	httpClient *http.Client
}

// NewAPIService creates a new API service instance. An empty baseURL uses [DefaultBaseURL].
func NewAPIService(baseURL string, client *http.Client) *APIService {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &APIService{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: client,
	}
}

// BaseURL returns the server address requests are sent to.
func (a *APIService) BaseURL() string {
	return a.baseURL
}

// APIResponse represents a raw API response with status and body.
type APIResponse struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	IsJSON     bool
	JSONData   any
}

// Detail returns the "detail" field of a JSON error body, or an empty string.
func (r *APIResponse) Detail() string {
	if m, ok := r.JSONData.(map[string]any); ok {
		if d, ok := m["detail"].(string); ok {
			return d
		}
	}
	return ""
}

// Err returns an error wrapping [shared.ErrAPIRequest] for 4xx and 5xx responses.
func (r *APIResponse) Err() error {
	if r.StatusCode < 400 {
		return nil
	}
	if d := r.Detail(); d != "" {
		return fmt.Errorf("%w: status %d: %s", shared.ErrAPIRequest, r.StatusCode, d)
	}
	return fmt.Errorf("%w: status %d", shared.ErrAPIRequest, r.StatusCode)
}

// ResourcePath builds the path of a resource route, e.g. ResourcePath("albums", "name", "Let%")
// returns "/albums/v1/name/Let%25". Empty kind and key address the collection.
func ResourcePath(resource, kind, key string) string {
	p := "/" + resource + "/v1"
	if kind == "" {
		return p
	}
	p += "/" + kind
	if key != "" {
		p += "/" + url.PathEscape(key)
	}
	return p
}

// Get performs a GET request to the specified path and returns the raw response.
func (a *APIService) Get(ctx context.Context, path string) (*APIResponse, error) {
	return a.do(ctx, http.MethodGet, path, nil)
}

// Post performs a POST request with the given JSON data and returns the raw response.
func (a *APIService) Post(ctx context.Context, path string, data []byte) (*APIResponse, error) {
	return a.do(ctx, http.MethodPost, path, data)
}

// Put performs a PUT request with the given JSON data and returns the raw response.
func (a *APIService) Put(ctx context.Context, path string, data []byte) (*APIResponse, error) {
	return a.do(ctx, http.MethodPut, path, data)
}

// Delete performs a DELETE request to the specified path and returns the raw response.
func (a *APIService) Delete(ctx context.Context, path string) (*APIResponse, error) {
	return a.do(ctx, http.MethodDelete, path, nil)
}

// Health fetches GET /health and fails with [shared.ErrServiceUnavailable] unless the server reports ok.
func (a *APIService) Health(ctx context.Context) (*APIResponse, error) {
	resp, err := a.Get(ctx, "/health")
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return resp, fmt.Errorf("%w: health check returned %d", shared.ErrServiceUnavailable, resp.StatusCode)
	}
	return resp, nil
}

func (a *APIService) do(ctx context.Context, method, path string, data []byte) (*APIResponse, error) {
	fullURL := a.baseURL + path

	var body io.Reader
	if data != nil {
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if data != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	apiResp := &APIResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       raw,
	}

	var jsonData any
	if err := json.Unmarshal(raw, &jsonData); err == nil {
		apiResp.IsJSON = true
		apiResp.JSONData = jsonData
	}

	return apiResp, nil
}
