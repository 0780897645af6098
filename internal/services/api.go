// Raw HTTP transport for the Navidrome REST API
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const (
	defaultBaseURL = "http://localhost:4533"
	authHeader     = "X-ND-Authorization"
)

// HTTPError is returned for non-2xx responses.
//
// Message carries the server's "error" field when present, otherwise the status text.
type HTTPError struct {
	StatusCode int
	Status     string
	Message    string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s - %s", e.StatusCode, e.Status, e.Message)
}

// APIService provides methods for making raw HTTP requests to a Navidrome server.
//
// Every request carries the session token in the X-ND-Authorization header when one is set.
type APIService struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewAPIService creates a new API service instance for the server at baseURL.
func NewAPIService(baseURL string, client *http.Client) *APIService {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &APIService{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: client,
	}
}

// WithToken sets the bearer token sent on every request and returns the service.
func (a *APIService) WithToken(token string) *APIService {
	a.token = token
	return a
}

// BaseURL returns the server root without a trailing slash.
func (a *APIService) BaseURL() string {
	return a.baseURL
}

// APIResponse represents a raw API response with status and body.
type APIResponse struct {
	StatusCode int
	Status     string
	Headers    http.Header
	Body       []byte
	IsJSON     bool
	JSONData   any
}

// OK reports whether the response has a 2xx status.
func (r *APIResponse) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Err returns an [*HTTPError] for non-2xx responses and nil otherwise.
func (r *APIResponse) Err() error {
	if r.OK() {
		return nil
	}

	message := http.StatusText(r.StatusCode)
	if obj, ok := r.JSONData.(map[string]any); ok {
		if msg, ok := obj["error"].(string); ok && msg != "" {
			message = msg
		}
	}

	return &HTTPError{StatusCode: r.StatusCode, Status: r.Status, Message: message}
}

// Do performs a request with the given method, body and extra headers and returns the raw response.
//
// Transport failures are returned as errors; HTTP error statuses are not, see [APIResponse.Err].
func (a *APIService) Do(ctx context.Context, method, path string, body []byte, header http.Header) (*APIResponse, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if body != nil && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if a.token != "" {
		req.Header.Set(authHeader, "Bearer "+a.token)
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	apiResp := &APIResponse{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Headers:    resp.Header,
		Body:       data,
	}

	var jsonData any
	if err := json.Unmarshal(data, &jsonData); err == nil {
		apiResp.IsJSON = true
		apiResp.JSONData = jsonData
	}

	return apiResp, nil
}

// Get performs a GET request to the specified path and returns the raw response.
func (a *APIService) Get(ctx context.Context, path string) (*APIResponse, error) {
	return a.Do(ctx, http.MethodGet, path, nil, nil)
}

// Post performs a POST request with the given JSON data and returns the raw response.
func (a *APIService) Post(ctx context.Context, path string, data []byte) (*APIResponse, error) {
	if data == nil {
		data = []byte{}
	}
	return a.Do(ctx, http.MethodPost, path, data, nil)
}

// Put performs a PUT request with the given JSON data, which may be nil.
func (a *APIService) Put(ctx context.Context, path string, data []byte) (*APIResponse, error) {
	return a.Do(ctx, http.MethodPut, path, data, nil)
}

// ErrorText extracts the user-facing text of err, preferring the server's message.
func ErrorText(err error) string {
	if err == nil {
		return ""
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Message
	}
	return err.Error()
}
