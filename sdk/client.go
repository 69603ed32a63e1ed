// Package sdk provides a Go client for the Mini SOC backend REST API.
//
// Basic usage:
//
//	c := sdk.NewClient("http://127.0.0.1:8000")
//	resp, err := c.Alerts(ctx)
//
// Uploading a log for analysis:
//
//	resp, err := c.UploadLogFile(ctx, "./logs/auth.txt")
//	fmt.Println(resp.AlertsDetected)
package sdk

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultBaseURL is where the backend listens out of the box.
const DefaultBaseURL = "http://127.0.0.1:8000"

var (
	// ErrUnsuccessful is returned when the backend answers 2xx with success=false.
	ErrUnsuccessful = errors.New("backend reported failure")
	// ErrEmptyName is returned when a filename argument is empty.
	ErrEmptyName = errors.New("file name is required")
)

// Alert is a detected suspicious event as stored by the backend.
type Alert struct {
	ID          int    `json:"id"`
	Timestamp   string `json:"timestamp"`
	AlertType   string `json:"alert_type"`
	Severity    string `json:"severity"`
	IPAddress   string `json:"ip_address"`
	Description string `json:"description"`
}

// AlertsResponse is returned by GET /api/alerts.
type AlertsResponse struct {
	Success bool    `json:"success"`
	Total   int     `json:"total"`
	Alerts  []Alert `json:"alerts"`
}

// StatsResponse is returned by GET /api/alerts/stats.
// ByHour keys are hour prefixes of the alert timestamp ("2024-01-15 10").
type StatsResponse struct {
	Success    bool           `json:"success"`
	ByHour     map[string]int `json:"by_hour"`
	ByType     map[string]int `json:"by_type,omitempty"`
	BySeverity map[string]int `json:"by_severity,omitempty"`
}

// AnalysisResponse is returned by the upload and analyze endpoints.
type AnalysisResponse struct {
	Success        bool   `json:"success"`
	Message        string `json:"message,omitempty"`
	AlertsDetected int    `json:"alerts_detected"`
	AlertsSaved    int    `json:"alerts_saved,omitempty"`
	FileSaved      string `json:"file_saved,omitempty"`
}

// LogFilesResponse is returned by GET /api/logs/list.
type LogFilesResponse struct {
	Success bool     `json:"success"`
	Count   int      `json:"count"`
	Files   []string `json:"files"`
}

// ClearResponse is returned by DELETE /api/alerts.
type ClearResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// CountResponse is returned by GET /api/alerts/count.
type CountResponse struct {
	Success bool `json:"success"`
	Count   int  `json:"count"`
}

// HealthResponse is returned by GET /.
type HealthResponse struct {
	Message string `json:"message"`
	Version string `json:"version"`
	Status  string `json:"status"`
}

// APIError is returned for non-2xx responses.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("socdash: backend returned HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("socdash: %s (HTTP %d)", e.Detail, e.StatusCode)
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithRequestIDs tags every request with a fresh X-Request-ID header.
func WithRequestIDs() Option {
	return func(c *Client) { c.requestIDs = true }
}

// Client talks to a Mini SOC backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	requestIDs bool
}

// NewClient creates a client for the backend at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the backend address the client targets.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Alerts fetches every stored alert.
func (c *Client) Alerts(ctx context.Context) (*AlertsResponse, error) {
	var resp AlertsResponse
	if err := c.do(ctx, http.MethodGet, "/api/alerts", nil, "", &resp); err != nil {
		return nil, err
	}
	return &resp, successOrErr(resp.Success, "/api/alerts")
}

// Stats fetches alert counts grouped by hour, type and severity.
func (c *Client) Stats(ctx context.Context) (*StatsResponse, error) {
	var resp StatsResponse
	if err := c.do(ctx, http.MethodGet, "/api/alerts/stats", nil, "", &resp); err != nil {
		return nil, err
	}
	return &resp, successOrErr(resp.Success, "/api/alerts/stats")
}

// Count fetches the total number of stored alerts.
func (c *Client) Count(ctx context.Context) (*CountResponse, error) {
	var resp CountResponse
	if err := c.do(ctx, http.MethodGet, "/api/alerts/count", nil, "", &resp); err != nil {
		return nil, err
	}
	return &resp, successOrErr(resp.Success, "/api/alerts/count")
}

// UploadLog uploads log content as a multipart file named name and returns
// the number of alerts the backend detected in it.
func (c *Client) UploadLog(ctx context.Context, name string, content io.Reader) (*AnalysisResponse, error) {
	if name == "" || content == nil {
		return nil, ErrEmptyName
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filepath.Base(name))
	if err != nil {
		return nil, fmt.Errorf("creating form file: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, fmt.Errorf("reading log content: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("closing multipart body: %w", err)
	}

	var resp AnalysisResponse
	if err := c.do(ctx, http.MethodPost, "/api/upload-log", &buf, mw.FormDataContentType(), &resp); err != nil {
		return nil, err
	}
	return &resp, successOrErr(resp.Success, "/api/upload-log")
}

// UploadLogFile uploads the file at path.
func (c *Client) UploadLogFile(ctx context.Context, path string) (*AnalysisResponse, error) {
	if path == "" {
		return nil, ErrEmptyName
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	defer f.Close() //nolint:errcheck // read-only
	return c.UploadLog(ctx, filepath.Base(path), f)
}

// ListLogs lists the log files the backend can analyze in place.
func (c *Client) ListLogs(ctx context.Context) (*LogFilesResponse, error) {
	var resp LogFilesResponse
	if err := c.do(ctx, http.MethodGet, "/api/logs/list", nil, "", &resp); err != nil {
		return nil, err
	}
	if resp.Files == nil {
		resp.Files = []string{}
	}
	return &resp, successOrErr(resp.Success, "/api/logs/list")
}

// AnalyzeLog asks the backend to analyze one of its stored log files.
func (c *Client) AnalyzeLog(ctx context.Context, filename string) (*AnalysisResponse, error) {
	if filename == "" {
		return nil, ErrEmptyName
	}
	path := "/api/analyze-log/" + url.PathEscape(filename)

	var resp AnalysisResponse
	if err := c.do(ctx, http.MethodPost, path, nil, "", &resp); err != nil {
		return nil, err
	}
	return &resp, successOrErr(resp.Success, "/api/analyze-log")
}

// ClearAlerts deletes every stored alert.
func (c *Client) ClearAlerts(ctx context.Context) (*ClearResponse, error) {
	var resp ClearResponse
	if err := c.do(ctx, http.MethodDelete, "/api/alerts", nil, "", &resp); err != nil {
		return nil, err
	}
	return &resp, successOrErr(resp.Success, "/api/alerts")
}

// Health checks the backend root endpoint.
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	var resp HealthResponse
	if err := c.do(ctx, http.MethodGet, "/", nil, "", &resp); err != nil {
		return nil, fmt.Errorf("health check: %w", err)
	}
	return &resp, nil
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	httpReq, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	if c.requestIDs {
		httpReq.Header.Set("X-Request-ID", uuid.New().String())
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("sending request: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		return &APIError{StatusCode: httpResp.StatusCode, Detail: readDetail(httpResp.Body)}
	}

	if err := json.NewDecoder(httpResp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response (HTTP %d): %w", httpResp.StatusCode, err)
	}
	return nil
}

// readDetail extracts the backend's {"detail": "..."} error message.
func readDetail(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, 64<<10))
	if err != nil || len(data) == 0 {
		return ""
	}
	var body struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(data, &body); err != nil || len(body.Detail) == 0 {
		return strings.TrimSpace(string(data))
	}
	var s string
	if err := json.Unmarshal(body.Detail, &s); err == nil {
		return s
	}
	// validation errors come back as a list of objects
	return string(body.Detail)
}

func successOrErr(ok bool, path string) error {
	if ok {
		return nil
	}
	return fmt.Errorf("%s: %w", path, ErrUnsuccessful)
}
