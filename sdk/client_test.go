package sdk

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestNewClient(t *testing.T) {
	c := NewClient("http://localhost:8000/")
	if c.baseURL != "http://localhost:8000" {
		t.Errorf("baseURL = %q", c.baseURL)
	}
	if c.httpClient.Timeout != 30*time.Second {
		t.Errorf("timeout = %v", c.httpClient.Timeout)
	}
	if c.requestIDs {
		t.Error("request ids should be off by default")
	}

	c = NewClient(DefaultBaseURL, WithTimeout(5*time.Second), WithRequestIDs())
	if c.httpClient.Timeout != 5*time.Second {
		t.Errorf("timeout = %v", c.httpClient.Timeout)
	}
	if !c.requestIDs {
		t.Error("expected request ids on")
	}
}

func TestAlerts_OK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("method = %s, want GET", r.Method)
		}
		if r.URL.Path != "/api/alerts" {
			t.Errorf("path = %s", r.URL.Path)
		}
		writeJSON(w, http.StatusOK, AlertsResponse{
			Success: true,
			Total:   1,
			Alerts: []Alert{{
				ID:          7,
				Timestamp:   "2024-01-15 10:23:45",
				AlertType:   "Brute Force Attack",
				Severity:    "High",
				IPAddress:   "192.168.1.100",
				Description: "5 failed logins",
			}},
		})
	}))
	defer srv.Close()

	resp, err := NewClient(srv.URL).Alerts(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(resp.Alerts) != 1 {
		t.Fatalf("alerts = %d", len(resp.Alerts))
	}
	a := resp.Alerts[0]
	if a.ID != 7 || a.AlertType != "Brute Force Attack" || a.IPAddress != "192.168.1.100" {
		t.Errorf("alert = %+v", a)
	}
}

func TestAlerts_Unsuccessful(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"success": false})
	}))
	defer srv.Close()

	resp, err := NewClient(srv.URL).Alerts(context.Background())
	if !errors.Is(err, ErrUnsuccessful) {
		t.Fatalf("err = %v, want ErrUnsuccessful", err)
	}
	if resp == nil {
		t.Fatal("expected response even on failure")
	}
}

func TestAlerts_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"detail": "Error retrieving alerts: database is locked",
		})
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Alerts(context.Background())
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %T", err)
	}
	if apiErr.StatusCode != 500 {
		t.Errorf("status = %d", apiErr.StatusCode)
	}
	if apiErr.Detail != "Error retrieving alerts: database is locked" {
		t.Errorf("detail = %q", apiErr.Detail)
	}
	if !strings.Contains(apiErr.Error(), "HTTP 500") {
		t.Errorf("error text = %q", apiErr.Error())
	}
}

func TestAlerts_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewClient(url).Alerts(context.Background())
	if err == nil {
		t.Fatal("expected error for closed server")
	}
	if !strings.Contains(err.Error(), "sending request") {
		t.Errorf("err = %v", err)
	}
}

func TestStats(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/alerts/stats" {
			t.Errorf("path = %s", r.URL.Path)
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"success":     true,
			"by_hour":     map[string]int{"2024-01-15 10": 3, "2024-01-15 09": 1},
			"by_type":     map[string]int{"SQL Injection": 4},
			"by_severity": map[string]int{"Critical": 4},
		})
	}))
	defer srv.Close()

	resp, err := NewClient(srv.URL).Stats(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if resp.ByHour["2024-01-15 10"] != 3 {
		t.Errorf("by_hour = %v", resp.ByHour)
	}
	if resp.ByType["SQL Injection"] != 4 {
		t.Errorf("by_type = %v", resp.ByType)
	}
}

func TestUploadLog(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/upload-log" {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		f, hdr, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("form file: %v", err)
		}
		defer f.Close()
		data, _ := io.ReadAll(f)
		if hdr.Filename != "auth.txt" {
			t.Errorf("filename = %q", hdr.Filename)
		}
		if string(data) != "Failed password for root" {
			t.Errorf("content = %q", data)
		}
		writeJSON(w, http.StatusOK, AnalysisResponse{Success: true, AlertsDetected: 3})
	}))
	defer srv.Close()

	resp, err := NewClient(srv.URL).UploadLog(context.Background(), "logs/auth.txt", strings.NewReader("Failed password for root"))
	if err != nil {
		t.Fatal(err)
	}
	if resp.AlertsDetected != 3 {
		t.Errorf("alerts_detected = %d", resp.AlertsDetected)
	}
}

func TestUploadLogFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "web.log")
	if err := os.WriteFile(path, []byte("GET /?id=1' OR '1'='1"), 0o600); err != nil {
		t.Fatal(err)
	}

	var gotName string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, hdr, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("form file: %v", err)
		}
		gotName = hdr.Filename
		writeJSON(w, http.StatusOK, AnalysisResponse{Success: true, AlertsDetected: 1})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	if _, err := c.UploadLogFile(context.Background(), path); err != nil {
		t.Fatal(err)
	}
	if gotName != "web.log" {
		t.Errorf("uploaded name = %q", gotName)
	}

	if _, err := c.UploadLogFile(context.Background(), filepath.Join(dir, "missing.log")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestUploadLog_EmptyName(t *testing.T) {
	c := NewClient("http://127.0.0.1:1")
	if _, err := c.UploadLog(context.Background(), "", strings.NewReader("x")); !errors.Is(err, ErrEmptyName) {
		t.Errorf("err = %v", err)
	}
	if _, err := c.UploadLog(context.Background(), "a.txt", nil); !errors.Is(err, ErrEmptyName) {
		t.Errorf("err = %v", err)
	}
}

func TestListLogs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/logs/list" {
			t.Errorf("path = %s", r.URL.Path)
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "count": 0})
	}))
	defer srv.Close()

	resp, err := NewClient(srv.URL).ListLogs(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if resp.Files == nil {
		t.Error("files should be empty, not nil")
	}
}

func TestAnalyzeLog(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		if r.URL.EscapedPath() != "/api/analyze-log/sample%20log.txt" {
			t.Errorf("path = %s", r.URL.EscapedPath())
		}
		writeJSON(w, http.StatusOK, AnalysisResponse{Success: true, AlertsDetected: 12, AlertsSaved: 12})
	}))
	defer srv.Close()

	resp, err := NewClient(srv.URL).AnalyzeLog(context.Background(), "sample log.txt")
	if err != nil {
		t.Fatal(err)
	}
	if resp.AlertsDetected != 12 {
		t.Errorf("alerts_detected = %d", resp.AlertsDetected)
	}
}

func TestAnalyzeLog_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Log file 'nope.txt' not found"})
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).AnalyzeLog(context.Background(), "nope.txt")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d", apiErr.StatusCode)
	}
}

func TestAnalyzeLog_EmptyName(t *testing.T) {
	_, err := NewClient("http://127.0.0.1:1").AnalyzeLog(context.Background(), "")
	if !errors.Is(err, ErrEmptyName) {
		t.Errorf("err = %v", err)
	}
}

func TestClearAlerts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/api/alerts" {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		writeJSON(w, http.StatusOK, ClearResponse{Success: true, Message: "All alerts cleared successfully"})
	}))
	defer srv.Close()

	resp, err := NewClient(srv.URL).ClearAlerts(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !resp.Success {
		t.Error("expected success")
	}
}

func TestCountAndHealth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/":
			writeJSON(w, http.StatusOK, HealthResponse{Message: "Mini SOC API is running!", Version: "1.0.0", Status: "healthy"})
		case "/api/alerts/count":
			writeJSON(w, http.StatusOK, CountResponse{Success: true, Count: 42})
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	h, err := c.Health(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if h.Status != "healthy" || h.Version != "1.0.0" {
		t.Errorf("health = %+v", h)
	}

	n, err := c.Count(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if n.Count != 42 {
		t.Errorf("count = %d", n.Count)
	}
}

func TestRequestIDHeader(t *testing.T) {
	var ids []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ids = append(ids, r.Header.Get("X-Request-ID"))
		writeJSON(w, http.StatusOK, CountResponse{Success: true})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, WithRequestIDs())
	for range 2 {
		if _, err := c.Count(context.Background()); err != nil {
			t.Fatal(err)
		}
	}
	if len(ids) != 2 || ids[0] == "" || ids[0] == ids[1] {
		t.Errorf("request ids = %v", ids)
	}
}

func TestReadDetail(t *testing.T) {
	tests := []struct {
		body string
		want string
	}{
		{`{"detail":"not found"}`, "not found"},
		{`{"detail":[{"msg":"field required"}]}`, `[{"msg":"field required"}]`},
		{"Internal Server Error", "Internal Server Error"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := readDetail(strings.NewReader(tt.body)); got != tt.want {
			t.Errorf("readDetail(%q) = %q, want %q", tt.body, got, tt.want)
		}
	}
}
