package jd

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
)

func TestFetchFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "jd.txt")
	testContent := "Senior Platform Engineer\nKubernetes, Go, Terraform."

	err := os.WriteFile(testFile, []byte("\n"+testContent+"\n\n"), 0600)
	if err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	content, err := fetchFromFile(testFile)
	if err != nil {
		t.Fatalf("Failed to fetch from file: %v", err)
	}

	if content != testContent {
		t.Errorf("Expected content '%s', got '%s'", testContent, content)
	}
}

func TestFetchFromFileNonexistent(t *testing.T) {
	_, err := fetchFromFile("/nonexistent/jd.txt")
	if err == nil {
		t.Fatal("Expected error fetching nonexistent file, got nil")
	}

	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestFetchFromFileBlank(t *testing.T) {
	tmpDir := t.TempDir()
	blankFile := filepath.Join(tmpDir, "blank.txt")

	err := os.WriteFile(blankFile, []byte("  \n\t\n"), 0600)
	if err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	_, err = fetchFromFile(blankFile)
	if err == nil {
		t.Error("Expected error fetching blank file, got nil")
	}
}

func TestFetchFromURL(t *testing.T) {
	var userAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userAgent = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(`<html><head><style>.x{color:red}</style></head><body>
<nav>Home | Careers</nav>
<h1>Staff SRE</h1><p>Own our   observability stack.</p>
<script>track()</script>
<ul><li>Prometheus</li><li>Grafana</li></ul>
</body></html>`))
	}))
	defer server.Close()

	content, err := fetchFromURL(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Failed to fetch from URL: %v", err)
	}

	expected := "Staff SRE\nOwn our observability stack.\nPrometheus\nGrafana"
	if content != expected {
		t.Errorf("Expected content '%s', got '%s'", expected, content)
	}

	if userAgent != "tex-tailor/1.0" {
		t.Errorf("Expected user agent tex-tailor/1.0, got '%s'", userAgent)
	}
}

func TestFetchFromURLPlainText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("Use <Go> and <Rust>\n"))
	}))
	defer server.Close()

	content, err := fetchFromURL(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Failed to fetch from URL: %v", err)
	}

	if content != "Use <Go> and <Rust>" {
		t.Errorf("Plain text should be returned untouched, got '%s'", content)
	}
}

func TestFetchFromURL404(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := fetchFromURL(context.Background(), server.URL)
	if err == nil {
		t.Error("Expected error for 404 response, got nil")
	}
}

func TestFetchFromURLEmptyPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html><body><script>only()</script></body></html>"))
	}))
	defer server.Close()

	_, err := fetchFromURL(context.Background(), server.URL)
	if err == nil {
		t.Error("Expected error for page without text, got nil")
	}
}

func TestFetchFromURLTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(2 * time.Second)
		_, _ = w.Write([]byte("too slow"))
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	_, err := fetchFromURL(ctx, server.URL)
	if err == nil {
		t.Error("Expected timeout error, got nil")
	}
}

func TestFetchWithContextURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html><body>Test content</body></html>"))
	}))
	defer server.Close()

	content, err := FetchWithContext(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Failed to fetch from URL: %v", err)
	}

	if content != "Test content" {
		t.Errorf("Expected 'Test content', got '%s'", content)
	}
}

func TestFetch(t *testing.T) {
	testFile := filepath.Join(t.TempDir(), "jd.md")

	err := os.WriteFile(testFile, []byte("Test"), 0600)
	if err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	content, err := Fetch(testFile)
	if err != nil {
		t.Fatalf("Failed to fetch: %v", err)
	}

	if content != "Test" {
		t.Errorf("Expected 'Test', got '%s'", content)
	}
}

func TestRead(t *testing.T) {
	content, err := Read(strings.NewReader("\n  Backend engineer, payments team.  \n"))
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	if content != "Backend engineer, payments team." {
		t.Errorf("Expected trimmed content, got '%s'", content)
	}
}

func TestIsURL(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{input: "https://example.com/jobs/42", expected: true},
		{input: "http://example.com", expected: true},
		{input: "ftp://example.com/jd.txt", expected: false},
		{input: "jobs/acme.txt", expected: false},
		{input: "/tmp/jd.txt", expected: false},
		{input: "https://", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := IsURL(tt.input); got != tt.expected {
				t.Errorf("IsURL(%q) = %v, expected %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestIsHTML(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		body        string
		expected    bool
	}{
		{name: "html content type", contentType: "text/html; charset=utf-8", body: "x", expected: true},
		{name: "plain content type", contentType: "text/plain", body: "<html>", expected: false},
		{name: "sniffed doctype", contentType: "", body: "  <!DOCTYPE html><html></html>", expected: true},
		{name: "unknown plain", contentType: "", body: "just text", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isHTML(tt.contentType, tt.body); got != tt.expected {
				t.Errorf("isHTML() = %v, expected %v", got, tt.expected)
			}
		})
	}
}
