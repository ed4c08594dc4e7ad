package srv

import (
	"bytes"
	"compress/gzip"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"
)

func TestSecurityHeaders(t *testing.T) {
	// Simple handler that just returns OK
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	handler := SecurityHeaders(inner)

	req := httptest.NewRequest("GET", "/", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	// Check all security headers are set
	tests := []struct {
		header string
		want   string
	}{
		{"X-Frame-Options", "DENY"},
		{"X-Content-Type-Options", "nosniff"},
		{"Referrer-Policy", "strict-origin-when-cross-origin"},
	}

	for _, tt := range tests {
		got := rec.Header().Get(tt.header)
		if got != tt.want {
			t.Errorf("%s = %q, want %q", tt.header, got, tt.want)
		}
	}

	// CSP should be set and allow the live-reload socket
	csp := rec.Header().Get("Content-Security-Policy")
	if csp == "" {
		t.Error("Content-Security-Policy header not set")
	}
	if !strings.Contains(csp, "default-src 'self'") {
		t.Error("CSP missing default-src 'self'")
	}
	if !strings.Contains(csp, "connect-src 'self' ws: wss:") {
		t.Error("CSP should allow websocket connections")
	}
}

func TestGzip_WithAcceptEncoding(t *testing.T) {
	// Handler that returns a known response
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("hello world"))
	})

	handler := Gzip(inner)

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Accept-Encoding", "gzip, deflate")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	// Should have gzip encoding header
	if rec.Header().Get("Content-Encoding") != "gzip" {
		t.Error("Content-Encoding should be gzip")
	}

	// Content-Length should be removed
	if rec.Header().Get("Content-Length") != "" {
		t.Error("Content-Length should be removed for gzipped response")
	}
	if rec.Header().Get("Vary") != "Accept-Encoding" {
		t.Error("Vary should name Accept-Encoding")
	}

	// Body should be valid gzip
	gr, err := gzip.NewReader(rec.Body)
	if err != nil {
		t.Fatalf("response is not valid gzip: %v", err)
	}
	defer gr.Close()

	body, err := io.ReadAll(gr)
	if err != nil {
		t.Fatalf("failed to read gzipped body: %v", err)
	}

	if string(body) != "hello world" {
		t.Errorf("got %q, want %q", string(body), "hello world")
	}
}

func TestGzip_WithoutAcceptEncoding(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("hello world"))
	})

	handler := Gzip(inner)

	req := httptest.NewRequest("GET", "/", nil)
	// No Accept-Encoding header
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	// Should NOT have gzip encoding
	if rec.Header().Get("Content-Encoding") == "gzip" {
		t.Error("should not gzip without Accept-Encoding")
	}

	// Body should be plain text
	if rec.Body.String() != "hello world" {
		t.Errorf("got %q, want %q", rec.Body.String(), "hello world")
	}
}

func TestRequestLogger_SkipsHealth(t *testing.T) {
	called := false
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	})

	handler := RequestLogger(inner)

	req := httptest.NewRequest("GET", "/health", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if !called {
		t.Error("inner handler was not called")
	}
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestRequestLogger_SkipsStatic(t *testing.T) {
	called := false
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	})

	handler := RequestLogger(inner)

	req := httptest.NewRequest("GET", "/static/style.css", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if !called {
		t.Error("inner handler was not called")
	}
}

func TestRequestLogger_CapturesStatus(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	handler := RequestLogger(inner)

	req := httptest.NewRequest("GET", "/notfound", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestStaticFileServer_CacheHeaders(t *testing.T) {
	fsys := fstest.MapFS{
		"style.css": {Data: []byte("body {}")},
		"app.js":    {Data: []byte("console.log('hi')")},
		"logo.png":  {Data: []byte("fake png")},
		"data.json": {Data: []byte("{}")},
	}
	handler := StaticFileServer(fsys)

	tests := []struct {
		path      string
		wantCache string
	}{
		{"/style.css", "public, max-age=86400"},
		{"/app.js", "public, max-age=86400"},
		{"/logo.png", "public, max-age=31536000, immutable"},
		{"/data.json", "public, max-age=3600"}, // default
	}

	for _, tt := range tests {
		req := httptest.NewRequest("GET", tt.path, nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("%s: status = %d, want 200", tt.path, rec.Code)
		}
		got := rec.Header().Get("Cache-Control")
		if got != tt.wantCache {
			t.Errorf("%s: Cache-Control = %q, want %q", tt.path, got, tt.wantCache)
		}
	}
}

func TestRequestLogger_LogsRequest(t *testing.T) {
	logs := captureLogs(t)
	handler := RequestLogger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/api/changes", nil))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/health", nil))

	out := logs.String()
	if !strings.Contains(out, "path=/api/changes") || !strings.Contains(out, "status=418") {
		t.Errorf("expected request line, got: %s", out)
	}
	if strings.Contains(out, "path=/health") {
		t.Errorf("health checks should not be logged, got: %s", out)
	}
}

func TestRecorderUnwrap(t *testing.T) {
	rec := httptest.NewRecorder()
	r := &responseRecorder{ResponseWriter: rec}
	if http.ResponseWriter(rec) != r.Unwrap() {
		t.Error("Unwrap should return the wrapped writer")
	}
}

func TestLimitRequestBody(t *testing.T) {
	var readErr error
	handler := LimitRequestBody(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, readErr = io.ReadAll(r.Body)
	}))

	body := strings.NewReader(strings.Repeat("x", MaxRequestBodySize+1))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("POST", "/api/reload", body))

	if readErr == nil {
		t.Error("expected error reading oversized body")
	}
}

// captureLogs redirects the default logger for the duration of the test.
func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	old := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(old) })
	return &buf
}

func TestResponseRecorder_DefaultStatus(t *testing.T) {
	// Test that responseRecorder defaults to 200 when Write is called without WriteHeader
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("hello")) // No explicit WriteHeader
	})

	handler := RequestLogger(inner)

	req := httptest.NewRequest("GET", "/test", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	// Should default to 200
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}
