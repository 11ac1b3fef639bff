package web

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeDoc(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "map.html")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestNewServer_MissingDocument(t *testing.T) {
	_, err := NewServer(ServerConfig{DocumentPath: filepath.Join(t.TempDir(), "nope.html")})
	if !errors.Is(err, ErrNoDocument) {
		t.Errorf("NewServer() error = %v, want ErrNoDocument", err)
	}
}

func TestServer_Routes(t *testing.T) {
	path := writeDoc(t, "<html><body>map</body></html>")
	srv, err := NewServer(ServerConfig{DocumentPath: path})
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
		wantBody   string
	}{
		{name: "document", method: http.MethodGet, path: "/", wantStatus: http.StatusOK, wantBody: "<html><body>map</body></html>"},
		{name: "health", method: http.MethodGet, path: "/healthz", wantStatus: http.StatusOK, wantBody: "ok"},
		{name: "unknown", method: http.MethodGet, path: "/missing", wantStatus: http.StatusNotFound},
		{name: "wrong method", method: http.MethodPost, path: "/", wantStatus: http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(tt.method, ts.URL+tt.path, nil)
			if err != nil {
				t.Fatal(err)
			}
			resp, err := ts.Client().Do(req)
			if err != nil {
				t.Fatalf("request error = %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
			if tt.wantBody != "" {
				body, _ := io.ReadAll(resp.Body)
				if string(body) != tt.wantBody {
					t.Errorf("body = %q, want %q", body, tt.wantBody)
				}
			}
		})
	}
}

func TestServer_DocumentReloaded(t *testing.T) {
	path := writeDoc(t, "first")
	srv, err := NewServer(ServerConfig{DocumentPath: path})
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}

	if err := os.WriteFile(path, []byte("second"), 0o644); err != nil {
		t.Fatal(err)
	}

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Body.String() != "second" {
		t.Errorf("body = %q, want second", rec.Body.String())
	}
	if got := rec.Header().Get("Content-Type"); got != "text/html; charset=utf-8" {
		t.Errorf("Content-Type = %q", got)
	}
}

func TestServer_DocumentRemoved(t *testing.T) {
	path := writeDoc(t, "x")
	srv, err := NewServer(ServerConfig{DocumentPath: path})
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}
	os.Remove(path)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

func TestServer_RunStopsOnCancel(t *testing.T) {
	path := writeDoc(t, "x")
	srv, err := NewServer(ServerConfig{Addr: "127.0.0.1:0", DocumentPath: path})
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not return after cancel")
	}
}
