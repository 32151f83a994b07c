package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"github.com/matzehuels/statuscard/pkg/cache"
	"github.com/matzehuels/statuscard/pkg/pipeline"
	"github.com/matzehuels/statuscard/pkg/steam"
	"github.com/matzehuels/statuscard/pkg/store"
	"github.com/matzehuels/statuscard/pkg/text"
)

var testFonts = text.SourceFunc(func(role text.Role, size float64) (font.Face, error) {
	return basicfont.Face7x13, nil
})

// newTestServer backs the router with stubbed Steam endpoints so render
// requests go end to end without touching the network.
func newTestServer(t *testing.T) http.Handler {
	t.Helper()

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/profiles/") {
			io.WriteString(w, `<html><head><title>Steam 社区 :: alice</title></head></html>`)
			return
		}
		io.WriteString(w, `{"response":{"players":[]}}`)
	}))
	t.Cleanup(upstream.Close)

	byteCache, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	st, err := store.NewFileStore(filepath.Join(t.TempDir(), "bindings.json"))
	if err != nil {
		t.Fatal(err)
	}

	logger := log.New(io.Discard)
	client := steam.NewClient([]string{"k"},
		steam.WithAPIBase(upstream.URL),
		steam.WithCommunityBase(upstream.URL),
		steam.WithLogger(logger),
	)
	runner := pipeline.NewRunner(byteCache, client, st, testFonts, logger)

	return New(runner, logger).Router()
}

func TestHealthz(t *testing.T) {
	router := newTestServer(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["status"] != "ok" {
		t.Errorf("body = %v", body)
	}
}

func TestRequestID(t *testing.T) {
	router := newTestServer(t)

	// Generated when absent.
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("missing generated request id")
	}

	// Echoed when supplied.
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "req-123")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if got := rec.Header().Get("X-Request-ID"); got != "req-123" {
		t.Errorf("request id = %q, want req-123", got)
	}
}

func TestRenderProfileEndpoint(t *testing.T) {
	router := newTestServer(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/render/profile", strings.NewReader(`{"id":"39735273"}`))
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("content type = %q", ct)
	}
	if rec.Header().Get("X-Cache") != "miss" {
		t.Errorf("X-Cache = %q, want miss", rec.Header().Get("X-Cache"))
	}
	// PNG magic bytes.
	if body := rec.Body.Bytes(); len(body) < 8 || string(body[1:4]) != "PNG" {
		t.Error("response is not a PNG")
	}

	// Same data renders from cache on the second request.
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/render/profile", strings.NewReader(`{"id":"39735273"}`)))
	if rec.Header().Get("X-Cache") != "hit" {
		t.Errorf("X-Cache = %q, want hit", rec.Header().Get("X-Cache"))
	}
}

func TestErrorMapping(t *testing.T) {
	router := newTestServer(t)

	tests := []struct {
		name       string
		path       string
		body       string
		wantStatus int
		wantCode   string
	}{
		{"malformed json", "/v1/render/profile", `{`, http.StatusBadRequest, "INVALID_INPUT"},
		{"bad steam id", "/v1/render/profile", `{"id":"xyz"}`, http.StatusBadRequest, "INVALID_STEAM_ID"},
		{"unknown group", "/v1/render/roster", `{"parent_id":"nope"}`, http.StatusNotFound, "NOT_FOUND"},
		{"player not found", "/v1/render/notice", `{"id":"1"}`, http.StatusNotFound, "NOT_FOUND"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, tt.path, strings.NewReader(tt.body)))

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.wantStatus, rec.Body)
			}
			var body map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatal(err)
			}
			if body["code"] != tt.wantCode {
				t.Errorf("code = %q, want %q", body["code"], tt.wantCode)
			}
		})
	}
}
