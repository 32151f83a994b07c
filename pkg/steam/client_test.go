package steam

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/statuscard/pkg/cache"
)

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func TestPlayerSummaries_RotatesKeys(t *testing.T) {
	var requests int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if r.URL.Query().Get("key") == "revoked" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		fmt.Fprint(w, `{"response":{"players":[{"steamid":"76561198000000001","personaname":"alice","personastate":1}]}}`)
	}))
	defer srv.Close()

	c := NewClient([]string{"revoked", "working"}, WithAPIBase(srv.URL), WithLogger(quietLogger()))
	players, err := c.PlayerSummaries(context.Background(), []string{"76561198000000001"})
	if err != nil {
		t.Fatalf("PlayerSummaries error: %v", err)
	}
	if requests != 2 {
		t.Errorf("requests = %d, want 2 (one per key)", requests)
	}
	if len(players) != 1 || players[0].PersonaName != "alice" {
		t.Errorf("players = %+v", players)
	}
}

func TestPlayerSummaries_AllKeysFail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	c := NewClient([]string{"a", "b"}, WithAPIBase(srv.URL), WithLogger(quietLogger()))
	if _, err := c.PlayerSummaries(context.Background(), []string{"1"}); err == nil {
		t.Fatal("expected error when every key fails")
	}
}

func TestPlayerSummaries_NoKeys(t *testing.T) {
	c := NewClient(nil, WithLogger(quietLogger()))
	if _, err := c.PlayerSummaries(context.Background(), []string{"1"}); err == nil {
		t.Fatal("expected error with no keys configured")
	}
}

func TestPlayerSummaries_EmptyIDs(t *testing.T) {
	c := NewClient([]string{"k"}, WithLogger(quietLogger()))
	players, err := c.PlayerSummaries(context.Background(), nil)
	if err != nil || players != nil {
		t.Fatalf("got %v, %v; want nil, nil", players, err)
	}
}

func TestPlayerSummaries_BatchesAtLimit(t *testing.T) {
	var batchSizes []int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ids := strings.Split(r.URL.Query().Get("steamids"), ",")
		batchSizes = append(batchSizes, len(ids))
		fmt.Fprint(w, `{"response":{"players":[]}}`)
	}))
	defer srv.Close()

	ids := make([]string, 105)
	for i := range ids {
		ids[i] = fmt.Sprintf("%d", IDOffset+uint64(i))
	}

	c := NewClient([]string{"k"}, WithAPIBase(srv.URL), WithLogger(quietLogger()))
	if _, err := c.PlayerSummaries(context.Background(), ids); err != nil {
		t.Fatalf("PlayerSummaries error: %v", err)
	}
	if len(batchSizes) != 2 || batchSizes[0] != 100 || batchSizes[1] != 5 {
		t.Errorf("batch sizes = %v, want [100 5]", batchSizes)
	}
}

func TestFetchImage(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write([]byte("png-bytes"))
	}))
	defer srv.Close()

	store, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	c := NewClient(nil, WithCache(store), WithLogger(quietLogger()))

	got := c.FetchImage(context.Background(), srv.URL+"/avatar.jpg", nil)
	if !bytes.Equal(got, []byte("png-bytes")) {
		t.Fatalf("got %q", got)
	}

	// Second fetch is served from the cache.
	c.FetchImage(context.Background(), srv.URL+"/avatar.jpg", nil)
	if hits != 1 {
		t.Errorf("server hits = %d, want 1", hits)
	}
}

func TestFetchImage_FallbackOnFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	c := NewClient(nil, WithLogger(quietLogger()))
	fallback := []byte("default")
	if got := c.FetchImage(context.Background(), srv.URL+"/missing.jpg", fallback); !bytes.Equal(got, fallback) {
		t.Errorf("got %q, want fallback", got)
	}
}

func TestFetchImage_EmptyURL(t *testing.T) {
	c := NewClient(nil, WithLogger(quietLogger()))
	fallback := []byte("default")
	if got := c.FetchImage(context.Background(), "", fallback); !bytes.Equal(got, fallback) {
		t.Errorf("got %q, want fallback", got)
	}
}
