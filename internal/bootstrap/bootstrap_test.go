package bootstrap

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"pokerhall/internal/poker"
)

func noopIdentify(r *http.Request) (poker.Player, error) {
	return poker.Player{ID: "p1", Username: "p1"}, nil
}

func TestNewSeedsDefaultTable(t *testing.T) {
	t.Setenv("CHIPSOURCE_MODE", "memory")
	srv, err := New(noopIdentify)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer srv.Chips.Close()

	h, ok := srv.Rooms.Get("69420")
	if !ok {
		t.Fatalf("expected the default table to be seeded under id 69420")
	}
	if cfg := h.GetTableConfig(); cfg.Name != "Pocket Rocket Dreams" {
		t.Fatalf("seeded table name = %q, want %q", cfg.Name, "Pocket Rocket Dreams")
	}
}

func TestMuxServesHealthAndCORS(t *testing.T) {
	t.Setenv("CHIPSOURCE_MODE", "memory")
	srv, err := New(noopIdentify)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer srv.Chips.Close()

	ts := httptest.NewServer(srv.Mux())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("Access-Control-Allow-Origin = %q, want *", got)
	}
}

func TestMuxHandlesCORSPreflight(t *testing.T) {
	t.Setenv("CHIPSOURCE_MODE", "memory")
	srv, err := New(noopIdentify)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer srv.Chips.Close()

	req := httptest.NewRequest(http.MethodOptions, "/health", nil)
	rec := httptest.NewRecorder()
	srv.Mux().ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("preflight status = %d, want 204", rec.Code)
	}
}
