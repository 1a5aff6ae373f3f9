package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/amishk599/resumetailor/internal/ai"
	"github.com/amishk599/resumetailor/internal/model"
	"github.com/amishk599/resumetailor/internal/store"
)

type stubGenerator struct {
	calls []ai.Mode
	jd    string
	text  string
}

func (g *stubGenerator) Generate(_ context.Context, jd, _ string, mode ai.Mode) model.Completion {
	g.calls = append(g.calls, mode)
	g.jd = jd
	return model.Completion{ID: "c-1", Mode: mode.String(), Result: g.text}
}

func newTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()
	st, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func doJSON(t *testing.T, s *Server, method, path, body string) (*http.Response, string) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := s.App().Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)
	return resp, string(data)
}

func TestCreateCompletion_DefaultsToRecommend(t *testing.T) {
	gen := &stubGenerator{text: "## Recommendations"}
	s := New(gen, store.NewNopStore(), nil)

	resp, body := doJSON(t, s, http.MethodPost, "/api/completions",
		`{"job_description":"Go engineer","resume":"Built Go services"}`)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body = %s", resp.StatusCode, body)
	}
	var got completionResponse
	if err := json.Unmarshal([]byte(body), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.ID != "c-1" || got.Mode != "recommend" || got.Result != "## Recommendations" {
		t.Errorf("response = %+v", got)
	}
	if len(gen.calls) != 1 || gen.calls[0] != ai.ModeRecommend || gen.jd != "Go engineer" {
		t.Errorf("generator calls = %v, jd = %q", gen.calls, gen.jd)
	}
}

func TestCreateCompletion_FallbackIsStillOK(t *testing.T) {
	s := New(&stubGenerator{text: ai.FallbackMessage}, store.NewNopStore(), nil)

	resp, body := doJSON(t, s, http.MethodPost, "/api/completions", `{"mode":"tailor"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if !strings.Contains(body, ai.FallbackMessage) {
		t.Errorf("body = %s, want fallback message", body)
	}
}

func TestCreateCompletion_UnknownMode(t *testing.T) {
	gen := &stubGenerator{}
	s := New(gen, store.NewNopStore(), nil)

	resp, body := doJSON(t, s, http.MethodPost, "/api/completions", `{"mode":"rewrite"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	if !strings.Contains(body, "unknown mode") {
		t.Errorf("body = %s", body)
	}
	if len(gen.calls) != 0 {
		t.Error("generator should not run for an unknown mode")
	}
}

func TestCreateCompletion_InvalidJSON(t *testing.T) {
	s := New(&stubGenerator{}, store.NewNopStore(), nil)

	resp, _ := doJSON(t, s, http.MethodPost, "/api/completions", `{"mode":`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestListAndGetCompletions(t *testing.T) {
	st := newTestStore(t)
	base := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"older", "newer"} {
		err := st.Save(model.Completion{
			ID:        id,
			Mode:      "tailor",
			Result:    "result " + id,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		})
		if err != nil {
			t.Fatalf("Save: %v", err)
		}
	}
	s := New(&stubGenerator{}, st, nil)

	resp, body := doJSON(t, s, http.MethodGet, "/api/completions?limit=1", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list status = %d", resp.StatusCode)
	}
	var list []completionRecord
	if err := json.Unmarshal([]byte(body), &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list) != 1 || list[0].ID != "newer" {
		t.Errorf("list = %+v, want only newer", list)
	}

	resp, body = doJSON(t, s, http.MethodGet, "/api/completions/older", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get status = %d", resp.StatusCode)
	}
	var rec completionRecord
	if err := json.Unmarshal([]byte(body), &rec); err != nil {
		t.Fatalf("decode record: %v", err)
	}
	if rec.Result != "result older" {
		t.Errorf("record = %+v", rec)
	}

	resp, _ = doJSON(t, s, http.MethodGet, "/api/completions/missing", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("missing status = %d, want 404", resp.StatusCode)
	}
}

func TestRender(t *testing.T) {
	s := New(&stubGenerator{}, store.NewNopStore(), nil)

	resp, body := doJSON(t, s, http.MethodPost, "/api/render", `{"markdown":"## Summary\n\n**Go** engineer"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("content type = %q", ct)
	}
	if !strings.Contains(body, "<h2>Summary</h2>") || !strings.Contains(body, "<strong>Go</strong>") {
		t.Errorf("body = %s", body)
	}
}

func TestHealthz(t *testing.T) {
	s := New(&stubGenerator{}, store.NewNopStore(), nil)

	resp, body := doJSON(t, s, http.MethodGet, "/healthz", "")
	if resp.StatusCode != http.StatusOK || !strings.Contains(body, `"ok"`) {
		t.Errorf("healthz = %d %s", resp.StatusCode, body)
	}
}
