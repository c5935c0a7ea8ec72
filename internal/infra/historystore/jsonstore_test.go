package historystore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/kumar-tinkesh/headless-api-call-with-model/internal/domain"
)

func newArtifact(start time.Time) domain.QueryArtifact {
	return domain.QueryArtifact{
		ID:         "a-1",
		Query:      "Create a Task: call Bob!",
		Endpoint:   "http://localhost:8000/process-query",
		StartedAt:  start,
		FinishedAt: start.Add(2 * time.Second),
		Outcome:    domain.OutcomeOK,
		StatusCode: 200,
		LatencyMS:  2000,
		Response: map[string]any{
			"updated_mdl_res_with_value": map[string]any{
				"endpoint_url": "http://e",
				"payload": map[string]any{
					"title":     "call Bob",
					"api_token": "abc123",
				},
			},
			"external_api_response": map[string]any{"Authorization": "Bearer x"},
		},
	}
}

func TestSave_CreatesJSONFile(t *testing.T) {
	tmp := t.TempDir()
	cfg := domain.DefaultConfig()
	cfg.Masking.Enabled = false

	start := time.Date(2026, 2, 3, 10, 11, 12, 0, time.UTC)
	id, err := NewJSONStore(tmp, cfg).Save(newArtifact(start))
	if err != nil {
		t.Fatalf("Save error: %v", err)
	}
	if id != "a-1" {
		t.Fatalf("expected artifact id, got %q", id)
	}

	wantFile := filepath.Join(tmp, "history", "20260203T101112Z_create-a-task-call-bob.json")
	b, err := os.ReadFile(wantFile)
	if err != nil {
		t.Fatalf("expected file at %s: %v", wantFile, err)
	}

	var decoded domain.QueryArtifact
	if err := json.Unmarshal(b, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.Query != "Create a Task: call Bob!" || decoded.StatusCode != 200 {
		t.Fatalf("unexpected artifact: %+v", decoded)
	}
}

func TestSave_AssignsIDWhenMissing(t *testing.T) {
	a := newArtifact(time.Date(2026, 2, 3, 10, 11, 12, 0, time.UTC))
	a.ID = ""

	id, err := NewJSONStore(t.TempDir(), domain.DefaultConfig()).Save(a)
	if err != nil {
		t.Fatalf("Save error: %v", err)
	}
	if len(id) != 36 {
		t.Fatalf("expected uuid id, got %q", id)
	}
}

func TestSave_MasksSensitiveKeysWhenEnabled(t *testing.T) {
	tmp := t.TempDir()
	cfg := domain.DefaultConfig()
	cfg.Masking.Enabled = true

	start := time.Date(2026, 2, 3, 10, 11, 12, 0, time.UTC)
	a := newArtifact(start)
	if _, err := NewJSONStore(tmp, cfg).Save(a); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	payload := a.Response["updated_mdl_res_with_value"].(map[string]any)["payload"].(map[string]any)
	if payload["api_token"] != "abc123" {
		t.Fatalf("expected original artifact not mutated")
	}

	b, err := os.ReadFile(filepath.Join(tmp, "history", "20260203T101112Z_create-a-task-call-bob.json"))
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	var decoded domain.QueryArtifact
	if err := json.Unmarshal(b, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	got := decoded.Response["updated_mdl_res_with_value"].(map[string]any)["payload"].(map[string]any)
	if got["api_token"] != maskValue {
		t.Fatalf("expected api_token masked, got %v", got["api_token"])
	}
	if got["title"] != "call Bob" {
		t.Fatalf("expected title preserved, got %v", got["title"])
	}
	ext := decoded.Response["external_api_response"].(map[string]any)
	if ext["Authorization"] != maskValue {
		t.Fatalf("expected Authorization masked, got %v", ext["Authorization"])
	}
}

func TestSave_UsesUniqueFilenameOnCollision(t *testing.T) {
	tmp := t.TempDir()
	store := NewJSONStore(tmp, domain.DefaultConfig())
	start := time.Date(2026, 2, 3, 10, 11, 12, 0, time.UTC)

	if _, err := store.Save(newArtifact(start)); err != nil {
		t.Fatalf("Save #1 error: %v", err)
	}
	if _, err := store.Save(newArtifact(start)); err != nil {
		t.Fatalf("Save #2 error: %v", err)
	}

	p2 := filepath.Join(tmp, "history", "20260203T101112Z_create-a-task-call-bob-2.json")
	if _, err := os.Stat(p2); err != nil {
		t.Fatalf("expected second file at %s: %v", p2, err)
	}
}

func TestList_NewestFirstWithLimit(t *testing.T) {
	tmp := t.TempDir()
	store := NewJSONStore(tmp, domain.DefaultConfig())
	base := time.Date(2026, 2, 3, 10, 0, 0, 0, time.UTC)

	for i, q := range []string{"first", "second", "third"} {
		a := newArtifact(base.Add(time.Duration(i) * time.Minute))
		a.ID = q
		a.Query = q
		if _, err := store.Save(a); err != nil {
			t.Fatalf("Save %s: %v", q, err)
		}
	}

	refs, err := store.List(2)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(refs) != 2 || refs[0].ID != "third" || refs[1].ID != "second" {
		t.Fatalf("unexpected refs: %+v", refs)
	}
	if refs[0].File != "20260203T100200Z_third.json" {
		t.Fatalf("unexpected file: %q", refs[0].File)
	}

	all, err := store.List(0)
	if err != nil || len(all) != 3 {
		t.Fatalf("expected 3 refs, got %d (%v)", len(all), err)
	}
}

func TestList_EmptyWhenNoHistory(t *testing.T) {
	refs, err := NewJSONStore(t.TempDir(), domain.DefaultConfig()).List(10)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(refs) != 0 {
		t.Fatalf("expected no refs, got %+v", refs)
	}
}

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"Hello World", "hello-world"},
		{"  --weird__name..  ", "weird-name"},
		{"ümlaut café", "mlaut-caf"},
		{strings.Repeat("a", 50), strings.Repeat("a", 40)},
	}
	for _, c := range cases {
		if got := slugify(c.in); got != c.want {
			t.Errorf("slugify(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
