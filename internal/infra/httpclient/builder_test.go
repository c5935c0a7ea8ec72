package httpclient

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kumar-tinkesh/headless-api-call-with-model/internal/domain"
)

func TestBuildJSONRequest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected method POST, got %s", r.Method)
		}
		if r.URL.Path != "/process-query" {
			t.Errorf("expected path /process-query, got %s", r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected content-type json, got %s", ct)
		}
		if r.Header.Get("Authorization") != "Bearer abc" {
			t.Errorf("expected authorization header")
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Errorf("failed reading body: %v", err)
		}
		var decoded map[string]any
		if err := json.Unmarshal(body, &decoded); err != nil {
			t.Errorf("expected valid json body: %v", err)
		}
		if decoded["query"] != "x" {
			t.Errorf("expected query payload, got %v", decoded)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	req, err := BuildJSONRequest(
		context.Background(),
		http.MethodPost,
		server.URL+"/process-query",
		map[string]string{"query": "x"},
		domain.Headers{"Authorization": "Bearer abc"},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("failed request: %v", err)
	}
	resp.Body.Close()
}

func TestBuildJSONRequestNoPayload(t *testing.T) {
	req, err := BuildJSONRequest(context.Background(), http.MethodGet, "http://example.com", nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Header.Get("Content-Type") != "" {
		t.Fatalf("expected no content-type without payload")
	}
	if req.Header.Get("Accept") != "application/json" {
		t.Fatalf("expected accept header")
	}
}

func TestBuildJSONRequestEmptyURL(t *testing.T) {
	_, err := BuildJSONRequest(context.Background(), http.MethodPost, "  ", map[string]string{}, nil)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.KindInvalidRequest) {
		t.Fatalf("expected invalid_request, got %v", err)
	}
}
