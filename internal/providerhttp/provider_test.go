package providerhttp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClientCall(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-api-key") != "test-key" {
			t.Errorf("expected api key header, got %q", r.Header.Get("x-api-key"))
		}
		resp := messagesResponse{Content: []contentBlock{{Type: "text", Text: "Bonjour"}}}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewClient("test-key", "claude-test", WithAPIURL(server.URL))
	got, err := client.Call(context.Background(), "Hello", "")
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if got != "Bonjour" {
		t.Errorf("Call = %q, want %q", got, "Bonjour")
	}
}

func TestClientCallAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := messagesResponse{Error: &apiError{Type: "invalid_request_error", Message: "bad model"}}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewClient("test-key", "claude-test", WithAPIURL(server.URL))
	_, err := client.Call(context.Background(), "Hello", "")
	if err == nil {
		t.Fatal("expected error for API error response")
	}
}

func TestClientListModels(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[{"id":"claude-a"},{"id":"claude-b"}]}`))
	}))
	defer server.Close()

	client := NewClient("test-key", "claude-test", WithModelsURL(server.URL))
	models, err := client.ListModels(context.Background())
	if err != nil {
		t.Fatalf("ListModels: %v", err)
	}
	if len(models) != 2 || models[0] != "claude-a" {
		t.Errorf("unexpected models: %v", models)
	}
}
