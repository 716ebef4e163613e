package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestOllamaGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req map[string]any
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		if req["model"] != "test-model" {
			t.Errorf("expected model 'test-model', got %v", req["model"])
		}
		json.NewEncoder(w).Encode(map[string]any{
			"message": map[string]string{"content": "[14:23] a post"},
		})
	}))
	defer srv.Close()

	p := NewOllamaProvider("test-model", srv.URL)
	got, err := p.Generate(context.Background(), "prompt", 512)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got != "[14:23] a post" {
		t.Errorf("unexpected response: %q", got)
	}
}

func TestOllamaGenerateServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model overloaded", http.StatusInternalServerError)
	}))
	defer srv.Close()

	p := NewOllamaProvider("test-model", srv.URL)
	if _, err := p.Generate(context.Background(), "prompt", 512); err == nil {
		t.Error("expected error on 500 response")
	}
}

func TestOpenAIGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected auth header %q", got)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"content": "generated"}},
			},
		})
	}))
	defer srv.Close()

	p := &OpenAIProvider{Model: "gpt-4o-mini", APIKey: "test-key", BaseURL: srv.URL, client: srv.Client()}
	got, err := p.Generate(context.Background(), "prompt", 512)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got != "generated" {
		t.Errorf("unexpected response: %q", got)
	}
}

func TestOpenAIGenerateNoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	}))
	defer srv.Close()

	p := &OpenAIProvider{Model: "gpt-4o-mini", APIKey: "test-key", BaseURL: srv.URL, client: srv.Client()}
	if _, err := p.Generate(context.Background(), "prompt", 512); err == nil {
		t.Error("expected error when response has no choices")
	}
}

func TestOpenAINotConfigured(t *testing.T) {
	p := NewOpenAIProvider("gpt-4o-mini", "STORYCAST_MISSING_KEY_ENV")
	if p.IsConfigured() {
		t.Error("expected unconfigured provider without API key")
	}
	if _, err := p.Generate(context.Background(), "prompt", 512); err == nil {
		t.Error("expected error from unconfigured provider")
	}
}

func TestGeminiNotConfigured(t *testing.T) {
	p, err := NewGeminiProvider(context.Background(), "gemini-2.0-flash", "STORYCAST_MISSING_KEY_ENV")
	if err != nil {
		t.Fatalf("NewGeminiProvider: %v", err)
	}
	if p.IsConfigured() {
		t.Error("expected unconfigured provider without API key")
	}
	if _, err := p.Generate(context.Background(), "prompt", 512); err == nil {
		t.Error("expected error from unconfigured provider")
	}
}

func TestCreateProviderNoneAvailable(t *testing.T) {
	p := CreateProvider(context.Background(), ProviderConfig{
		Provider:    "openai",
		OpenAIModel: "gpt-4o-mini",
		APIKeyEnv:   "STORYCAST_MISSING_KEY_ENV",
	})
	if p != nil {
		t.Error("expected nil provider when nothing is configured")
	}
}
