package mt

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/doeshing/doctrans/internal/domain"
)

func TestLibreTranslateModel(t *testing.T) {
	var got libreTranslateRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"translatedText": "Hello world"})
	}))
	defer server.Close()

	t.Setenv("DOCTRANS_TEST_LT_KEY", "secret")
	model := domain.ModelDefinition{
		Name:       "m2m100",
		Provider:   domain.ProviderKindLibreTranslate,
		Endpoint:   server.URL + "/translate",
		AuthEnvVar: "DOCTRANS_TEST_LT_KEY",
	}
	handle, err := NewFactory().ForModel(model)
	if err != nil {
		t.Fatalf("ForModel() error = %v", err)
	}

	text, err := handle.Translate(context.Background(), "Bonjour le monde", "fr", "en")
	if err != nil {
		t.Fatalf("Translate() error = %v", err)
	}
	if text != "Hello world" {
		t.Fatalf("Translate() = %q", text)
	}
	want := libreTranslateRequest{Q: "Bonjour le monde", Source: "fr", Target: "en", Format: "text", APIKey: "secret"}
	if got != want {
		t.Fatalf("request = %+v, want %+v", got, want)
	}
}

func TestLibreTranslateModelError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"hi is not supported"}`))
	}))
	defer server.Close()

	handle := newHTTPModel(domain.ModelDefinition{Name: "lt", Endpoint: server.URL}, http.DefaultClient, libreTranslateAdapter())
	_, err := handle.Translate(context.Background(), "x", "fr", "hi")
	if err == nil || !strings.Contains(err.Error(), "hi is not supported") {
		t.Fatalf("Translate() error = %v", err)
	}
}

func TestOllamaModel(t *testing.T) {
	var got ollamaRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_, _ = w.Write([]byte(`{"model":"llama3.1","message":{"role":"assistant","content":" नमस्ते दुनिया \n"},"done":true}`))
	}))
	defer server.Close()

	handle := newHTTPModel(domain.ModelDefinition{Name: "ollama", Endpoint: server.URL, ModelID: "llama3.1"}, http.DefaultClient, ollamaAdapter())
	text, err := handle.Translate(context.Background(), "Bonjour le monde", "fr", "hi")
	if err != nil {
		t.Fatalf("Translate() error = %v", err)
	}
	if text != "नमस्ते दुनिया" {
		t.Fatalf("Translate() = %q", text)
	}
	if got.Stream || got.Model != "llama3.1" || len(got.Messages) != 2 {
		t.Fatalf("unexpected request %+v", got)
	}
	if !strings.Contains(got.Messages[0].Content, "French (fr) to Hindi (hi)") {
		t.Fatalf("system prompt = %q", got.Messages[0].Content)
	}
	if got.Messages[1].Role != "user" || got.Messages[1].Content != "Bonjour le monde" {
		t.Fatalf("user message = %+v", got.Messages[1])
	}
}
