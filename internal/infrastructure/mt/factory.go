// Package mt provides the translation model backends and their decorators.
//
// A model handle is built once from its config definition:
//   - openai / anthropic: official SDK clients with a rendered chat prompt
//   - ollama: local chat endpoint through the generic HTTP adapter
//   - libretranslate: code-to-code /translate endpoint (M2M100 style servers)
//
// Handles are optionally wrapped with a request rate limiter and a
// translation cache.
package mt

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/doeshing/doctrans/internal/domain"
	"github.com/doeshing/doctrans/internal/ports"
)

// Factory creates translation model handles from model definitions.
// It keeps a single HTTP client shared across all backends.
type Factory struct {
	httpClient *http.Client
	cache      ports.CacheStore
	logger     ports.Logger
}

// Option customises a Factory.
type Option func(*Factory)

// WithHTTPClient replaces the shared HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(f *Factory) { f.httpClient = client }
}

// WithCache enables the translation cache decorator.
func WithCache(cache ports.CacheStore) Option {
	return func(f *Factory) { f.cache = cache }
}

// WithLogger sets the logger used by decorators.
func WithLogger(logger ports.Logger) Option {
	return func(f *Factory) { f.logger = logger }
}

// NewFactory returns a factory with the default HTTP client.
func NewFactory(opts ...Option) *Factory {
	f := &Factory{
		httpClient: &http.Client{Timeout: domain.DefaultHTTPClientTimeout},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// ForModel builds the handle for model, wrapped with the configured decorators.
func (f *Factory) ForModel(model domain.ModelDefinition) (ports.TranslationModel, error) {
	base, err := f.backend(model)
	if err != nil {
		return nil, fmt.Errorf("model %s: %w", model.Name, err)
	}
	var handle ports.TranslationModel = base
	if model.RequestsPerSecond > 0 {
		handle = newRateLimited(handle, model.RequestsPerSecond)
	}
	if f.cache != nil {
		handle = newCached(handle, f.cache, f.logger)
	}
	return handle, nil
}

func (f *Factory) backend(model domain.ModelDefinition) (ports.TranslationModel, error) {
	kind := model.Provider
	if kind == domain.ProviderKindUnknown {
		kind = inferProviderKind(model.Endpoint, model.Name)
	}

	switch kind {
	case domain.ProviderKindOpenAI:
		return newOpenAIModel(model, f.httpClient)
	case domain.ProviderKindAnthropic:
		return newAnthropicModel(model, f.httpClient)
	case domain.ProviderKindOllama:
		return newHTTPModel(model, f.httpClient, ollamaAdapter()), nil
	case domain.ProviderKindLibreTranslate:
		return newHTTPModel(model, f.httpClient, libreTranslateAdapter()), nil
	default:
		return nil, fmt.Errorf("unsupported provider %q", model.Provider)
	}
}

func inferProviderKind(endpoint string, name string) domain.ProviderKind {
	nameLower := strings.ToLower(name)

	switch {
	case strings.Contains(endpoint, "anthropic.com"), strings.Contains(nameLower, "claude"):
		return domain.ProviderKindAnthropic
	case strings.Contains(endpoint, "openai.com"), strings.HasPrefix(nameLower, "gpt"):
		return domain.ProviderKindOpenAI
	case strings.Contains(nameLower, "ollama"), strings.Contains(endpoint, "11434"):
		return domain.ProviderKindOllama
	case strings.HasSuffix(strings.TrimRight(endpoint, "/"), "/translate"), strings.Contains(nameLower, "m2m"):
		return domain.ProviderKindLibreTranslate
	default:
		return domain.ProviderKindUnknown
	}
}

var _ ports.ModelFactory = (*Factory)(nil)
