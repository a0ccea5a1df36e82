// Package domain defines core business entities and value objects for doctrans.
//
// This file contains translation model and provider definitions used throughout the
// application. The domain layer is independent of infrastructure concerns and
// represents pure business logic and data structures.
package domain

// ProviderKind identifies the backend serving a translation model.
type ProviderKind string

const (
	ProviderKindOpenAI         ProviderKind = "openai"
	ProviderKindAnthropic      ProviderKind = "anthropic"
	ProviderKindOllama         ProviderKind = "ollama"
	ProviderKindLibreTranslate ProviderKind = "libretranslate"
	ProviderKindUnknown        ProviderKind = ""
)

// ModelDefinition describes a translation backend declared in the config file.
// Each model represents a specific service endpoint with its authentication and
// generation parameters.
type ModelDefinition struct {
	Name              string          `yaml:"name"`
	Provider          ProviderKind    `yaml:"provider"`
	Endpoint          string          `yaml:"endpoint"`
	AuthEnvVar        string          `yaml:"auth_env_var"`
	ModelID           string          `yaml:"model_id"`
	MaxTokens         int             `yaml:"max_tokens"`
	RequestsPerSecond float64         `yaml:"requests_per_second"`
	Prompt            []PromptMessage `yaml:"prompt,omitempty"`
}

// PromptMessage follows the role/content pair required by most chat APIs.
// Content is a text/template rendered with the text and language pair.
type PromptMessage struct {
	Role    string `yaml:"role"`
	Content string `yaml:"content"`
}

// IsChatModel reports whether the backend is prompted through chat messages
// rather than a dedicated code-to-code translation endpoint.
func (m ModelDefinition) IsChatModel() bool {
	switch m.Provider {
	case ProviderKindOpenAI, ProviderKindAnthropic, ProviderKindOllama:
		return true
	default:
		return false
	}
}
