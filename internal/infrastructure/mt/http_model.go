package mt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/doeshing/doctrans/internal/domain"
	"github.com/doeshing/doctrans/internal/ports"
)

const maxErrorBody = 512

// httpModel talks JSON over plain HTTP; the adapter knows the wire format.
type httpModel struct {
	model      domain.ModelDefinition
	httpClient *http.Client
	adapter    providerAdapter
}

type providerAdapter struct {
	defaultEndpoint string
	buildRequest    func(domain.ModelDefinition, promptData) ([]byte, error)
	parseResponse   func([]byte) (string, error)
	setHeaders      func(*http.Request, domain.ModelDefinition) error
}

func newHTTPModel(model domain.ModelDefinition, client *http.Client, adapter providerAdapter) ports.TranslationModel {
	return &httpModel{
		model:      model,
		httpClient: client,
		adapter:    adapter,
	}
}

func (m *httpModel) Name() string {
	return m.model.Name
}

func (m *httpModel) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	requestBody, err := m.adapter.buildRequest(m.model, newPromptData(text, sourceLang, targetLang))
	if err != nil {
		return "", err
	}

	endpoint := valueOrDefault(m.model.Endpoint, m.adapter.defaultEndpoint)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(requestBody))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("content-type", "application/json")
	if m.adapter.setHeaders != nil {
		if err := m.adapter.setHeaders(httpReq, m.model); err != nil {
			return "", err
		}
	}

	resp, err := m.httpClient.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("%s: %s: %s", m.model.Name, resp.Status, errorDetail(body))
	}
	return m.adapter.parseResponse(body)
}

// errorDetail pulls a message out of a JSON error body, or returns a prefix of it.
func errorDetail(body []byte) string {
	var decoded struct {
		Error interface{} `json:"error"`
	}
	if err := json.Unmarshal(body, &decoded); err == nil && decoded.Error != nil {
		switch v := decoded.Error.(type) {
		case string:
			return v
		case map[string]interface{}:
			if msg, ok := v["message"].(string); ok {
				return msg
			}
		}
	}
	detail := strings.TrimSpace(string(body))
	if len(detail) > maxErrorBody {
		detail = detail[:maxErrorBody]
	}
	return detail
}

func ollamaAdapter() providerAdapter {
	return providerAdapter{
		defaultEndpoint: "http://localhost:11434/api/chat",
		buildRequest:    buildOllamaRequest,
		parseResponse:   parseOllamaResponse,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaRequest struct {
	Model    string                 `json:"model"`
	Messages []chatMessage          `json:"messages"`
	Stream   bool                   `json:"stream"`
	Options  map[string]interface{} `json:"options,omitempty"`
}

func buildOllamaRequest(model domain.ModelDefinition, data promptData) ([]byte, error) {
	rendered, err := renderPromptMessages(model, data)
	if err != nil {
		return nil, err
	}
	messages := make([]chatMessage, 0, len(rendered))
	for _, msg := range rendered {
		messages = append(messages, chatMessage{Role: msg.Role, Content: msg.Content})
	}
	request := ollamaRequest{
		Model:    valueOrDefault(model.ModelID, "llama3.1"),
		Messages: messages,
	}
	if model.MaxTokens > 0 {
		request.Options = map[string]interface{}{"num_predict": model.MaxTokens}
	}
	return json.Marshal(request)
}

func parseOllamaResponse(body []byte) (string, error) {
	var response struct {
		Message chatMessage `json:"message"`
		Error   string      `json:"error"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return "", fmt.Errorf("decode ollama response: %w", err)
	}
	if response.Error != "" {
		return "", fmt.Errorf("ollama: %s", response.Error)
	}
	return strings.TrimSpace(response.Message.Content), nil
}

func libreTranslateAdapter() providerAdapter {
	return providerAdapter{
		defaultEndpoint: "http://localhost:5000/translate",
		buildRequest:    buildLibreTranslateRequest,
		parseResponse:   parseLibreTranslateResponse,
	}
}

type libreTranslateRequest struct {
	Q      string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
	Format string `json:"format"`
	APIKey string `json:"api_key,omitempty"`
}

func buildLibreTranslateRequest(model domain.ModelDefinition, data promptData) ([]byte, error) {
	return json.Marshal(libreTranslateRequest{
		Q:      data.Text,
		Source: valueOrDefault(data.SourceLang, "auto"),
		Target: data.TargetLang,
		Format: "text",
		APIKey: resolveAuth(model.AuthEnvVar, ""),
	})
}

func parseLibreTranslateResponse(body []byte) (string, error) {
	var response struct {
		TranslatedText string `json:"translatedText"`
		Error          string `json:"error"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return "", fmt.Errorf("decode translate response: %w", err)
	}
	if response.Error != "" {
		return "", fmt.Errorf("libretranslate: %s", response.Error)
	}
	return response.TranslatedText, nil
}
