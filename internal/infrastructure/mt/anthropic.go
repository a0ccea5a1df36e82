package mt

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/doeshing/doctrans/internal/domain"
	"github.com/doeshing/doctrans/internal/ports"
)

type anthropicModel struct {
	model  domain.ModelDefinition
	client *anthropic.Client
}

func newAnthropicModel(model domain.ModelDefinition, httpClient *http.Client, opts ...option.RequestOption) (ports.TranslationModel, error) {
	apiKey := resolveAuth(model.AuthEnvVar, "ANTHROPIC_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("missing API key: set %s or ANTHROPIC_API_KEY", valueOrDefault(model.AuthEnvVar, "ANTHROPIC_API_KEY"))
	}
	opts = append([]option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithHTTPClient(httpClient),
	}, opts...)
	if model.Endpoint != "" {
		opts = append(opts, option.WithBaseURL(model.Endpoint))
	}
	return &anthropicModel{
		model:  model,
		client: anthropic.NewClient(opts...),
	}, nil
}

func (m *anthropicModel) Name() string {
	return m.model.Name
}

func (m *anthropicModel) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	rendered, err := renderPromptMessages(m.model, newPromptData(text, sourceLang, targetLang))
	if err != nil {
		return "", err
	}
	system, chat := splitSystemMessages(rendered)

	messages := make([]anthropic.MessageParam, 0, len(chat))
	for _, msg := range chat {
		if msg.Role == "assistant" {
			messages = append(messages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(msg.Content)))
			continue
		}
		messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Content)))
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.F(anthropic.Model(valueOrDefault(m.model.ModelID, "claude-3-5-sonnet-20240620"))),
		MaxTokens: anthropic.F(int64(valueOrDefaultInt(m.model.MaxTokens, domain.DefaultMaxTokens))),
		Messages:  anthropic.F(messages),
	}
	if system != "" {
		params.System = anthropic.F([]anthropic.TextBlockParam{
			anthropic.NewTextBlock(system),
		})
	}

	message, err := m.client.Messages.New(ctx, params)
	if err != nil {
		return "", err
	}

	var parts []string
	for _, block := range message.Content {
		switch block := block.AsUnion().(type) {
		case anthropic.TextBlock:
			parts = append(parts, block.Text)
		default:
		}
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("%s: response contained no text", m.model.Name)
	}
	return strings.TrimSpace(strings.Join(parts, "\n")), nil
}
