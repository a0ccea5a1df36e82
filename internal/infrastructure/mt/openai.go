package mt

import (
	"context"
	"fmt"
	"net/http"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/doeshing/doctrans/internal/domain"
	"github.com/doeshing/doctrans/internal/ports"
)

// openaiModel serves any OpenAI-compatible chat completions endpoint.
type openaiModel struct {
	model  domain.ModelDefinition
	client *openai.Client
}

func newOpenAIModel(model domain.ModelDefinition, httpClient *http.Client, opts ...option.RequestOption) (ports.TranslationModel, error) {
	apiKey := resolveAuth(model.AuthEnvVar, "OPENAI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("missing API key: set %s or OPENAI_API_KEY", valueOrDefault(model.AuthEnvVar, "OPENAI_API_KEY"))
	}
	opts = append([]option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithHTTPClient(httpClient),
	}, opts...)
	if model.Endpoint != "" {
		opts = append(opts, option.WithBaseURL(model.Endpoint))
	}
	return &openaiModel{
		model:  model,
		client: openai.NewClient(opts...),
	}, nil
}

func (m *openaiModel) Name() string {
	return m.model.Name
}

func (m *openaiModel) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	rendered, err := renderPromptMessages(m.model, newPromptData(text, sourceLang, targetLang))
	if err != nil {
		return "", err
	}

	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(rendered))
	for _, msg := range rendered {
		switch msg.Role {
		case "system":
			messages = append(messages, openai.SystemMessage(msg.Content))
		case "assistant":
			messages = append(messages, openai.AssistantMessage(msg.Content))
		default:
			messages = append(messages, openai.UserMessage(msg.Content))
		}
	}

	completion, err := m.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages:  openai.F(messages),
		Model:     openai.F(openai.ChatModel(valueOrDefault(m.model.ModelID, "gpt-4o-mini"))),
		MaxTokens: openai.Int(int64(valueOrDefaultInt(m.model.MaxTokens, domain.DefaultMaxTokens))),
	})
	if err != nil {
		return "", err
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("%s: empty completion", m.model.Name)
	}
	return completion.Choices[0].Message.Content, nil
}
