package mt

import (
	"bytes"
	"strings"
	"text/template"

	"github.com/doeshing/doctrans/internal/domain"
)

// promptData is exposed to prompt templates.
type promptData struct {
	Text       string
	SourceLang string
	SourceName string
	TargetLang string
	TargetName string
}

func newPromptData(text, sourceLang, targetLang string) promptData {
	return promptData{
		Text:       text,
		SourceLang: sourceLang,
		SourceName: domain.LanguageName(sourceLang),
		TargetLang: targetLang,
		TargetName: domain.LanguageName(targetLang),
	}
}

// renderPromptMessages expands model prompt templates and ensures a user
// message carrying the text exists.
func renderPromptMessages(model domain.ModelDefinition, data promptData) ([]domain.PromptMessage, error) {
	messages := model.Prompt
	if len(messages) == 0 {
		messages = defaultTemplateMessages()
	}

	rendered := make([]domain.PromptMessage, 0, len(messages)+1)
	for _, msg := range messages {
		content, err := executeTemplate(msg.Content, data)
		if err != nil {
			return nil, err
		}
		rendered = append(rendered, domain.PromptMessage{
			Role:    strings.ToLower(msg.Role),
			Content: strings.TrimSpace(content),
		})
	}

	if !hasUserMessage(rendered) {
		rendered = append(rendered, domain.PromptMessage{Role: "user", Content: data.Text})
	}
	return rendered, nil
}

// splitSystemMessages separates system instructions from chat turns.
func splitSystemMessages(messages []domain.PromptMessage) (string, []domain.PromptMessage) {
	var systemLines []string
	var chat []domain.PromptMessage
	for _, msg := range messages {
		if msg.Role == "system" {
			systemLines = append(systemLines, msg.Content)
			continue
		}
		chat = append(chat, msg)
	}
	return strings.TrimSpace(strings.Join(systemLines, "\n")), chat
}

func executeTemplate(raw string, data promptData) (string, error) {
	tmpl, err := template.New("prompt").Option("missingkey=error").Parse(raw)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func hasUserMessage(messages []domain.PromptMessage) bool {
	for _, msg := range messages {
		if msg.Role == "user" {
			return true
		}
	}
	return false
}

func defaultTemplateMessages() []domain.PromptMessage {
	return []domain.PromptMessage{
		{
			Role: "system",
			Content: `You are a professional translator.
Translate the user's text from {{.SourceName}} ({{.SourceLang}}) to {{.TargetName}} ({{.TargetLang}}).
Reply with the translation only. Keep line breaks and do not add notes.`,
		},
		{
			Role:    "user",
			Content: "{{.Text}}",
		},
	}
}
