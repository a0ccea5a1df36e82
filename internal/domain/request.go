package domain

import "context"

// TranslateRequest captures one translate action.
type TranslateRequest struct {
	Context  context.Context
	Document *Document
	Targets  []string
	// SkipHistory leaves the history file untouched.
	SkipHistory bool
}

// TranslateResponse is what the shell renders after a translate action.
type TranslateResponse struct {
	RunID         string
	SourceLang    string
	ExtractedText string
	Translations  TranslationResult
	Saved         bool
}

// HistoryView is a history entry shaped for display.
type HistoryView struct {
	Timestamp  string
	SourceLang string
	Previews   []TranslationPair
}

// PreviewText shortens text to HistoryPreviewRunes characters and appends an ellipsis.
func PreviewText(text string) string {
	return TruncateRunes(text, HistoryPreviewRunes) + "..."
}

// NewHistoryView builds the display form of entry.
func NewHistoryView(entry HistoryEntry) HistoryView {
	pairs := entry.Translations.Pairs()
	previews := make([]TranslationPair, 0, len(pairs))
	for _, p := range pairs {
		previews = append(previews, TranslationPair{Lang: p.Lang, Text: PreviewText(p.Text)})
	}
	return HistoryView{
		Timestamp:  entry.Timestamp,
		SourceLang: entry.SourceLang,
		Previews:   previews,
	}
}
