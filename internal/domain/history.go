package domain

import (
	"time"
	"unicode/utf8"
)

// HistoryEntry is one persisted record of a single translate action.
type HistoryEntry struct {
	Timestamp    string            `json:"timestamp"`
	SourceLang   string            `json:"source_lang"`
	OriginalText string            `json:"original_text"`
	Translations TranslationResult `json:"translations"`
}

// NewHistoryEntry builds an entry stamped with now, truncating the source text
// to MaxHistoryTextRunes characters.
func NewHistoryEntry(now time.Time, text, sourceLang string, translations TranslationResult) HistoryEntry {
	return HistoryEntry{
		Timestamp:    now.Format(HistoryTimestampFormat),
		SourceLang:   sourceLang,
		OriginalText: TruncateRunes(text, MaxHistoryTextRunes),
		Translations: translations.Clone(),
	}
}

// Time parses the entry timestamp. Malformed timestamps yield the zero time.
func (e HistoryEntry) Time() time.Time {
	// the naive layout also accepts any fractional seconds
	for _, layout := range []string{"2006-01-02T15:04:05", time.RFC3339Nano} {
		if t, err := time.ParseInLocation(layout, e.Timestamp, time.Local); err == nil {
			return t
		}
	}
	return time.Time{}
}

// TruncateRunes returns the first n characters of s.
func TruncateRunes(s string, n int) string {
	if n < 0 {
		return s
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

// CacheEntry stores a cached model translation.
type CacheEntry struct {
	Key        string    `json:"key"`
	SourceLang string    `json:"source_lang"`
	TargetLang string    `json:"target_lang"`
	Model      string    `json:"model"`
	Text       string    `json:"text"`
	CreatedAt  time.Time `json:"created_at"`
}
