package domain

import (
	"fmt"
	"strings"
)

// Language is a supported target language.
type Language struct {
	Code string
	Name string
}

// SupportedLanguages lists the selectable target languages in display order.
var SupportedLanguages = []Language{
	{Code: "en", Name: "English"},
	{Code: "hi", Name: "Hindi"},
	{Code: "fr", Name: "French"},
	{Code: "ar", Name: "Arabic"},
	{Code: "ja", Name: "Japanese"},
	{Code: "zh", Name: "Chinese"},
	{Code: "es", Name: "Spanish"},
	{Code: "de", Name: "German"},
	{Code: "ru", Name: "Russian"},
}

// DefaultTargetLanguages is used when the caller selects nothing.
var DefaultTargetLanguages = []string{"en", "hi", "fr"}

// LanguageName returns the English name for code, or the code itself.
func LanguageName(code string) string {
	for _, l := range SupportedLanguages {
		if l.Code == code {
			return l.Name
		}
	}
	return code
}

// IsSupportedLanguage reports whether code is selectable as a target.
func IsSupportedLanguage(code string) bool {
	for _, l := range SupportedLanguages {
		if l.Code == code {
			return true
		}
	}
	return false
}

// ParseTargets splits comma separated codes, lowercases them, drops blanks and
// duplicates (first occurrence wins) and rejects unsupported codes.
func ParseTargets(values []string) ([]string, error) {
	var targets []string
	seen := make(map[string]bool)
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			code := strings.ToLower(strings.TrimSpace(part))
			if code == "" || seen[code] {
				continue
			}
			if !IsSupportedLanguage(code) {
				return nil, fmt.Errorf("%w: %s", ErrUnsupportedLanguage, code)
			}
			seen[code] = true
			targets = append(targets, code)
		}
	}
	return targets, nil
}
