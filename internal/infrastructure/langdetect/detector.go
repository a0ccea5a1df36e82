// Package langdetect identifies the language of extracted text.
package langdetect

import (
	"fmt"
	"strings"

	"github.com/abadojack/whatlanggo"
	"golang.org/x/text/language"

	"github.com/doeshing/doctrans/internal/domain"
	"github.com/doeshing/doctrans/internal/ports"
)

// Detector implements ports.LanguageDetector on top of whatlanggo trigram
// profiles. Results are normalised to ISO 639-1 base codes ("zh", not "cmn").
type Detector struct {
	logger ports.Logger
}

// New returns a detector. logger may be nil.
func New(logger ports.Logger) *Detector {
	return &Detector{logger: logger}
}

// Detect returns the best guess for text. Unreliable guesses on short input
// are still returned; only text without letters is rejected.
func (d *Detector) Detect(text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", domain.ErrUndetectable
	}
	info := whatlanggo.Detect(text)
	code := info.Lang.Iso6391()
	if code == "" {
		code = info.Lang.Iso6393()
	}
	if code == "" {
		return "", domain.ErrUndetectable
	}
	normalized, err := Normalize(code)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrUndetectable, err)
	}
	if d.logger != nil {
		d.logger.Debug("language detected", map[string]interface{}{
			"lang":       normalized,
			"confidence": info.Confidence,
			"reliable":   info.IsReliable(),
		})
	}
	return normalized, nil
}

// Normalize reduces a BCP 47 or ISO 639 code such as "zh-cn", "zh_TW" or
// "cmn" to its base language code.
func Normalize(code string) (string, error) {
	tag, err := language.All.Parse(strings.ReplaceAll(strings.TrimSpace(code), "_", "-"))
	if err != nil {
		return "", fmt.Errorf("parse language %q: %w", code, err)
	}
	base, _ := tag.Base()
	return base.String(), nil
}

var _ ports.LanguageDetector = (*Detector)(nil)
