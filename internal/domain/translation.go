package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ErrorPrefix marks a per-target translation failure recorded in place of text.
const ErrorPrefix = "Error: "

// TargetResult is the outcome of translating into a single target language.
type TargetResult struct {
	Lang string
	Text string
	Err  error
}

// Value renders the result the way it is displayed and persisted.
func (r TargetResult) Value() string {
	if r.Err != nil {
		return ErrorPrefix + r.Err.Error()
	}
	return r.Text
}

// TranslationPair is a single language/text entry of a TranslationResult.
// Failed is set only for results produced in this process; it is not
// persisted, so pairs read back from history always report false.
type TranslationPair struct {
	Lang   string `json:"lang"`
	Text   string `json:"text"`
	Failed bool   `json:"-"`
}

// TranslationResult maps target language codes to translated text (or an
// error description) while keeping insertion order. The zero value is empty
// and ready to use.
type TranslationResult struct {
	pairs []TranslationPair
}

// NewTranslationResult collects per-target results in order.
func NewTranslationResult(results ...TargetResult) TranslationResult {
	var out TranslationResult
	for _, r := range results {
		out.set(TranslationPair{Lang: r.Lang, Text: r.Value(), Failed: r.Err != nil})
	}
	return out
}

// Set stores text for lang as a successful translation. An existing key
// keeps its position.
func (r *TranslationResult) Set(lang, text string) {
	r.set(TranslationPair{Lang: lang, Text: text})
}

func (r *TranslationResult) set(pair TranslationPair) {
	for i := range r.pairs {
		if r.pairs[i].Lang == pair.Lang {
			r.pairs[i] = pair
			return
		}
	}
	r.pairs = append(r.pairs, pair)
}

// Failed reports whether the translation into lang failed.
func (r TranslationResult) Failed(lang string) bool {
	for _, p := range r.pairs {
		if p.Lang == lang {
			return p.Failed
		}
	}
	return false
}

// Get returns the text stored for lang.
func (r TranslationResult) Get(lang string) (string, bool) {
	for _, p := range r.pairs {
		if p.Lang == lang {
			return p.Text, true
		}
	}
	return "", false
}

// Len returns the number of languages.
func (r TranslationResult) Len() int {
	return len(r.pairs)
}

// Langs returns the language codes in insertion order.
func (r TranslationResult) Langs() []string {
	langs := make([]string, 0, len(r.pairs))
	for _, p := range r.pairs {
		langs = append(langs, p.Lang)
	}
	return langs
}

// Pairs returns a copy of the ordered entries.
func (r TranslationResult) Pairs() []TranslationPair {
	return append([]TranslationPair(nil), r.pairs...)
}

// Map returns an unordered copy.
func (r TranslationResult) Map() map[string]string {
	m := make(map[string]string, len(r.pairs))
	for _, p := range r.pairs {
		m[p.Lang] = p.Text
	}
	return m
}

// Clone returns an independent copy.
func (r TranslationResult) Clone() TranslationResult {
	return TranslationResult{pairs: r.Pairs()}
}

// FailedLangs lists the targets whose translation failed.
func (r TranslationResult) FailedLangs() []string {
	var failed []string
	for _, p := range r.pairs {
		if p.Failed {
			failed = append(failed, p.Lang)
		}
	}
	return failed
}

// MarshalJSON encodes the result as a JSON object whose keys follow insertion order.
func (r TranslationResult) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, p := range r.pairs {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := marshalString(p.Lang)
		if err != nil {
			return nil, err
		}
		val, err := marshalString(p.Text)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object, keeping the key order of the document.
func (r *TranslationResult) UnmarshalJSON(data []byte) error {
	r.pairs = nil
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("translations: expected object, got %v", tok)
	}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("translations: unexpected key %v", keyTok)
		}
		var text string
		if err := dec.Decode(&text); err != nil {
			return fmt.Errorf("translations[%s]: %w", key, err)
		}
		r.Set(key, text)
	}
	_, err = dec.Token()
	return err
}

func marshalString(s string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
