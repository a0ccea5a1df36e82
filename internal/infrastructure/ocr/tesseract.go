// Package ocr wraps the Tesseract engine through gosseract.
package ocr

import (
	"context"
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"github.com/doeshing/doctrans/internal/domain"
	"github.com/doeshing/doctrans/internal/ports"
)

// TesseractEngine implements ports.OCREngine. A fresh client is created per
// call since gosseract clients are not safe for concurrent use.
type TesseractEngine struct {
	languages     []string
	dpi           int
	clientFactory func() *gosseract.Client
}

// NewTesseractEngine builds an engine from the OCR config section.
func NewTesseractEngine(settings domain.OCRSettings) *TesseractEngine {
	return &TesseractEngine{
		languages:     settings.Languages,
		dpi:           settings.DPI,
		clientFactory: gosseract.NewClient,
	}
}

// Name implements ports.OCREngine.
func (e *TesseractEngine) Name() string { return "tesseract" }

// Recognize implements ports.OCREngine.
func (e *TesseractEngine) Recognize(ctx context.Context, image []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	c := e.clientFactory()
	defer c.Close()

	if err := c.SetImageFromBytes(image); err != nil {
		return "", fmt.Errorf("set image: %w", err)
	}
	if len(e.languages) > 0 {
		if err := c.SetLanguage(e.languages...); err != nil {
			return "", fmt.Errorf("set languages: %w", err)
		}
	}
	if e.dpi > 0 {
		if err := c.SetVariable(gosseract.SettableVariable("user_defined_dpi"), fmt.Sprint(e.dpi)); err != nil {
			return "", fmt.Errorf("set dpi: %w", err)
		}
	}
	text, err := c.Text()
	if err != nil {
		return "", fmt.Errorf("recognize text: %w", err)
	}
	return strings.TrimSpace(text), nil
}

// Version reports the linked Tesseract version, used by doctor.
func Version() string {
	return gosseract.Version()
}

var _ ports.OCREngine = (*TesseractEngine)(nil)
