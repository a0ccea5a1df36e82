// Package extract turns uploaded documents into plain text.
package extract

import (
	"context"
	"fmt"

	"github.com/doeshing/doctrans/internal/domain"
	"github.com/doeshing/doctrans/internal/ports"
)

// Extractor dispatches on media type: PDFs are read from their text layer
// and images are prepared and handed to the OCR engine.
type Extractor struct {
	OCR     ports.OCREngine
	Prepare ImageOptions
}

// New returns an extractor that uses engine for images.
func New(engine ports.OCREngine, opts ImageOptions) *Extractor {
	return &Extractor{OCR: engine, Prepare: opts}
}

// Extract implements ports.TextExtractor.
func (e *Extractor) Extract(ctx context.Context, doc domain.Document) (string, error) {
	if doc.Empty() {
		return "", domain.ErrNoDocument
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	mediaType := doc.MediaType
	if mediaType == "" {
		mediaType = DetectMediaType(doc.Name, doc.Data)
	}
	switch {
	case mediaType == domain.MediaTypePDF:
		text, err := PDFText(doc.Data)
		if err != nil {
			return "", fmt.Errorf("extract %s: %w", doc.Name, err)
		}
		return text, nil
	case mediaType.IsImage():
		return e.extractImage(ctx, doc)
	default:
		return "", fmt.Errorf("%w: %s", domain.ErrUnsupportedMedia, mediaType)
	}
}

func (e *Extractor) extractImage(ctx context.Context, doc domain.Document) (string, error) {
	if e.OCR == nil {
		return "", fmt.Errorf("extract %s: no OCR engine configured", doc.Name)
	}
	prepared, err := PrepareImage(doc.Data, e.Prepare)
	if err != nil {
		return "", fmt.Errorf("extract %s: %w", doc.Name, err)
	}
	text, err := e.OCR.Recognize(ctx, prepared)
	if err != nil {
		return "", fmt.Errorf("ocr %s with %s: %w", doc.Name, e.OCR.Name(), err)
	}
	return text, nil
}

var _ ports.TextExtractor = (*Extractor)(nil)
