package domain

import (
	"fmt"
	"path/filepath"
	"strings"
)

// MediaType is the declared type of an uploaded document.
type MediaType string

const (
	MediaTypePDF  MediaType = "application/pdf"
	MediaTypeJPEG MediaType = "image/jpeg"
	MediaTypePNG  MediaType = "image/png"
)

// IsImage reports whether the media type must go through OCR.
func (m MediaType) IsImage() bool {
	return m == MediaTypeJPEG || m == MediaTypePNG
}

// Supported reports whether documents of this type can be extracted.
func (m MediaType) Supported() bool {
	return m == MediaTypePDF || m.IsImage()
}

// Document is an uploaded blob plus its declared media type.
type Document struct {
	Name      string
	MediaType MediaType
	Data      []byte
}

// Empty reports whether no document was provided.
func (d *Document) Empty() bool {
	return d == nil || len(d.Data) == 0
}

// MediaTypeFromExtension maps a file name to a supported media type.
func MediaTypeFromExtension(name string) (MediaType, bool) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return MediaTypePDF, true
	case ".jpg", ".jpeg":
		return MediaTypeJPEG, true
	case ".png":
		return MediaTypePNG, true
	default:
		return "", false
	}
}

// DownloadFileName is the name offered for a translated text download.
func DownloadFileName(lang string) string {
	return fmt.Sprintf("translated_%s.txt", lang)
}
