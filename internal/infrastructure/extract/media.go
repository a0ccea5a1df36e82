package extract

import (
	"net/http"
	"strings"

	"github.com/doeshing/doctrans/internal/domain"
)

// DetectMediaType sniffs the content and falls back to the file extension.
// An unknown type is returned as sniffed so callers can report it.
func DetectMediaType(name string, data []byte) domain.MediaType {
	sniffed := http.DetectContentType(data)
	if i := strings.IndexByte(sniffed, ';'); i >= 0 {
		sniffed = sniffed[:i]
	}
	if mt := domain.MediaType(sniffed); mt.Supported() {
		return mt
	}
	if mt, ok := domain.MediaTypeFromExtension(name); ok {
		return mt
	}
	return domain.MediaType(sniffed)
}
