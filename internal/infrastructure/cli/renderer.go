package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/doeshing/doctrans/internal/domain"
)

const panelWidth = 60

// RenderWarning prints a user-facing warning.
func RenderWarning(out io.Writer, msg string) {
	fmt.Fprintf(out, "Warning: %s\n", msg)
}

// RenderResponse prints the detected language and one text panel per target,
// followed by the download file written for it, if any.
func RenderResponse(out io.Writer, resp domain.TranslateResponse, files map[string]string) {
	fmt.Fprintf(out, "Detected language: %s (%s)\n", domain.LanguageName(resp.SourceLang), resp.SourceLang)

	for _, pair := range resp.Translations.Pairs() {
		title := fmt.Sprintf(" %s (%s) ", domain.LanguageName(pair.Lang), pair.Lang)
		fmt.Fprintln(out)
		fmt.Fprintln(out, panelRule(title))
		fmt.Fprintln(out, pair.Text)
		fmt.Fprintln(out, panelRule(""))
		if path, ok := files[pair.Lang]; ok {
			fmt.Fprintf(out, "Saved: %s\n", path)
		}
	}

	if resp.Saved {
		fmt.Fprintln(out, "\nNote: translation added to history")
	}
}

func panelRule(title string) string {
	if len(title) >= panelWidth {
		return title
	}
	left := (panelWidth - len(title)) / 2
	return strings.Repeat("-", left) + title + strings.Repeat("-", panelWidth-left-len(title))
}
