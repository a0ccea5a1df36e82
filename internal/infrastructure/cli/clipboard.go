package cli

import (
	"bytes"
	"fmt"
	"os/exec"
	"runtime"

	"github.com/doeshing/doctrans/internal/domain"
)

// Clipboard copies text using platform-specific tools.
type Clipboard struct{}

// NewClipboard builds the clipboard helper.
func NewClipboard() *Clipboard {
	return &Clipboard{}
}

// Enabled reports whether the platform has a supported clipboard tool.
func (c *Clipboard) Enabled() bool {
	switch runtime.GOOS {
	case "darwin", "linux":
		return true
	default:
		return false
	}
}

// Copy copies text to the system clipboard.
func (c *Clipboard) Copy(text string) error {
	if !c.Enabled() {
		return fmt.Errorf("clipboard not supported on %s", runtime.GOOS)
	}
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("pbcopy")
	default: // linux
		if _, err := exec.LookPath("xclip"); err == nil {
			cmd = exec.Command("xclip", "-selection", "clipboard")
		} else if _, err := exec.LookPath("wl-copy"); err == nil {
			cmd = exec.Command("wl-copy")
		} else {
			return fmt.Errorf("clipboard utilities not found")
		}
	}
	cmd.Stdin = bytes.NewBufferString(text)
	return cmd.Run()
}

// CopyTranslation copies the translation for lang out of result.
func (c *Clipboard) CopyTranslation(result domain.TranslationResult, lang string) error {
	text, ok := result.Get(lang)
	if !ok {
		return fmt.Errorf("no translation for %s to copy", lang)
	}
	if result.Failed(lang) {
		return fmt.Errorf("translation to %s failed, nothing to copy", lang)
	}
	return c.Copy(text)
}
