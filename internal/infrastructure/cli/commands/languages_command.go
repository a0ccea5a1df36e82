package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/doeshing/doctrans/internal/app"
	"github.com/doeshing/doctrans/internal/domain"
)

// NewLanguagesCommand creates the languages command
func NewLanguagesCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "languages",
		Short: "List supported target languages",
		RunE: func(cmd *cobra.Command, args []string) error {
			listLanguages(cmd.OutOrStdout(), container.Config.GetDefaultTargets())
			return nil
		},
	}
}

func listLanguages(out io.Writer, defaults []string) {
	isDefault := make(map[string]bool, len(defaults))
	for _, code := range defaults {
		isDefault[code] = true
	}

	fmt.Fprintf(out, "CODE\tNAME\tDEFAULT\n")
	for _, lang := range domain.SupportedLanguages {
		marker := ""
		if isDefault[lang.Code] {
			marker = "*"
		}
		fmt.Fprintf(out, "%s\t%s\t%s\n", lang.Code, lang.Name, marker)
	}
}
