package commands

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/doeshing/doctrans/internal/app"
	"github.com/doeshing/doctrans/internal/application/translate"
	"github.com/doeshing/doctrans/internal/domain"
	"github.com/doeshing/doctrans/internal/infrastructure/cli/helpers"
)

// NewHistoryCommand creates the history command with all subcommands
func NewHistoryCommand(container *app.Container) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect translation history",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showRecentHistory(cmd, container, domain.HistoryViewLimit)
		},
	}

	historyCmd.AddCommand(
		newHistoryShowCommand(container),
		newHistoryListCommand(container),
		newHistorySearchCommand(container),
		newHistoryClearCommand(container),
		newHistoryExportCommand(container),
	)

	return historyCmd
}

// newHistoryShowCommand creates the 'history show' subcommand
func newHistoryShowCommand(container *app.Container) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the most recent translations with previews",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showRecentHistory(cmd, container, limit)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", domain.HistoryViewLimit, "Max entries to show")
	return cmd
}

// newHistoryListCommand creates the 'history list' subcommand
func newHistoryListCommand(container *app.Container) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent history entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			return listHistoryEntries(cmd, container, limit)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", domain.DefaultHistoryLimit, "Max entries to show")
	return cmd
}

// newHistorySearchCommand creates the 'history search' subcommand
func newHistorySearchCommand(container *app.Container) *cobra.Command {
	var query string
	var searchLimit int

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search original text and translations for a keyword",
		RunE: func(cmd *cobra.Command, args []string) error {
			if query == "" {
				return fmt.Errorf(ErrQueryRequired)
			}
			return searchHistoryEntries(cmd, container, query, searchLimit)
		},
	}

	cmd.Flags().StringVar(&query, "query", "", "Search keyword")
	cmd.Flags().IntVar(&searchLimit, "limit", domain.DefaultHistorySearchLimit, "Limit search results")
	return cmd
}

// newHistoryClearCommand creates the 'history clear' subcommand
func newHistoryClearCommand(container *app.Container) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Clear history",
		RunE: func(cmd *cobra.Command, args []string) error {
			if container.HistoryStore == nil {
				return fmt.Errorf(ErrHistoryStoreUnavailable)
			}
			if !yes {
				prompt := helpers.NewPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
				ok, err := prompt.Confirm(fmt.Sprintf("Delete all history in %s?", container.HistoryStore.Path()))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), MsgCancelled)
					return nil
				}
			}
			if err := container.HistoryStore.Clear(cmd.Context()); err != nil {
				return fmt.Errorf("failed to clear history: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}

// newHistoryExportCommand creates the 'history export' subcommand
func newHistoryExportCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "export <path>",
		Short: "Export history to a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if container.HistoryStore == nil {
				return fmt.Errorf(ErrHistoryStoreUnavailable)
			}
			if err := container.HistoryStore.ExportJSON(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("failed to export history to %s: %w", args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "History exported to %s\n", args[0])
			return nil
		},
	}
}

// showRecentHistory prints the newest entries with truncated previews
func showRecentHistory(cmd *cobra.Command, container *app.Container, limit int) error {
	views, err := container.HistoryService().RecentHistory(cmd.Context(), limit)
	if errors.Is(err, translate.ErrNoHistory) {
		fmt.Fprintln(cmd.OutOrStdout(), MsgNoHistory)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read history: %w", err)
	}

	RenderHistory(cmd.OutOrStdout(), views)
	return nil
}

// RenderHistory prints history views, one block per entry.
func RenderHistory(out io.Writer, views []domain.HistoryView) {
	for i, view := range views {
		if i > 0 {
			fmt.Fprintln(out)
		}
		fmt.Fprintf(out, "%s | Detected: %s\n", view.Timestamp, view.SourceLang)
		for _, p := range view.Previews {
			fmt.Fprintf(out, "  %s: %s\n", p.Lang, p.Text)
		}
	}
}

// listHistoryEntries lists entries newest first, one line each
func listHistoryEntries(cmd *cobra.Command, container *app.Container, limit int) error {
	store := container.HistoryStore
	if store == nil {
		return fmt.Errorf(ErrHistoryStoreUnavailable)
	}

	records, err := store.Recent(cmd.Context(), limit)
	if err != nil {
		return fmt.Errorf("failed to retrieve history records: %w", err)
	}

	printEntries(cmd.OutOrStdout(), records)
	return nil
}

// searchHistoryEntries searches history for a keyword
func searchHistoryEntries(cmd *cobra.Command, container *app.Container, query string, limit int) error {
	store := container.HistoryStore
	if store == nil {
		return fmt.Errorf(ErrHistoryStoreUnavailable)
	}

	records, err := store.Search(cmd.Context(), query, limit)
	if err != nil {
		return fmt.Errorf("failed to search history: %w", err)
	}

	printEntries(cmd.OutOrStdout(), records)
	return nil
}

func printEntries(out io.Writer, records []domain.HistoryEntry) {
	if len(records) == 0 {
		fmt.Fprintln(out, MsgNoHistory)
		return
	}
	for _, rec := range records {
		fmt.Fprintf(out, "%s | %s | %v | %s\n",
			rec.Timestamp,
			rec.SourceLang,
			rec.Translations.Langs(),
			domain.TruncateRunes(rec.OriginalText, 60))
	}
}
