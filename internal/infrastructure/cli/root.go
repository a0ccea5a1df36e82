package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/doeshing/doctrans/internal/app"
	"github.com/doeshing/doctrans/internal/domain"
	"github.com/doeshing/doctrans/internal/infrastructure/cli/commands"
)

// MsgUploadFirst is printed when translate is invoked without a document.
const MsgUploadFirst = "Please upload a document first."

// Options holds CLI-level configuration.
type Options struct {
	Verbose bool
}

// NewRootCmd wires the cobra root command.
func NewRootCmd(ctx context.Context, opts Options) (*cobra.Command, error) {
	container, err := app.BuildContainer(ctx, opts.Verbose)
	if err != nil {
		return nil, err
	}

	root := &cobra.Command{
		Use:   "doctrans",
		Short: "doctrans - document OCR and translation",
		Long:  "doctrans extracts text from PDFs and scanned images, detects its language and translates it into several target languages.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newTranslateCommand(container))
	root.AddCommand(commands.NewServeCommand(container))
	root.AddCommand(commands.NewHistoryCommand(container))
	root.AddCommand(commands.NewLanguagesCommand(container))
	root.AddCommand(commands.NewModelsCommand(container))
	root.AddCommand(commands.NewConfigCommand(container))
	root.AddCommand(commands.NewCacheCommand(container))
	root.AddCommand(commands.NewDoctorCommand(container))
	root.AddCommand(commands.NewVersionCommand())
	return root, nil
}

func newTranslateCommand(container *app.Container) *cobra.Command {
	var (
		targets   []string
		outDir    string
		model     string
		noSave    bool
		noHistory bool
		copyLang  string
		timeout   time.Duration
	)

	cmd := &cobra.Command{
		Use:   "translate [file]",
		Short: "Extract, detect and translate a PDF or image",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				RenderWarning(cmd.ErrOrStderr(), MsgUploadFirst)
				return nil
			}

			doc, err := readDocument(args[0])
			if err != nil {
				return err
			}
			if doc.Empty() {
				RenderWarning(cmd.ErrOrStderr(), MsgUploadFirst)
				return nil
			}

			selected, err := domain.ParseTargets(targets)
			if err != nil {
				return err
			}
			if len(selected) == 0 {
				selected = container.Config.GetDefaultTargets()
			}
			if timeout <= 0 {
				timeout = time.Duration(container.Config.GetTimeoutSeconds()) * time.Second
			}
			if !cmd.Flags().Changed("out") {
				outDir = container.Config.GetOutputDir()
			}

			service, err := container.NewTranslateService(model)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			spinner := NewSpinner(cmd.ErrOrStderr())
			spinner.SetMessage(fmt.Sprintf("Translating %s into %d languages...", doc.Name, len(selected)))
			spinner.Start()
			resp, err := service.Run(domain.TranslateRequest{
				Context:     ctx,
				Document:    doc,
				Targets:     selected,
				SkipHistory: noHistory,
			})
			spinner.Stop()
			if errors.Is(err, domain.ErrNoDocument) {
				RenderWarning(cmd.ErrOrStderr(), MsgUploadFirst)
				return nil
			}
			return finishTranslate(cmd, resp, err, outputOptions{dir: outDir, noSave: noSave, copyLang: copyLang})
		},
	}

	cmd.Flags().StringSliceVarP(&targets, "to", "t", nil, "Target languages, comma separated (default from config)")
	cmd.Flags().StringVarP(&outDir, "out", "o", ".", "Directory for translated_<code>.txt files")
	cmd.Flags().StringVarP(&model, "model", "m", "", "Override model name (default from config)")
	cmd.Flags().BoolVar(&noSave, "no-save", false, "Do not write translated files")
	cmd.Flags().BoolVar(&noHistory, "no-history", false, "Do not record this run in history")
	cmd.Flags().StringVarP(&copyLang, "copy", "c", "", "Copy the translation for this language to the clipboard")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "Override request timeout")

	return cmd
}

type outputOptions struct {
	dir      string
	noSave   bool
	copyLang string
}

// finishTranslate writes and renders a completed run. A run that returned an
// error leaves no files and prints nothing but the error.
func finishTranslate(cmd *cobra.Command, resp domain.TranslateResponse, runErr error, opts outputOptions) error {
	if runErr != nil {
		return runErr
	}

	var files map[string]string
	if !opts.noSave {
		var err error
		files, err = WriteDownloads(opts.dir, resp.Translations)
		if err != nil {
			return err
		}
	}
	RenderResponse(cmd.OutOrStdout(), resp, files)
	if opts.copyLang != "" {
		if err := NewClipboard().CopyTranslation(resp.Translations, opts.copyLang); err != nil {
			RenderWarning(cmd.ErrOrStderr(), err.Error())
		}
	}
	return nil
}

func readDocument(path string) (*domain.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return &domain.Document{Name: filepath.Base(path), Data: data}, nil
}

// WriteDownloads writes every target to dir as translated_<code>.txt, failed
// targets included, and returns the written paths keyed by language.
func WriteDownloads(dir string, translations domain.TranslationResult) (map[string]string, error) {
	if translations.Len() == 0 {
		return nil, nil
	}
	if err := os.MkdirAll(dir, domain.DirectoryPermissions); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	files := make(map[string]string, translations.Len())
	for _, pair := range translations.Pairs() {
		path := filepath.Join(dir, domain.DownloadFileName(pair.Lang))
		if err := os.WriteFile(path, []byte(pair.Text), domain.FilePermissions); err != nil {
			return files, fmt.Errorf("write %s: %w", path, err)
		}
		files[pair.Lang] = path
	}
	return files, nil
}
