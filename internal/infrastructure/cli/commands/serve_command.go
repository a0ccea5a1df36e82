package commands

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/doeshing/doctrans/internal/app"
	"github.com/doeshing/doctrans/internal/infrastructure/httpapi"
)

// NewServeCommand creates the serve command
func NewServeCommand(container *app.Container) *cobra.Command {
	var (
		addr  string
		model string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the upload, translate and history API over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = container.Config.GetServerAddr()
			}

			// The model is loaded once and shared by every request.
			service, err := container.NewTranslateService(model)
			if err != nil {
				return err
			}

			cfg := container.Config
			router := httpapi.New(service, container.HistoryStore, container.Logger, httpapi.Options{
				DefaultTargets: cfg.GetDefaultTargets(),
				Timeout:        time.Duration(cfg.GetTimeoutSeconds()) * time.Second,
				MaxUploadMB:    cfg.Server.MaxUploadMB,
				HistoryLimit:   cfg.Server.HistoryLimit,
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			cmd.PrintErrf("Listening on %s\n", addr)
			return httpapi.Serve(ctx, addr, router, container.Logger)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config)")
	cmd.Flags().StringVarP(&model, "model", "m", "", "Override model name (default from config)")
	return cmd
}
