package commands

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/doeshing/doctrans/internal/app"
	"github.com/doeshing/doctrans/internal/domain"
)

// NewDoctorCommand checks that a translate run can succeed: config, model
// credentials, the OCR engine and the history file.
func NewDoctorCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose configuration, OCR and history setup",
		RunE: func(cmd *cobra.Command, args []string) error {
			if container.DoctorService == nil {
				return fmt.Errorf(ErrDoctorServiceUnavailable)
			}
			report, err := container.DoctorService.Run(cmd.Context())
			failed := renderHealthReport(cmd.OutOrStdout(), report)
			if err != nil {
				return fmt.Errorf("diagnostics aborted: %w", err)
			}
			if failed > 0 {
				return fmt.Errorf("%d check(s) failed", failed)
			}
			return nil
		},
	}
}

var healthLabels = map[domain.HealthStatus]string{
	domain.HealthOK:    "ok",
	domain.HealthWarn:  "WARN",
	domain.HealthError: "FAIL",
}

// renderHealthReport prints one aligned row per check and a summary line,
// returning the number of failed checks.
func renderHealthReport(out io.Writer, report domain.HealthReport) int {
	counts := map[domain.HealthStatus]int{}
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, check := range report.Checks {
		counts[check.Status]++
		label, ok := healthLabels[check.Status]
		if !ok {
			label = string(check.Status)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", label, check.Name, check.Details)
	}
	w.Flush()
	fmt.Fprintf(out, "\n%d ok, %d warnings, %d failed\n",
		counts[domain.HealthOK], counts[domain.HealthWarn], counts[domain.HealthError])
	return counts[domain.HealthError]
}
