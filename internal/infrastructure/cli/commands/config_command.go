package commands

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"text/tabwriter"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/doeshing/doctrans/internal/app"
	configapp "github.com/doeshing/doctrans/internal/application/config"
	"github.com/doeshing/doctrans/internal/domain"
	"github.com/doeshing/doctrans/internal/infrastructure/cli/helpers"
	configinfra "github.com/doeshing/doctrans/internal/infrastructure/config"
)

// NewConfigCommand creates the config command. Without a subcommand it
// prints the effective configuration.
func NewConfigCommand(container *app.Container) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and edit ~/.doctrans/config.yaml",
		RunE: func(cmd *cobra.Command, args []string) error {
			return printConfig(cmd, container)
		},
	}

	configCmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the configuration as YAML",
			RunE: func(cmd *cobra.Command, args []string) error {
				return printConfig(cmd, container)
			},
		},
		&cobra.Command{
			Use:   "path",
			Short: "Print the configuration file location",
			RunE: func(cmd *cobra.Command, args []string) error {
				loader, err := helpers.ConfigLoader(container)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), loader.Path())
				return nil
			},
		},
		newConfigKeysCommand(container),
		newConfigGetCommand(container),
		newConfigSetCommand(container),
		newConfigEditCommand(container),
		newConfigValidateCommand(container),
		newConfigResetCommand(container),
		newConfigDiffCommand(container),
	)

	return configCmd
}

func newConfigKeysCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "keys",
		Short: "List editable settings with their current values",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := container.ConfigProvider.Load(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "KEY\tVALUE\tDESCRIPTION")
			for _, s := range configapp.Settings() {
				value, _ := configapp.Get(cfg, s.Key)
				fmt.Fprintf(w, "%s\t%s\t%s\n", s.Key, value, s.Usage)
			}
			return w.Flush()
		},
	}
}

func newConfigGetCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Print one setting, see 'config keys'",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := container.ConfigProvider.Load(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			value, err := configapp.Get(cfg, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), value)
			return nil
		},
	}
}

func newConfigSetCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:     "set <key> <value>",
		Short:   "Change one setting, see 'config keys'",
		Example: "  doctrans config set preferences.default_targets en,ja,fr\n  doctrans config set history.backend sqlite",
		Args:    cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := container.ConfigProvider.Load(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			if err := configapp.Set(&cfg, args[0], strings.Join(args[1:], " ")); err != nil {
				return err
			}
			return helpers.SaveConfig(container, cfg)
		},
	}
}

func newConfigEditCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "edit",
		Short: "Open the configuration in $EDITOR and validate the result",
		RunE: func(cmd *cobra.Command, args []string) error {
			loader, err := helpers.ConfigLoader(container)
			if err != nil {
				return err
			}
			editor := os.Getenv("EDITOR")
			if editor == "" {
				editor = DefaultEditorCommand
			}
			run := exec.Command(editor, loader.Path())
			run.Stdin = os.Stdin
			run.Stdout = os.Stdout
			run.Stderr = os.Stderr
			if err := run.Run(); err != nil {
				return fmt.Errorf("editor %s: %w", editor, err)
			}

			cfg, err := loader.Load(cmd.Context())
			if err != nil {
				return fmt.Errorf("edited configuration does not load: %w", err)
			}
			if err := configapp.Validate(cfg); err != nil {
				return fmt.Errorf("edited configuration is invalid: %w", err)
			}
			return nil
		},
	}
}

func newConfigValidateCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check models, targets and backends in the configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := container.ConfigProvider.Load(cmd.Context())
			if err == nil {
				err = configapp.Validate(cfg)
			}
			if err != nil {
				return fmt.Errorf("configuration validation failed: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), MsgConfigurationValid)
			return nil
		},
	}
}

func newConfigResetCommand(container *app.Container) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Back up the configuration and restore defaults",
		RunE: func(cmd *cobra.Command, args []string) error {
			loader, err := helpers.ConfigLoader(container)
			if err != nil {
				return err
			}
			if !yes {
				ok, err := helpers.NewPrompter(cmd.InOrStdin(), cmd.OutOrStdout()).
					Confirm(fmt.Sprintf("Replace %s with defaults?", loader.Path()))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), MsgCancelled)
					return nil
				}
			}
			if _, err := loader.Reset(); err != nil {
				return fmt.Errorf("failed to reset configuration: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Configuration reset at %s\n", loader.Path())
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}

func newConfigDiffCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "diff",
		Short: "Show settings and models that differ from the defaults",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := container.ConfigProvider.Load(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			if !printConfigDiff(cmd.OutOrStdout(), configinfra.DefaultConfig(), cfg) {
				fmt.Fprintln(cmd.OutOrStdout(), MsgNoDifferencesFromDefault)
			}
			return nil
		},
	}
}

func printConfig(cmd *cobra.Command, container *app.Container) error {
	cfg, err := container.ConfigProvider.Load(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode configuration: %w", err)
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

// printConfigDiff writes one "key: default => current" line per changed
// setting, then a model list diff. It reports whether anything differed.
func printConfigDiff(out io.Writer, defaults, current domain.Config) bool {
	changed := false
	for _, s := range configapp.Settings() {
		was, _ := configapp.Get(defaults, s.Key)
		now, _ := configapp.Get(current, s.Key)
		if was != now {
			fmt.Fprintf(out, "%s: %s => %s\n", s.Key, was, now)
			changed = true
		}
	}
	if diff := cmp.Diff(defaults.Models, current.Models); diff != "" {
		fmt.Fprintf(out, "models (-default +current):\n%s", diff)
		changed = true
	}
	return changed
}
