package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/doeshing/doctrans/internal/app"
	"github.com/doeshing/doctrans/internal/domain"
	"github.com/doeshing/doctrans/internal/infrastructure/cli/helpers"
)

const modelProbeText = "Hello world"

// NewModelsCommand creates the models command with all subcommands
func NewModelsCommand(container *app.Container) *cobra.Command {
	modelsCmd := &cobra.Command{
		Use:   "models",
		Short: "Manage translation model configurations",
	}

	modelsCmd.AddCommand(
		newModelsListCommand(container),
		newModelsTestCommand(container),
		newModelsUseCommand(container),
		newModelsAddCommand(container),
		newModelsRemoveCommand(container),
	)

	return modelsCmd
}

// newModelsListCommand creates the 'models list' subcommand
func newModelsListCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List configured models",
		RunE: func(cmd *cobra.Command, args []string) error {
			return listModels(cmd.Context(), cmd.OutOrStdout(), container)
		},
	}
}

// newModelsTestCommand creates the 'models test' subcommand
func newModelsTestCommand(container *app.Container) *cobra.Command {
	var target string

	cmd := &cobra.Command{
		Use:   "test <name>",
		Short: "Translate a short probe sentence with a model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return testModel(cmd.Context(), cmd.OutOrStdout(), container, args[0], target)
		},
	}

	cmd.Flags().StringVar(&target, "to", "fr", "Target language of the probe")
	return cmd
}

// newModelsUseCommand creates the 'models use' subcommand
func newModelsUseCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "use <name>",
		Short: "Set default model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return setDefaultModel(cmd.Context(), container, args[0])
		},
	}
}

// newModelsAddCommand creates the 'models add' subcommand
func newModelsAddCommand(container *app.Container) *cobra.Command {
	var opts modelAddOptions

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a new model definition",
		RunE: func(cmd *cobra.Command, args []string) error {
			return addModel(cmd.Context(), container, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Name, "name", "", "Model name (identifier)")
	cmd.Flags().StringVar(&opts.Provider, "provider", "", "Backend: openai, anthropic, ollama or libretranslate")
	cmd.Flags().StringVar(&opts.Endpoint, "endpoint", "", "Provider endpoint URL")
	cmd.Flags().StringVar(&opts.ModelID, "model-id", "", "Model identifier at provider")
	cmd.Flags().StringVar(&opts.AuthEnv, "auth-env", "", "Environment variable containing API key")
	cmd.Flags().StringVar(&opts.PromptFile, "prompt-file", "", "Path to YAML prompt template for this model")
	cmd.Flags().IntVar(&opts.MaxTokens, "max-tokens", domain.DefaultMaxTokens, "Max tokens for responses")
	cmd.Flags().Float64Var(&opts.RequestsPerSecond, "rps", 0, "Client side rate limit, 0 disables it")

	return cmd
}

// newModelsRemoveCommand creates the 'models remove' subcommand
func newModelsRemoveCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <name>",
		Short: "Remove model definition",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return removeModel(cmd.Context(), container, args[0])
		},
	}
}

// modelAddOptions holds options for adding a new model
type modelAddOptions struct {
	Name              string
	Provider          string
	Endpoint          string
	ModelID           string
	AuthEnv           string
	PromptFile        string
	MaxTokens         int
	RequestsPerSecond float64
}

// listModels lists all configured models
func listModels(ctx context.Context, out io.Writer, container *app.Container) error {
	cfg, err := container.ConfigProvider.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	fmt.Fprintf(out, "NAME\tPROVIDER\tMODEL ID\tENDPOINT\tDEFAULT\n")

	for _, model := range cfg.Models {
		defaultMarker := ""
		if cfg.Preferences.DefaultModel == model.Name {
			defaultMarker = "*"
		}
		fmt.Fprintf(out, "%s\t%s\t%s\t%s\t%s\n",
			model.Name,
			model.Provider,
			model.ModelID,
			model.Endpoint,
			defaultMarker)
	}

	return nil
}

// testModel sends a probe translation through the named model
func testModel(ctx context.Context, out io.Writer, container *app.Container, modelName, target string) error {
	if !domain.IsSupportedLanguage(target) {
		return fmt.Errorf("%w: %s", domain.ErrUnsupportedLanguage, target)
	}

	model, err := container.LoadModel(modelName)
	if err != nil {
		return err
	}

	testCtx, cancel := context.WithTimeout(ctx, domain.DefaultModelTestTimeout)
	defer cancel()

	text, err := model.Translate(testCtx, modelProbeText, "en", target)
	if err != nil {
		return fmt.Errorf("model %s test failed: %w", modelName, err)
	}

	fmt.Fprintf(out, "Model %s responded successfully.\n%s -> %s\n", model.Name(), modelProbeText, text)
	return nil
}

// setDefaultModel sets the default model
func setDefaultModel(ctx context.Context, container *app.Container, modelName string) error {
	cfg, err := container.ConfigProvider.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := cfg.SetDefaultModel(modelName); err != nil {
		return err
	}

	return helpers.SaveConfig(container, cfg)
}

// addModel adds a new model definition
func addModel(ctx context.Context, container *app.Container, opts modelAddOptions) error {
	if err := validateModelAddOptions(opts); err != nil {
		return err
	}

	cfg, err := container.ConfigProvider.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	var prompts []domain.PromptMessage
	if opts.PromptFile != "" {
		prompts, err = helpers.ReadPromptFile(opts.PromptFile)
		if err != nil {
			return err
		}
	}

	model := domain.ModelDefinition{
		Name:              opts.Name,
		Provider:          domain.ProviderKind(opts.Provider),
		Endpoint:          opts.Endpoint,
		ModelID:           opts.ModelID,
		AuthEnvVar:        opts.AuthEnv,
		MaxTokens:         opts.MaxTokens,
		RequestsPerSecond: opts.RequestsPerSecond,
		Prompt:            prompts,
	}

	if err := cfg.AddModel(model); err != nil {
		return err
	}

	return helpers.SaveConfig(container, cfg)
}

// removeModel removes a model definition
func removeModel(ctx context.Context, container *app.Container, modelName string) error {
	cfg, err := container.ConfigProvider.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := cfg.RemoveModel(modelName); err != nil {
		return err
	}

	return helpers.SaveConfig(container, cfg)
}

// validateModelAddOptions validates the options for adding a model
func validateModelAddOptions(opts modelAddOptions) error {
	if opts.Name == "" || opts.Provider == "" {
		return fmt.Errorf(ErrModelNameProviderRequired)
	}

	if opts.MaxTokens <= 0 {
		return fmt.Errorf("max-tokens must be positive, got %d", opts.MaxTokens)
	}

	if opts.RequestsPerSecond < 0 {
		return fmt.Errorf("rps must not be negative, got %v", opts.RequestsPerSecond)
	}

	return nil
}
