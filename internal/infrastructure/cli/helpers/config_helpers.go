package helpers

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/doeshing/doctrans/internal/app"
	configapp "github.com/doeshing/doctrans/internal/application/config"
	"github.com/doeshing/doctrans/internal/domain"
	configinfra "github.com/doeshing/doctrans/internal/infrastructure/config"
)

var errConfigLoaderUnavailable = errors.New("config loader unavailable")

// ConfigLoader returns the file loader wired into container.
func ConfigLoader(container *app.Container) (*configinfra.FileLoader, error) {
	if container == nil || container.ConfigLoader == nil {
		return nil, errConfigLoaderUnavailable
	}
	return container.ConfigLoader, nil
}

// SaveConfig validates cfg, backs up the existing file and writes cfg in its
// place. An invalid cfg never touches the file.
func SaveConfig(container *app.Container, cfg domain.Config) error {
	loader, err := ConfigLoader(container)
	if err != nil {
		return err
	}
	if err := configapp.Validate(cfg); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	if _, err := os.Stat(loader.Path()); err == nil {
		if _, err := loader.Backup(); err != nil {
			return fmt.Errorf("failed to back up configuration: %w", err)
		}
	}
	if err := loader.Save(cfg); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}
	return nil
}

// ReadPromptFile loads a YAML list of prompt messages for a model definition.
func ReadPromptFile(path string) ([]domain.PromptMessage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read prompt file: %w", err)
	}
	var prompts []domain.PromptMessage
	if err := yaml.Unmarshal(data, &prompts); err != nil {
		return nil, fmt.Errorf("parse prompt file %s: %w", path, err)
	}
	if len(prompts) == 0 {
		return nil, fmt.Errorf("prompt file %s has no messages", path)
	}
	return prompts, nil
}
