package domain

import "fmt"

// GetDefaultModel retrieves the default model definition from configuration
// Returns an error if the default model is not found
func (c *Config) GetDefaultModel() (ModelDefinition, error) {
	if c.Preferences.DefaultModel == "" {
		return ModelDefinition{}, fmt.Errorf("no default model configured")
	}

	for _, model := range c.Models {
		if model.Name == c.Preferences.DefaultModel {
			return model, nil
		}
	}

	return ModelDefinition{}, fmt.Errorf("default model %s not found in configuration", c.Preferences.DefaultModel)
}

// FindModelByName searches for a model by its name
// Returns the model definition and true if found, empty model and false otherwise
func (c *Config) FindModelByName(name string) (ModelDefinition, bool) {
	for _, model := range c.Models {
		if model.Name == name {
			return model, true
		}
	}
	return ModelDefinition{}, false
}

// HasModel checks if a model with the given name exists in the configuration
func (c *Config) HasModel(name string) bool {
	_, exists := c.FindModelByName(name)
	return exists
}

// AddModel appends a new model definition
// Returns an error if a model with the same name already exists
func (c *Config) AddModel(model ModelDefinition) error {
	if c.HasModel(model.Name) {
		return fmt.Errorf("model with name %s already exists", model.Name)
	}

	c.Models = append(c.Models, model)
	return nil
}

// RemoveModel deletes the named model. When it was the default, the first
// remaining model becomes the default.
func (c *Config) RemoveModel(name string) error {
	for i, model := range c.Models {
		if model.Name != name {
			continue
		}
		c.Models = append(c.Models[:i], c.Models[i+1:]...)
		if c.Preferences.DefaultModel == name {
			c.Preferences.DefaultModel = ""
			if len(c.Models) > 0 {
				c.Preferences.DefaultModel = c.Models[0].Name
			}
		}
		return nil
	}
	return fmt.Errorf("model %s not found", name)
}

// SetDefaultModel sets the default model
// Returns an error if the model doesn't exist
func (c *Config) SetDefaultModel(name string) error {
	if !c.HasModel(name) {
		return fmt.Errorf("cannot set default model: model %s does not exist", name)
	}

	c.Preferences.DefaultModel = name
	return nil
}

// SelectModel returns the named model, falling back to the default one when
// name is empty.
func (c *Config) SelectModel(name string) (ModelDefinition, error) {
	if name == "" {
		return c.GetDefaultModel()
	}
	model, ok := c.FindModelByName(name)
	if !ok {
		return ModelDefinition{}, fmt.Errorf("model %s not configured", name)
	}
	return model, nil
}

// GetDefaultTargets returns the configured default targets or the built-in set
func (c *Config) GetDefaultTargets() []string {
	if len(c.Preferences.DefaultTargets) == 0 {
		return append([]string(nil), DefaultTargetLanguages...)
	}
	return append([]string(nil), c.Preferences.DefaultTargets...)
}

// GetOutputDir returns where download files are written
func (c *Config) GetOutputDir() string {
	if c.Preferences.OutputDir == "" {
		return "."
	}
	return c.Preferences.OutputDir
}

// GetTimeoutSeconds returns the translate action timeout in seconds
func (c *Config) GetTimeoutSeconds() int {
	if c.Preferences.TimeoutSeconds <= 0 {
		return DefaultTimeoutSeconds
	}
	return c.Preferences.TimeoutSeconds
}

// GetHistoryBackend returns the configured history backend
func (c *Config) GetHistoryBackend() string {
	if c.History.Backend == "" {
		return HistoryBackendJSON
	}
	return c.History.Backend
}

// GetHistoryPath returns the history file location
func (c *Config) GetHistoryPath() string {
	if c.History.Path == "" {
		return DefaultHistoryFile
	}
	return c.History.Path
}

// GetCacheMaxEntries returns the maximum number of cache entries
func (c *Config) GetCacheMaxEntries() int {
	if c.Cache.MaxEntries <= 0 {
		return DefaultMaxCacheEntries
	}
	return c.Cache.MaxEntries
}

// GetServerAddr returns the listen address of the HTTP server
func (c *Config) GetServerAddr() string {
	if c.Server.Addr == "" {
		return DefaultServerAddr
	}
	return c.Server.Addr
}

// ValidateConsistency checks the internal consistency of the configuration
// Returns an error if there are inconsistencies (e.g., default model doesn't exist)
func (c *Config) ValidateConsistency() error {
	if c.Preferences.DefaultModel != "" && len(c.Models) == 0 {
		return fmt.Errorf("default model is set but no models are configured")
	}

	if c.Preferences.DefaultModel != "" && !c.HasModel(c.Preferences.DefaultModel) {
		return fmt.Errorf("default model %s does not exist in models list", c.Preferences.DefaultModel)
	}

	for _, target := range c.Preferences.DefaultTargets {
		if !IsSupportedLanguage(target) {
			return fmt.Errorf("default target %s: %w", target, ErrUnsupportedLanguage)
		}
	}

	return nil
}
