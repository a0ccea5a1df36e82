package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/doeshing/doctrans/internal/domain"
)

// Validate ensures config structure is consistent.
func Validate(cfg domain.Config) error {
	if len(cfg.Models) == 0 {
		return errors.New("at least one model must be configured")
	}
	if err := cfg.ValidateConsistency(); err != nil {
		return err
	}
	seen := make(map[string]bool, len(cfg.Models))
	for _, model := range cfg.Models {
		if err := validateModel(model); err != nil {
			return err
		}
		if seen[model.Name] {
			return fmt.Errorf("model %s declared twice", model.Name)
		}
		seen[model.Name] = true
	}
	if err := validateHistory(cfg.History); err != nil {
		return err
	}
	if err := validateCache(cfg.Cache); err != nil {
		return err
	}
	if err := validateOCR(cfg.OCR); err != nil {
		return err
	}
	return nil
}

func validateModel(model domain.ModelDefinition) error {
	if strings.TrimSpace(model.Name) == "" {
		return errors.New("model name must be set")
	}
	switch model.Provider {
	case domain.ProviderKindOpenAI, domain.ProviderKindAnthropic:
	case domain.ProviderKindOllama, domain.ProviderKindLibreTranslate:
		if model.Endpoint == "" {
			return fmt.Errorf("model %s: endpoint is required for %s", model.Name, model.Provider)
		}
	default:
		return fmt.Errorf("model %s: unsupported provider %q", model.Name, model.Provider)
	}
	if model.RequestsPerSecond < 0 {
		return fmt.Errorf("model %s: requests_per_second must be >= 0", model.Name)
	}
	return nil
}

func validateHistory(history domain.HistorySettings) error {
	switch history.Backend {
	case "", domain.HistoryBackendJSON, domain.HistoryBackendSQLite:
		return nil
	default:
		return fmt.Errorf("history.backend must be json|sqlite, got %s", history.Backend)
	}
}

func validateCache(cache domain.CacheSettings) error {
	if cache.TTL != "" {
		if _, err := time.ParseDuration(cache.TTL); err != nil {
			return fmt.Errorf("cache.ttl invalid: %w", err)
		}
	}
	if cache.MaxEntries < 0 {
		return fmt.Errorf("cache.max_entries must be >= 0")
	}
	return nil
}

func validateOCR(ocr domain.OCRSettings) error {
	if ocr.DPI < 0 {
		return fmt.Errorf("ocr.dpi must be >= 0")
	}
	if ocr.UpscaleMinWidth < 0 {
		return fmt.Errorf("ocr.upscale_min_width must be >= 0")
	}
	return nil
}
