package doctor

import (
	"context"
	"fmt"
	"os"

	configapp "github.com/doeshing/doctrans/internal/application/config"
	"github.com/doeshing/doctrans/internal/domain"
	"github.com/doeshing/doctrans/internal/ports"
)

// Service runs environment diagnostics.
type Service struct {
	ConfigProvider ports.ConfigProvider
	History        ports.HistoryRepository
	// OCRVersion reports the linked OCR engine version. Nil skips the check.
	OCRVersion func() string
}

// Run executes checks and returns a report.
func (s *Service) Run(ctx context.Context) (domain.HealthReport, error) {
	var checks []domain.HealthCheck

	cfg, err := s.ConfigProvider.Load(ctx)
	if err != nil {
		checks = append(checks, fail("Config file", fmt.Sprintf("load failed: %v", err)))
		return domain.HealthReport{Checks: checks}, err
	}
	checks = append(checks, ok("Config file", fmt.Sprintf("loaded version %s", cfg.ConfigFormatVersion)))

	if err := configapp.Validate(cfg); err != nil {
		checks = append(checks, fail("Config validation", err.Error()))
	} else {
		checks = append(checks, ok("Config validation", "passed"))
	}

	checks = append(checks, modelCheck(cfg))

	if s.OCRVersion != nil {
		if version := s.OCRVersion(); version != "" {
			checks = append(checks, ok("OCR engine", "tesseract "+version))
		} else {
			checks = append(checks, warn("OCR engine", "tesseract version unknown"))
		}
	}

	checks = append(checks, s.historyCheck(ctx))

	return domain.HealthReport{Checks: checks}, nil
}

func (s *Service) historyCheck(ctx context.Context) domain.HealthCheck {
	if s.History == nil {
		return warn("History", "history store not initialized")
	}
	records, err := s.History.Records(ctx)
	if err != nil {
		return fail("History", err.Error())
	}
	return ok("History", fmt.Sprintf("%d entries in %s", len(records), s.History.Path()))
}

func modelCheck(cfg domain.Config) domain.HealthCheck {
	model, err := cfg.GetDefaultModel()
	if err != nil {
		return fail("Translation model", err.Error())
	}
	switch model.Provider {
	case domain.ProviderKindAnthropic:
		if envMissing(model.AuthEnvVar, "ANTHROPIC_API_KEY") {
			return warn("Translation model", fmt.Sprintf("%s: ANTHROPIC_API_KEY missing", model.Name))
		}
	case domain.ProviderKindOpenAI:
		if envMissing(model.AuthEnvVar, "OPENAI_API_KEY") {
			return warn("Translation model", fmt.Sprintf("%s: OPENAI_API_KEY missing", model.Name))
		}
	case domain.ProviderKindOllama, domain.ProviderKindLibreTranslate:
		if model.Endpoint == "" {
			return warn("Translation model", fmt.Sprintf("%s: endpoint not set, using default", model.Name))
		}
		return ok("Translation model", fmt.Sprintf("%s via %s", model.Name, model.Endpoint))
	}
	return ok("Translation model", fmt.Sprintf("%s (%s)", model.Name, model.Provider))
}

func envMissing(primary, fallback string) bool {
	if primary != "" && os.Getenv(primary) != "" {
		return false
	}
	if fallback != "" && os.Getenv(fallback) != "" {
		return false
	}
	return true
}

func ok(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthOK, Details: details}
}

func warn(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthWarn, Details: details}
}

func fail(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthError, Details: details}
}
