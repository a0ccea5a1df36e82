package doctor

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/doeshing/doctrans/internal/domain"
	"github.com/doeshing/doctrans/internal/infrastructure/history"
)

type stubConfigProvider struct {
	cfg domain.Config
	err error
}

func (s stubConfigProvider) Load(context.Context) (domain.Config, error) {
	return s.cfg, s.err
}

func validConfig() domain.Config {
	return domain.Config{
		ConfigFormatVersion: "1",
		Preferences:         domain.Preferences{DefaultModel: "m2m100", DefaultTargets: []string{"en"}},
		Models: []domain.ModelDefinition{
			{Name: "m2m100", Provider: domain.ProviderKindLibreTranslate, Endpoint: "http://localhost:5000/translate"},
		},
		History: domain.HistorySettings{Backend: domain.HistoryBackendJSON, Path: "history.json"},
		Cache:   domain.CacheSettings{TTL: "1h", MaxEntries: 10},
	}
}

func statuses(report domain.HealthReport) map[string]domain.HealthStatus {
	out := make(map[string]domain.HealthStatus)
	for _, c := range report.Checks {
		out[c.Name] = c.Status
	}
	return out
}

func TestRunHealthy(t *testing.T) {
	svc := &Service{
		ConfigProvider: stubConfigProvider{cfg: validConfig()},
		History:        history.NewJSONStore(filepath.Join(t.TempDir(), "history.json")),
		OCRVersion:     func() string { return "5.3.0" },
	}
	report, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	for name, status := range statuses(report) {
		if status != domain.HealthOK {
			t.Errorf("check %s = %s, want ok", name, status)
		}
	}
}

func TestRunReportsCorruptHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	if err := os.WriteFile(path, []byte("not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	svc := &Service{
		ConfigProvider: stubConfigProvider{cfg: validConfig()},
		History:        history.NewJSONStore(path),
	}
	report, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got := statuses(report)["History"]; got != domain.HealthError {
		t.Fatalf("History check = %s, want error", got)
	}
}

func TestRunWarnsOnMissingAPIKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	cfg := validConfig()
	cfg.Preferences.DefaultModel = "gpt"
	cfg.Models = append(cfg.Models, domain.ModelDefinition{Name: "gpt", Provider: domain.ProviderKindOpenAI, AuthEnvVar: "DOCTRANS_DOCTOR_UNSET"})

	report, _ := (&Service{ConfigProvider: stubConfigProvider{cfg: cfg}}).Run(context.Background())
	if got := statuses(report)["Translation model"]; got != domain.HealthWarn {
		t.Fatalf("Translation model check = %s, want warn", got)
	}
}

func TestRunFailsWhenConfigMissing(t *testing.T) {
	svc := &Service{ConfigProvider: stubConfigProvider{err: errors.New("boom")}}
	report, err := svc.Run(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if len(report.Checks) != 1 || report.Checks[0].Status != domain.HealthError {
		t.Fatalf("unexpected report %+v", report)
	}
}
