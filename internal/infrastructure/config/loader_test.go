package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/doeshing/doctrans/internal/domain"
)

func TestLoadWritesDefaultsOnFirstRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	loader := NewFileLoader(path)

	cfg, err := loader.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("default config not written: %v", err)
	}
	if cfg.Preferences.DefaultModel != "m2m100" {
		t.Fatalf("default model = %q", cfg.Preferences.DefaultModel)
	}
	if diff := cmp.Diff([]string{"en", "hi", "fr"}, cfg.Preferences.DefaultTargets); diff != "" {
		t.Fatalf("default targets mismatch (-want +got):\n%s", diff)
	}
	if cfg.History.Path != "history.json" || cfg.History.Backend != domain.HistoryBackendJSON {
		t.Fatalf("unexpected history settings: %+v", cfg.History)
	}

	again, err := loader.Load(context.Background())
	if err != nil {
		t.Fatalf("second Load() error = %v", err)
	}
	if diff := cmp.Diff(cfg, again); diff != "" {
		t.Fatalf("reloaded config differs (-first +second):\n%s", diff)
	}
}

func TestLoadHydratesPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := []byte(`
models:
  - name: local
    provider: ollama
    endpoint: http://localhost:11434/api/chat
    model_id: llama3.1
history:
  backend: sqlite
`)
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := NewFileLoader(path).Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Preferences.DefaultModel != "local" {
		t.Errorf("default model = %q, want local", cfg.Preferences.DefaultModel)
	}
	if cfg.Models[0].MaxTokens != domain.DefaultMaxTokens {
		t.Errorf("max tokens = %d", cfg.Models[0].MaxTokens)
	}
	if cfg.History.Backend != domain.HistoryBackendSQLite {
		t.Errorf("backend = %q", cfg.History.Backend)
	}
	if cfg.Cache.TTL != domain.DefaultCacheTTL || cfg.Server.Addr != domain.DefaultServerAddr {
		t.Errorf("defaults not applied: %+v %+v", cfg.Cache, cfg.Server)
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("models: [\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := NewFileLoader(path).Load(context.Background()); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestPathHonoursEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "env.yaml")
	t.Setenv(EnvConfigPath, path)

	if got := NewFileLoader("").Path(); got != path {
		t.Fatalf("Path() = %q, want %q", got, path)
	}
}

func TestSaveBackupAndReset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	loader := NewFileLoader(path)

	cfg := DefaultConfig()
	cfg.Preferences.DefaultTargets = []string{"ja"}
	if err := loader.Save(cfg); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	backup, err := loader.Backup()
	if err != nil {
		t.Fatalf("Backup() error = %v", err)
	}
	if _, err := os.Stat(backup); err != nil {
		t.Fatalf("backup missing: %v", err)
	}

	reset, err := loader.Reset()
	if err != nil {
		t.Fatalf("Reset() error = %v", err)
	}
	if diff := cmp.Diff(DefaultConfig(), reset); diff != "" {
		t.Fatalf("reset config mismatch (-want +got):\n%s", diff)
	}
}
