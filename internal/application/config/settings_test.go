package config

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/doeshing/doctrans/internal/domain"
)

func TestSetAppliesTypedValues(t *testing.T) {
	tests := []struct {
		key   string
		value string
		check func(domain.Config) interface{}
		want  interface{}
	}{
		{"preferences.default_targets", "ja, EN ,ja", func(c domain.Config) interface{} { return c.Preferences.DefaultTargets }, []string{"ja", "en"}},
		{"preferences.default_model", "gpt", func(c domain.Config) interface{} { return c.Preferences.DefaultModel }, "gpt"},
		{"preferences.timeout", "90", func(c domain.Config) interface{} { return c.Preferences.TimeoutSeconds }, 90},
		{"ocr.languages", "eng,fra", func(c domain.Config) interface{} { return c.OCR.Languages }, []string{"eng", "fra"}},
		{"history.backend", "sqlite", func(c domain.Config) interface{} { return c.History.Backend }, domain.HistoryBackendSQLite},
		{"cache.enabled", "true", func(c domain.Config) interface{} { return c.Cache.Enabled }, true},
		{"cache.ttl", "30m", func(c domain.Config) interface{} { return c.Cache.TTL }, "30m"},
		{"server.max_upload_mb", "8", func(c domain.Config) interface{} { return c.Server.MaxUploadMB }, 8},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			cfg := validConfig()
			if err := Set(&cfg, tt.key, tt.value); err != nil {
				t.Fatalf("Set(%s, %q) error = %v", tt.key, tt.value, err)
			}
			if diff := cmp.Diff(tt.want, tt.check(cfg)); diff != "" {
				t.Fatalf("value mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSetRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"preferences.default_targets", "en,tlh"},
		{"preferences.default_targets", " , "},
		{"preferences.default_model", "missing"},
		{"preferences.timeout", "0"},
		{"preferences.timeout", "soon"},
		{"ocr.languages", ""},
		{"history.backend", "csv"},
		{"cache.enabled", "maybe"},
		{"cache.ttl", "forever"},
		{"server.history_limit", "-1"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			cfg := validConfig()
			if err := Set(&cfg, tt.key, tt.value); err == nil {
				t.Fatalf("Set(%s, %q) succeeded", tt.key, tt.value)
			}
		})
	}
}

func TestSetUnsupportedTargetKeepsErrorKind(t *testing.T) {
	cfg := validConfig()
	err := Set(&cfg, "preferences.default_targets", "xx")
	if !errors.Is(err, domain.ErrUnsupportedLanguage) {
		t.Fatalf("Set() error = %v, want ErrUnsupportedLanguage", err)
	}
	if diff := cmp.Diff([]string{"en"}, cfg.Preferences.DefaultTargets); diff != "" {
		t.Fatalf("targets changed on rejected value (-want +got):\n%s", diff)
	}
}

func TestGetAndUnknownKeys(t *testing.T) {
	cfg := validConfig()

	got, err := Get(cfg, "history.backend")
	if err != nil || got != domain.HistoryBackendJSON {
		t.Fatalf("Get(history.backend) = %q, %v", got, err)
	}
	if got, _ := Get(cfg, "preferences.default_targets"); got != "en" {
		t.Fatalf("Get(preferences.default_targets) = %q", got)
	}

	if _, err := Get(cfg, "models"); !errors.Is(err, ErrUnknownSetting) {
		t.Fatalf("Get(models) error = %v", err)
	}
	if err := Set(&cfg, "server.port", "80"); !errors.Is(err, ErrUnknownSetting) {
		t.Fatalf("Set(server.port) error = %v", err)
	}
}

func TestSettingsCoverEveryKeyOnce(t *testing.T) {
	seen := map[string]bool{}
	cfg := validConfig()
	for _, s := range Settings() {
		if seen[s.Key] {
			t.Fatalf("duplicate key %s", s.Key)
		}
		seen[s.Key] = true
		if _, err := Get(cfg, s.Key); err != nil {
			t.Fatalf("Get(%s) error = %v", s.Key, err)
		}
	}
}
