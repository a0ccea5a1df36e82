package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/doeshing/doctrans/internal/domain"
)

// ErrUnknownSetting is returned for keys outside the settings table.
var ErrUnknownSetting = errors.New("unknown setting")

// Setting is one key editable through `doctrans config get|set`.
type Setting struct {
	Key   string
	Usage string
	get   func(domain.Config) string
	set   func(*domain.Config, string) error
}

var settings = []Setting{
	{
		Key:   "preferences.default_model",
		Usage: "model used when --model is not given; must be configured",
		get:   func(c domain.Config) string { return c.Preferences.DefaultModel },
		set:   func(c *domain.Config, v string) error { return c.SetDefaultModel(v) },
	},
	{
		Key:   "preferences.default_targets",
		Usage: "comma separated target codes",
		get:   func(c domain.Config) string { return strings.Join(c.Preferences.DefaultTargets, ",") },
		set: func(c *domain.Config, v string) error {
			targets, err := domain.ParseTargets([]string{v})
			if err != nil {
				return err
			}
			if len(targets) == 0 {
				return errors.New("at least one target language is required")
			}
			c.Preferences.DefaultTargets = targets
			return nil
		},
	},
	{
		Key:   "preferences.output_dir",
		Usage: "directory for translated_<code>.txt files",
		get:   func(c domain.Config) string { return c.Preferences.OutputDir },
		set:   func(c *domain.Config, v string) error { c.Preferences.OutputDir = v; return nil },
	},
	{
		Key:   "preferences.timeout",
		Usage: "translate timeout in seconds",
		get:   func(c domain.Config) string { return strconv.Itoa(c.Preferences.TimeoutSeconds) },
		set:   intSetter(func(c *domain.Config, n int) { c.Preferences.TimeoutSeconds = n }, 1),
	},
	{
		Key:   "ocr.languages",
		Usage: "comma separated tesseract language packs, e.g. eng,fra",
		get:   func(c domain.Config) string { return strings.Join(c.OCR.Languages, ",") },
		set: func(c *domain.Config, v string) error {
			langs := splitList(v)
			if len(langs) == 0 {
				return errors.New("at least one OCR language is required")
			}
			c.OCR.Languages = langs
			return nil
		},
	},
	{
		Key:   "ocr.dpi",
		Usage: "render resolution for scanned pages, 0 keeps the default",
		get:   func(c domain.Config) string { return strconv.Itoa(c.OCR.DPI) },
		set:   intSetter(func(c *domain.Config, n int) { c.OCR.DPI = n }, 0),
	},
	{
		Key:   "ocr.upscale_min_width",
		Usage: "images narrower than this are upscaled before OCR",
		get:   func(c domain.Config) string { return strconv.Itoa(c.OCR.UpscaleMinWidth) },
		set:   intSetter(func(c *domain.Config, n int) { c.OCR.UpscaleMinWidth = n }, 0),
	},
	{
		Key:   "history.backend",
		Usage: "json or sqlite",
		get:   func(c domain.Config) string { return c.GetHistoryBackend() },
		set: func(c *domain.Config, v string) error {
			switch v {
			case domain.HistoryBackendJSON, domain.HistoryBackendSQLite:
				c.History.Backend = v
				return nil
			}
			return fmt.Errorf("history backend must be %s or %s, got %q", domain.HistoryBackendJSON, domain.HistoryBackendSQLite, v)
		},
	},
	{
		Key:   "history.path",
		Usage: "history file location",
		get:   func(c domain.Config) string { return c.GetHistoryPath() },
		set:   func(c *domain.Config, v string) error { c.History.Path = v; return nil },
	},
	{
		Key:   "cache.enabled",
		Usage: "true or false",
		get:   func(c domain.Config) string { return strconv.FormatBool(c.Cache.Enabled) },
		set: func(c *domain.Config, v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("cache.enabled: %w", err)
			}
			c.Cache.Enabled = b
			return nil
		},
	},
	{
		Key:   "cache.ttl",
		Usage: "cache entry lifetime, e.g. 24h",
		get:   func(c domain.Config) string { return c.Cache.TTL },
		set: func(c *domain.Config, v string) error {
			if _, err := time.ParseDuration(v); err != nil {
				return fmt.Errorf("cache.ttl: %w", err)
			}
			c.Cache.TTL = v
			return nil
		},
	},
	{
		Key:   "cache.max_entries",
		Usage: "entries kept before the oldest are pruned",
		get:   func(c domain.Config) string { return strconv.Itoa(c.Cache.MaxEntries) },
		set:   intSetter(func(c *domain.Config, n int) { c.Cache.MaxEntries = n }, 0),
	},
	{
		Key:   "server.addr",
		Usage: "listen address of doctrans serve",
		get:   func(c domain.Config) string { return c.GetServerAddr() },
		set:   func(c *domain.Config, v string) error { c.Server.Addr = v; return nil },
	},
	{
		Key:   "server.max_upload_mb",
		Usage: "largest accepted upload in MB",
		get:   func(c domain.Config) string { return strconv.Itoa(c.Server.MaxUploadMB) },
		set:   intSetter(func(c *domain.Config, n int) { c.Server.MaxUploadMB = n }, 1),
	},
	{
		Key:   "server.history_limit",
		Usage: "entries returned by GET /api/history",
		get:   func(c domain.Config) string { return strconv.Itoa(c.Server.HistoryLimit) },
		set:   intSetter(func(c *domain.Config, n int) { c.Server.HistoryLimit = n }, 1),
	},
}

// Settings lists the editable keys in display order.
func Settings() []Setting {
	return append([]Setting(nil), settings...)
}

// Get returns the current value of key.
func Get(cfg domain.Config, key string) (string, error) {
	s, err := lookup(key)
	if err != nil {
		return "", err
	}
	return s.get(cfg), nil
}

// Set parses value for key and applies it to cfg. The whole config is then
// validated so a rejected value leaves cfg unusable for saving.
func Set(cfg *domain.Config, key, value string) error {
	s, err := lookup(key)
	if err != nil {
		return err
	}
	if err := s.set(cfg, strings.TrimSpace(value)); err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	return Validate(*cfg)
}

func lookup(key string) (Setting, error) {
	for _, s := range settings {
		if s.Key == key {
			return s, nil
		}
	}
	return Setting{}, fmt.Errorf("%w: %s", ErrUnknownSetting, key)
}

func intSetter(apply func(*domain.Config, int), floor int) func(*domain.Config, string) error {
	return func(c *domain.Config, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("expected an integer, got %q", v)
		}
		if n < floor {
			return fmt.Errorf("must be >= %d, got %d", floor, n)
		}
		apply(c, n)
		return nil
	}
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
