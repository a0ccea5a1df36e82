package domain

// Config mirrors ~/.doctrans/config.yaml.
type Config struct {
	ConfigFormatVersion string            `yaml:"config_format_version"`
	Preferences         Preferences       `yaml:"preferences"`
	Models              []ModelDefinition `yaml:"models"`
	OCR                 OCRSettings       `yaml:"ocr"`
	History             HistorySettings   `yaml:"history"`
	Cache               CacheSettings     `yaml:"cache"`
	Server              ServerSettings    `yaml:"server"`
}

// Preferences captures user level toggles.
type Preferences struct {
	DefaultModel   string   `yaml:"default_model"`
	DefaultTargets []string `yaml:"default_targets"`
	OutputDir      string   `yaml:"output_dir"`
	TimeoutSeconds int      `yaml:"timeout"`
}

// OCRSettings configures the image text recognizer.
type OCRSettings struct {
	Languages       []string `yaml:"languages"`
	DPI             int      `yaml:"dpi"`
	UpscaleMinWidth int      `yaml:"upscale_min_width"`
}

// HistorySettings selects and tunes the history backend.
type HistorySettings struct {
	Backend string `yaml:"backend"`
	Path    string `yaml:"path"`
}

// CacheSettings controls the translation cache.
type CacheSettings struct {
	Enabled    bool   `yaml:"enabled"`
	Dir        string `yaml:"dir"`
	TTL        string `yaml:"ttl"`
	MaxEntries int    `yaml:"max_entries"`
}

// ServerSettings configures `doctrans serve`.
type ServerSettings struct {
	Addr         string `yaml:"addr"`
	MaxUploadMB  int    `yaml:"max_upload_mb"`
	HistoryLimit int    `yaml:"history_limit"`
}
