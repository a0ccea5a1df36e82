package app

import (
	"context"
	"fmt"

	"github.com/doeshing/doctrans/internal/application/doctor"
	"github.com/doeshing/doctrans/internal/application/translate"
	"github.com/doeshing/doctrans/internal/domain"
	"github.com/doeshing/doctrans/internal/infrastructure/cache"
	"github.com/doeshing/doctrans/internal/infrastructure/config"
	"github.com/doeshing/doctrans/internal/infrastructure/extract"
	"github.com/doeshing/doctrans/internal/infrastructure/history"
	"github.com/doeshing/doctrans/internal/infrastructure/langdetect"
	"github.com/doeshing/doctrans/internal/infrastructure/mt"
	"github.com/doeshing/doctrans/internal/infrastructure/ocr"
	"github.com/doeshing/doctrans/internal/pkg/logger"
	"github.com/doeshing/doctrans/internal/ports"
)

// Container wires up application services with infrastructure adapters.
// The translation model is not loaded here; commands that translate call
// NewTranslateService once at startup.
type Container struct {
	Config         domain.Config
	ConfigProvider ports.ConfigProvider
	ConfigLoader   *config.FileLoader
	DoctorService  *doctor.Service
	HistoryStore   ports.HistoryRepository
	CacheStore     ports.CacheRepository
	Extractor      ports.TextExtractor
	Detector       ports.LanguageDetector
	Logger         ports.Logger
}

// BuildContainer constructs the dependency graph.
func BuildContainer(ctx context.Context, verbose bool) (*Container, error) {
	cfgLoader := config.NewFileLoader("")
	cfg, err := cfgLoader.Load(ctx)
	if err != nil {
		return nil, err
	}

	log := logger.NewStd(verbose)

	historyStore, err := history.Open(cfg.History)
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}

	cacheStore, err := cache.FromSettings(cfg.Cache)
	if err != nil {
		return nil, fmt.Errorf("cache settings: %w", err)
	}

	extractor := extract.New(ocr.NewTesseractEngine(cfg.OCR), extract.ImageOptions{
		UpscaleMinWidth: cfg.OCR.UpscaleMinWidth,
		Grayscale:       true,
	})

	doctorService := &doctor.Service{
		ConfigProvider: cfgLoader,
		History:        historyStore,
		OCRVersion:     ocr.Version,
	}

	return &Container{
		Config:         cfg,
		ConfigProvider: cfgLoader,
		ConfigLoader:   cfgLoader,
		DoctorService:  doctorService,
		HistoryStore:   historyStore,
		CacheStore:     cacheStore,
		Extractor:      extractor,
		Detector:       langdetect.New(log),
		Logger:         log,
	}, nil
}

// NewTranslateService loads the named model (the default one when empty)
// and returns a service bound to it.
func (c *Container) NewTranslateService(modelName string) (*translate.Service, error) {
	model, err := c.LoadModel(modelName)
	if err != nil {
		return nil, err
	}
	return &translate.Service{
		Extractor: c.Extractor,
		Detector:  c.Detector,
		Model:     model,
		History:   c.HistoryStore,
		Logger:    c.Logger,
	}, nil
}

// HistoryService returns a service that can only read history. It needs no
// model, so history commands work without API keys.
func (c *Container) HistoryService() *translate.Service {
	return &translate.Service{
		History: c.HistoryStore,
		Logger:  c.Logger,
	}
}

// LoadModel builds the translation model handle for modelName.
func (c *Container) LoadModel(modelName string) (ports.TranslationModel, error) {
	def, err := c.Config.SelectModel(modelName)
	if err != nil {
		return nil, err
	}
	opts := []mt.Option{mt.WithLogger(c.Logger)}
	if c.Config.Cache.Enabled {
		opts = append(opts, mt.WithCache(c.CacheStore))
	}
	model, err := mt.NewFactory(opts...).ForModel(def)
	if err != nil {
		return nil, fmt.Errorf("load model: %w", err)
	}
	c.Logger.Debug("model loaded", map[string]interface{}{
		"model":    def.Name,
		"provider": string(def.Provider),
	})
	return model, nil
}
