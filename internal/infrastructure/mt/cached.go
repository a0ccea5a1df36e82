package mt

import (
	"context"
	"time"

	"github.com/doeshing/doctrans/internal/domain"
	"github.com/doeshing/doctrans/internal/infrastructure/cache"
	"github.com/doeshing/doctrans/internal/ports"
)

// cached serves repeated (model, source, target, text) requests from the
// translation cache. Failures are never cached.
type cached struct {
	inner  ports.TranslationModel
	store  ports.CacheStore
	logger ports.Logger
}

func newCached(inner ports.TranslationModel, store ports.CacheStore, logger ports.Logger) *cached {
	return &cached{inner: inner, store: store, logger: logger}
}

func (m *cached) Name() string {
	return m.inner.Name()
}

func (m *cached) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	key := cache.Key(m.inner.Name(), sourceLang, targetLang, text)
	if entry, ok, err := m.store.Get(key); err != nil {
		m.warn("cache read failed", err, key)
	} else if ok {
		m.debug("cache hit", key, targetLang)
		return entry.Text, nil
	}

	translated, err := m.inner.Translate(ctx, text, sourceLang, targetLang)
	if err != nil {
		return "", err
	}
	if err := m.store.Set(domain.CacheEntry{
		Key:        key,
		SourceLang: sourceLang,
		TargetLang: targetLang,
		Model:      m.inner.Name(),
		Text:       translated,
		CreatedAt:  time.Now(),
	}); err != nil {
		m.warn("cache write failed", err, key)
	}
	return translated, nil
}

func (m *cached) warn(msg string, err error, key string) {
	if m.logger == nil {
		return
	}
	m.logger.Warn(msg, map[string]interface{}{"key": key, "error": err.Error()})
}

func (m *cached) debug(msg, key, target string) {
	if m.logger == nil {
		return
	}
	m.logger.Debug(msg, map[string]interface{}{"key": key, "target": target})
}
