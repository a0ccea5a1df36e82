// Package translate orchestrates the extract, detect, translate and persist
// pipeline behind a single translate action.
package translate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/doeshing/doctrans/internal/domain"
	"github.com/doeshing/doctrans/internal/ports"
)

// ErrNoHistory is returned by RecentHistory when nothing has been translated yet.
var ErrNoHistory = errors.New("no history found")

// Service runs translate actions against a model handle that was loaded once.
type Service struct {
	Extractor ports.TextExtractor
	Detector  ports.LanguageDetector
	Model     ports.TranslationModel
	History   ports.HistoryRepository
	Logger    ports.Logger
	Now       func() time.Time
}

// Run processes one uploaded document end to end. A missing document fails
// with domain.ErrNoDocument before any work is done. Any error, including a
// failed history save, returns an empty response.
func (s *Service) Run(req domain.TranslateRequest) (domain.TranslateResponse, error) {
	if req.Document.Empty() {
		return domain.TranslateResponse{}, domain.ErrNoDocument
	}
	if s.Extractor == nil || s.Detector == nil || s.Model == nil || s.Logger == nil {
		return domain.TranslateResponse{}, errors.New("translate.Service dependencies not satisfied")
	}

	ctx := req.Context
	if ctx == nil {
		ctx = context.Background()
	}
	runID := uuid.NewString()
	log := withRun(s.Logger, runID)

	log.Info("extracting text", map[string]interface{}{
		"document":   req.Document.Name,
		"media_type": string(req.Document.MediaType),
	})
	text, err := s.Extractor.Extract(ctx, *req.Document)
	if err != nil {
		return domain.TranslateResponse{}, fmt.Errorf("extract text: %w", err)
	}

	sourceLang, err := s.Detector.Detect(text)
	if err != nil {
		return domain.TranslateResponse{}, fmt.Errorf("detect language: %w", err)
	}
	log.Info("language detected", map[string]interface{}{"source_lang": sourceLang, "chars": len([]rune(text))})

	translations := TranslateAll(ctx, s.Model, text, sourceLang, req.Targets)
	if failed := translations.FailedLangs(); len(failed) > 0 {
		log.Warn("some targets failed", map[string]interface{}{"targets": failed})
	}

	resp := domain.TranslateResponse{
		RunID:         runID,
		SourceLang:    sourceLang,
		ExtractedText: text,
		Translations:  translations,
	}
	if req.SkipHistory || s.History == nil {
		return resp, nil
	}

	entry := domain.NewHistoryEntry(s.now(), text, sourceLang, translations)
	if err := s.History.Append(ctx, entry); err != nil {
		return domain.TranslateResponse{}, fmt.Errorf("save history: %w", err)
	}
	resp.Saved = true
	log.Debug("history saved", map[string]interface{}{"path": s.History.Path()})
	return resp, nil
}

// TranslateAll translates text into every target, in order, calling the model
// once per distinct target. A failing target records "Error: <message>" and
// does not affect the others.
func TranslateAll(ctx context.Context, model ports.TranslationModel, text, sourceLang string, targets []string) domain.TranslationResult {
	seen := make(map[string]bool, len(targets))
	results := make([]domain.TargetResult, 0, len(targets))
	for _, target := range targets {
		if seen[target] {
			continue
		}
		seen[target] = true
		results = append(results, translateOne(ctx, model, text, sourceLang, target))
	}
	return domain.NewTranslationResult(results...)
}

func translateOne(ctx context.Context, model ports.TranslationModel, text, sourceLang, target string) (result domain.TargetResult) {
	result.Lang = target
	defer func() {
		if r := recover(); r != nil {
			result.Text = ""
			result.Err = fmt.Errorf("%v", r)
		}
	}()
	if err := ctx.Err(); err != nil {
		result.Err = err
		return result
	}
	result.Text, result.Err = model.Translate(ctx, text, sourceLang, target)
	return result
}

// RecentHistory returns up to limit entries, most recent first, shaped for display.
func (s *Service) RecentHistory(ctx context.Context, limit int) ([]domain.HistoryView, error) {
	if s.History == nil {
		return nil, ErrNoHistory
	}
	if limit <= 0 {
		limit = domain.HistoryViewLimit
	}
	entries, err := s.History.Recent(ctx, limit)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, ErrNoHistory
	}
	views := make([]domain.HistoryView, 0, len(entries))
	for _, entry := range entries {
		views = append(views, domain.NewHistoryView(entry))
	}
	return views, nil
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

type runLogger struct {
	base  ports.Logger
	runID string
}

func withRun(base ports.Logger, runID string) ports.Logger {
	return runLogger{base: base, runID: runID}
}

func (l runLogger) fields(fields map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(fields)+1)
	for k, v := range fields {
		out[k] = v
	}
	out["run_id"] = l.runID
	return out
}

func (l runLogger) Debug(msg string, fields map[string]interface{}) {
	l.base.Debug(msg, l.fields(fields))
}

func (l runLogger) Info(msg string, fields map[string]interface{}) {
	l.base.Info(msg, l.fields(fields))
}

func (l runLogger) Warn(msg string, fields map[string]interface{}) {
	l.base.Warn(msg, l.fields(fields))
}

func (l runLogger) Error(msg string, err error, fields map[string]interface{}) {
	l.base.Error(msg, err, l.fields(fields))
}
