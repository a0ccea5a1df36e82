package httpapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/doeshing/doctrans/internal/domain"
	"github.com/doeshing/doctrans/internal/ports"
)

// MsgUploadFirst is returned when a translate request carries no document.
const MsgUploadFirst = "Please upload a document first."

// MsgNoHistory is returned when nothing has been translated yet.
const MsgNoHistory = "No history found."

// Handler serves the translate and history routes.
type Handler struct {
	translator Translator
	history    ports.HistoryRepository
	runs       *runStore
	logger     ports.Logger
	opts       Options
}

// TranslationItem is one per-target result of a translate request.
type TranslationItem struct {
	Lang  string `json:"lang"`
	Name  string `json:"name"`
	Text  string `json:"text"`
	Error bool   `json:"error"`
}

// Download points at a translated text file.
type Download struct {
	Lang     string `json:"lang"`
	FileName string `json:"file_name"`
	URL      string `json:"url"`
}

// TranslateResponse is the body returned by POST /api/translate.
type TranslateResponse struct {
	RunID            string            `json:"run_id"`
	DetectedLanguage string            `json:"detected_language"`
	Translations     []TranslationItem `json:"translations"`
	Downloads        []Download        `json:"downloads"`
}

// HistoryItem is one entry of GET /api/history.
type HistoryItem struct {
	Index      int                      `json:"index"`
	Timestamp  string                   `json:"timestamp"`
	SourceLang string                   `json:"source_lang"`
	Previews   []domain.TranslationPair `json:"previews"`
	Downloads  []Download               `json:"downloads"`
}

// Translate handles POST /api/translate.
func (h *Handler) Translate(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil || file == nil || file.Size == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"warning": MsgUploadFirst})
		return
	}

	targets, err := domain.ParseTargets(c.PostFormArray("targets"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	if len(targets) == 0 {
		targets = append([]string(nil), h.opts.DefaultTargets...)
	}
	if len(targets) == 0 {
		targets = append([]string(nil), domain.DefaultTargetLanguages...)
	}

	src, err := file.Open()
	if err != nil {
		h.respondError(c, fmt.Errorf("open upload: %w", err))
		return
	}
	defer src.Close()
	data, err := io.ReadAll(src)
	if err != nil {
		h.respondError(c, fmt.Errorf("read upload: %w", err))
		return
	}

	doc := &domain.Document{Name: file.Filename, Data: data}
	if declared := domain.MediaType(file.Header.Get("Content-Type")); declared.Supported() {
		doc.MediaType = declared
	}

	ctx, cancel := h.opts.requestContext(c.Request.Context())
	defer cancel()

	resp, err := h.translator.Run(domain.TranslateRequest{
		Context:  ctx,
		Document: doc,
		Targets:  targets,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	runID := resp.RunID
	if runID == "" {
		runID = uuid.NewString()
	}
	h.runs.put(runID, resp.Translations)

	body := TranslateResponse{
		RunID:            runID,
		DetectedLanguage: resp.SourceLang,
		Translations:     make([]TranslationItem, 0, resp.Translations.Len()),
		Downloads:        make([]Download, 0, resp.Translations.Len()),
	}
	for _, pair := range resp.Translations.Pairs() {
		body.Translations = append(body.Translations, TranslationItem{
			Lang:  pair.Lang,
			Name:  domain.LanguageName(pair.Lang),
			Text:  pair.Text,
			Error: pair.Failed,
		})
		body.Downloads = append(body.Downloads, newDownload(fmt.Sprintf("/api/runs/%s", runID), pair.Lang))
	}
	c.JSON(http.StatusOK, body)
}

// Languages handles GET /api/languages.
func (h *Handler) Languages(c *gin.Context) {
	langs := make([]gin.H, 0, len(domain.SupportedLanguages))
	for _, l := range domain.SupportedLanguages {
		langs = append(langs, gin.H{"code": l.Code, "name": l.Name})
	}
	c.JSON(http.StatusOK, gin.H{
		"languages":       langs,
		"default_targets": h.opts.DefaultTargets,
	})
}

// History handles GET /api/history.
func (h *Handler) History(c *gin.Context) {
	limit := h.opts.HistoryLimit
	if limit <= 0 {
		limit = domain.HistoryViewLimit
	}
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = n
	}

	entries, err := h.history.Recent(c.Request.Context(), limit)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if len(entries) == 0 {
		c.JSON(http.StatusOK, gin.H{"message": MsgNoHistory, "entries": []HistoryItem{}})
		return
	}

	items := make([]HistoryItem, 0, len(entries))
	for i, entry := range entries {
		view := domain.NewHistoryView(entry)
		item := HistoryItem{
			Index:      i,
			Timestamp:  view.Timestamp,
			SourceLang: view.SourceLang,
			Previews:   view.Previews,
			Downloads:  []Download{},
		}
		for _, lang := range entry.Translations.Langs() {
			item.Downloads = append(item.Downloads, newDownload(fmt.Sprintf("/api/history/%d", i), lang))
		}
		items = append(items, item)
	}
	c.JSON(http.StatusOK, gin.H{"entries": items})
}

// Download handles GET /api/history/:index/download/:lang. Index 0 is the
// most recent entry.
func (h *Handler) Download(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid index"})
		return
	}
	entries, err := h.history.Recent(c.Request.Context(), index+1)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if index >= len(entries) {
		c.JSON(http.StatusNotFound, gin.H{"error": "history entry not found"})
		return
	}
	serveTranslation(c, entries[index].Translations, c.Param("lang"))
}

// DownloadRun handles GET /api/runs/:run_id/download/:lang for runs served
// by this process.
func (h *Handler) DownloadRun(c *gin.Context) {
	translations, ok := h.runs.get(c.Param("run_id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
		return
	}
	serveTranslation(c, translations, c.Param("lang"))
}

func serveTranslation(c *gin.Context, translations domain.TranslationResult, lang string) {
	text, ok := translations.Get(lang)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("no translation for %s", lang)})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", domain.DownloadFileName(lang)))
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(text))
}

func (h *Handler) respondError(c *gin.Context, err error) {
	if errors.Is(err, domain.ErrNoDocument) {
		c.JSON(http.StatusBadRequest, gin.H{"warning": MsgUploadFirst})
		return
	}
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", err, map[string]interface{}{"path": c.Request.URL.Path})
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrUnsupportedMedia), errors.Is(err, domain.ErrUnsupportedLanguage):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUndetectable):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func newDownload(base, lang string) Download {
	return Download{
		Lang:     lang,
		FileName: domain.DownloadFileName(lang),
		URL:      fmt.Sprintf("%s/download/%s", base, lang),
	}
}
