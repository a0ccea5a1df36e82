package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/doeshing/doctrans/internal/domain"
	"github.com/doeshing/doctrans/internal/infrastructure/history"
	"github.com/doeshing/doctrans/internal/pkg/logger"
)

type stubTranslator struct {
	calls int
	req   domain.TranslateRequest
	resp  domain.TranslateResponse
	err   error
}

func (s *stubTranslator) Run(req domain.TranslateRequest) (domain.TranslateResponse, error) {
	s.calls++
	s.req = req
	return s.resp, s.err
}

func newTestRouter(t *testing.T, tr Translator) (http.Handler, *history.JSONStore) {
	t.Helper()
	store := history.NewJSONStore(filepath.Join(t.TempDir(), "history.json"))
	r := New(tr, store, logger.New(&bytes.Buffer{}, false), Options{
		DefaultTargets: []string{"en", "hi", "fr"},
		Timeout:        time.Minute,
	})
	return r, store
}

func uploadRequest(t *testing.T, fileName string, data []byte, targets ...string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	if fileName != "" {
		part, err := w.CreateFormFile("file", fileName)
		if err != nil {
			t.Fatalf("CreateFormFile: %v", err)
		}
		part.Write(data)
	}
	for _, target := range targets {
		w.WriteField("targets", target)
	}
	w.Close()
	req := httptest.NewRequest(http.MethodPost, "/api/translate", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
}

func TestTranslateWithoutFileWarns(t *testing.T) {
	tr := &stubTranslator{}
	router, store := newTestRouter(t, tr)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, uploadRequest(t, "", nil, "en"))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var body map[string]string
	decode(t, rec, &body)
	if body["warning"] != MsgUploadFirst {
		t.Fatalf("warning = %q", body["warning"])
	}
	if tr.calls != 0 {
		t.Fatalf("translator called %d times", tr.calls)
	}
	if records, _ := store.Records(context.Background()); len(records) != 0 {
		t.Fatalf("history written: %v", records)
	}
}

func TestTranslateReturnsOrderedResults(t *testing.T) {
	tr := &stubTranslator{resp: domain.TranslateResponse{
		RunID:      "run-1",
		SourceLang: "fr",
		Translations: domain.NewTranslationResult(
			domain.TargetResult{Lang: "en", Text: "Hello world"},
			domain.TargetResult{Lang: "hi", Err: fmt.Errorf("model offline")},
		),
		Saved: true,
	}}
	router, _ := newTestRouter(t, tr)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, uploadRequest(t, "scan.pdf", []byte("%PDF-1.4"), "en,hi"))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
	}
	if diff := cmp.Diff([]string{"en", "hi"}, tr.req.Targets); diff != "" {
		t.Fatalf("targets mismatch (-want +got):\n%s", diff)
	}
	if tr.req.Document.Name != "scan.pdf" || string(tr.req.Document.Data) != "%PDF-1.4" {
		t.Fatalf("unexpected document %+v", tr.req.Document)
	}

	var body TranslateResponse
	decode(t, rec, &body)
	want := TranslateResponse{
		RunID:            "run-1",
		DetectedLanguage: "fr",
		Translations: []TranslationItem{
			{Lang: "en", Name: "English", Text: "Hello world"},
			{Lang: "hi", Name: "Hindi", Text: "Error: model offline", Error: true},
		},
		Downloads: []Download{
			{Lang: "en", FileName: "translated_en.txt", URL: "/api/runs/run-1/download/en"},
			{Lang: "hi", FileName: "translated_hi.txt", URL: "/api/runs/run-1/download/hi"},
		},
	}
	if diff := cmp.Diff(want, body); diff != "" {
		t.Fatalf("response mismatch (-want +got):\n%s", diff)
	}
}

func TestTranslateRunErrorIsFatal(t *testing.T) {
	tr := &stubTranslator{
		resp: domain.TranslateResponse{
			RunID:        "run-1",
			SourceLang:   "fr",
			Translations: domain.NewTranslationResult(domain.TargetResult{Lang: "en", Text: "Hello"}),
		},
		err: fmt.Errorf("save history: %w", domain.ErrCorruptHistory),
	}
	router, _ := newTestRouter(t, tr)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, uploadRequest(t, "doc.pdf", []byte("data"), "en"))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500 (%s)", rec.Code, rec.Body.String())
	}
	var body map[string]interface{}
	decode(t, rec, &body)
	if _, ok := body["translations"]; ok {
		t.Fatalf("partial results returned: %s", rec.Body.String())
	}
	if _, ok := body["error"]; !ok {
		t.Fatalf("missing error field: %s", rec.Body.String())
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/runs/run-1/download/en", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("failed run should not be downloadable, status = %d", rec.Code)
	}
}

func TestTranslateTextWithErrorPrefixIsNotFailure(t *testing.T) {
	tr := &stubTranslator{resp: domain.TranslateResponse{
		RunID:        "run-1",
		SourceLang:   "fr",
		Translations: domain.NewTranslationResult(domain.TargetResult{Lang: "en", Text: "Error: the page was not found."}),
	}}
	router, _ := newTestRouter(t, tr)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, uploadRequest(t, "doc.pdf", []byte("data"), "en"))

	var body TranslateResponse
	decode(t, rec, &body)
	if len(body.Translations) != 1 || body.Translations[0].Error {
		t.Fatalf("translation marked failed: %s", rec.Body.String())
	}
	if len(body.Downloads) != 1 {
		t.Fatalf("expected one download: %s", rec.Body.String())
	}
}

// sequenceTranslator returns one response per call, in order.
type sequenceTranslator struct {
	mu    sync.Mutex
	resps []domain.TranslateResponse
}

func (s *sequenceTranslator) Run(domain.TranslateRequest) (domain.TranslateResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	resp := s.resps[0]
	s.resps = s.resps[1:]
	return resp, nil
}

func TestTranslateDownloadsStayWithTheirRun(t *testing.T) {
	tr := &sequenceTranslator{resps: []domain.TranslateResponse{
		{RunID: "run-a", SourceLang: "fr", Translations: domain.NewTranslationResult(domain.TargetResult{Lang: "en", Text: "first"})},
		{RunID: "run-b", SourceLang: "de", Translations: domain.NewTranslationResult(domain.TargetResult{Lang: "en", Text: "second"})},
	}}
	router, _ := newTestRouter(t, tr)

	var first, second TranslateResponse
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, uploadRequest(t, "a.pdf", []byte("a"), "en"))
	decode(t, rec, &first)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, uploadRequest(t, "b.pdf", []byte("b"), "en"))
	decode(t, rec, &second)

	for _, tt := range []struct {
		url  string
		want string
	}{
		{url: first.Downloads[0].URL, want: "first"},
		{url: second.Downloads[0].URL, want: "second"},
	} {
		rec = httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.url, nil))
		if rec.Code != http.StatusOK || rec.Body.String() != tt.want {
			t.Fatalf("GET %s = %d %q, want %q", tt.url, rec.Code, rec.Body.String(), tt.want)
		}
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/runs/unknown/download/en", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown run status = %d, want 404", rec.Code)
	}
}

func TestRunStoreEvictsOldest(t *testing.T) {
	s := newRunStore(2)
	for _, id := range []string{"a", "b", "c"} {
		s.put(id, domain.NewTranslationResult(domain.TargetResult{Lang: "en", Text: id}))
	}
	if _, ok := s.get("a"); ok {
		t.Fatal("oldest run should be evicted")
	}
	for _, id := range []string{"b", "c"} {
		if tr, ok := s.get(id); !ok {
			t.Fatalf("run %s missing", id)
		} else if got, _ := tr.Get("en"); got != id {
			t.Fatalf("run %s text = %q", id, got)
		}
	}
}

func TestTranslateDefaultsTargets(t *testing.T) {
	tr := &stubTranslator{resp: domain.TranslateResponse{SourceLang: "en"}}
	router, _ := newTestRouter(t, tr)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, uploadRequest(t, "a.png", []byte{0x89, 'P', 'N', 'G'}))

	if diff := cmp.Diff([]string{"en", "hi", "fr"}, tr.req.Targets); diff != "" {
		t.Fatalf("targets mismatch (-want +got):\n%s", diff)
	}
}

func TestTranslateErrorStatus(t *testing.T) {
	tests := []struct {
		name    string
		targets []string
		err     error
		want    int
	}{
		{name: "unsupported target", targets: []string{"xx"}, want: http.StatusBadRequest},
		{name: "unsupported media", err: fmt.Errorf("extract text: %w", domain.ErrUnsupportedMedia), want: http.StatusBadRequest},
		{name: "undetectable", err: fmt.Errorf("detect language: %w", domain.ErrUndetectable), want: http.StatusUnprocessableEntity},
		{name: "internal", err: fmt.Errorf("boom"), want: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, _ := newTestRouter(t, &stubTranslator{err: tt.err})
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, uploadRequest(t, "doc.pdf", []byte("data"), tt.targets...))
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.want, rec.Body.String())
			}
		})
	}
}

func TestHistoryEmpty(t *testing.T) {
	router, _ := newTestRouter(t, &stubTranslator{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/history", nil))

	var body struct {
		Message string        `json:"message"`
		Entries []HistoryItem `json:"entries"`
	}
	decode(t, rec, &body)
	if rec.Code != http.StatusOK || body.Message != MsgNoHistory || len(body.Entries) != 0 {
		t.Fatalf("unexpected response %d %s", rec.Code, rec.Body.String())
	}
}

func TestHistoryAndDownload(t *testing.T) {
	router, store := newTestRouter(t, &stubTranslator{})
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.Local)
	for i, text := range []string{"first", "second"} {
		tr := domain.NewTranslationResult(domain.TargetResult{Lang: "en", Text: text + " en"})
		if err := store.Append(ctx, domain.NewHistoryEntry(base.Add(time.Duration(i)*time.Minute), text, "fr", tr)); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/history?limit=5", nil))
	var body struct {
		Entries []HistoryItem `json:"entries"`
	}
	decode(t, rec, &body)
	if len(body.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %s", rec.Body.String())
	}
	if got := body.Entries[0].Previews[0].Text; got != "second en..." {
		t.Fatalf("newest preview = %q", got)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/history/1/download/en", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("download status = %d", rec.Code)
	}
	if got := rec.Body.String(); got != "first en" {
		t.Fatalf("download body = %q", got)
	}
	if got := rec.Header().Get("Content-Disposition"); got != `attachment; filename="translated_en.txt"` {
		t.Fatalf("Content-Disposition = %q", got)
	}

	for _, path := range []string{"/api/history/5/download/en", "/api/history/0/download/ja"} {
		rec = httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusNotFound {
			t.Fatalf("%s status = %d, want 404", path, rec.Code)
		}
	}
}

func TestLanguagesAndHealth(t *testing.T) {
	router, _ := newTestRouter(t, &stubTranslator{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("health status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/languages", nil))
	var body struct {
		Languages []struct {
			Code string `json:"code"`
		} `json:"languages"`
	}
	decode(t, rec, &body)
	if len(body.Languages) != len(domain.SupportedLanguages) || body.Languages[0].Code != "en" {
		t.Fatalf("unexpected languages %s", rec.Body.String())
	}
}
