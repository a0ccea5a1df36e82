package history

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/doeshing/doctrans/internal/domain"
)

func sampleEntry(t *testing.T, at time.Time, text string, pairs ...string) domain.HistoryEntry {
	t.Helper()
	var tr domain.TranslationResult
	for i := 0; i+1 < len(pairs); i += 2 {
		tr.Set(pairs[i], pairs[i+1])
	}
	return domain.NewHistoryEntry(at, text, "fr", tr)
}

func TestJSONStoreMissingFileIsEmpty(t *testing.T) {
	store := NewJSONStore(filepath.Join(t.TempDir(), "history.json"))

	records, err := store.Records(context.Background())
	if err != nil {
		t.Fatalf("Records() error = %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected empty history, got %d records", len(records))
	}
	recent, err := store.Recent(context.Background(), domain.HistoryViewLimit)
	if err != nil || len(recent) != 0 {
		t.Fatalf("Recent() = %v, %v", recent, err)
	}
}

func TestJSONStoreAppendIsMonotonic(t *testing.T) {
	ctx := context.Background()
	store := NewJSONStore(filepath.Join(t.TempDir(), "nested", "history.json"))
	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.Local)

	for i := 0; i < 7; i++ {
		entry := sampleEntry(t, base.Add(time.Duration(i)*time.Minute), strings.Repeat("x", i+1), "en", "hello")
		if err := store.Append(ctx, entry); err != nil {
			t.Fatalf("Append(%d) error = %v", i, err)
		}
		records, err := store.Records(ctx)
		if err != nil {
			t.Fatalf("Records() error = %v", err)
		}
		if len(records) != i+1 {
			t.Fatalf("after %d appends got %d records", i+1, len(records))
		}
		if records[i].OriginalText != entry.OriginalText {
			t.Fatalf("last record = %q, want %q", records[i].OriginalText, entry.OriginalText)
		}
	}

	recent, err := store.Recent(ctx, domain.HistoryViewLimit)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	var got []string
	for _, rec := range recent {
		got = append(got, rec.OriginalText)
	}
	want := []string{"xxxxxxx", "xxxxxx", "xxxxx", "xxxx", "xxx"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Recent() mismatch (-want +got):\n%s", diff)
	}
}

func TestJSONStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "history.json")
	store := NewJSONStore(path)

	long := strings.Repeat("ü", 1200)
	entry := sampleEntry(t, time.Now(), long, "en", "Hello <world> & co", "hi", "नमस्ते", "fr", "Error: boom")
	if err := store.Append(ctx, entry); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	records, err := NewJSONStore(path).Records(ctx)
	if err != nil {
		t.Fatalf("Records() error = %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records", len(records))
	}
	got := records[0]
	if got.OriginalText != strings.Repeat("ü", domain.MaxHistoryTextRunes) {
		t.Fatalf("original text not truncated to %d characters", domain.MaxHistoryTextRunes)
	}
	if got.Timestamp != entry.Timestamp || got.SourceLang != "fr" {
		t.Fatalf("metadata mismatch: %+v", got)
	}
	if diff := cmp.Diff(entry.Translations.Pairs(), got.Translations.Pairs()); diff != "" {
		t.Fatalf("translations mismatch (-want +got):\n%s", diff)
	}
}

func TestJSONStoreFileFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	store := NewJSONStore(path)
	entry := sampleEntry(t, time.Now(), "Bonjour", "en", "<b>Hello</b>", "hi", "नमस्ते")
	if err := store.Append(context.Background(), entry); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read history: %v", err)
	}
	content := string(data)
	if !strings.HasPrefix(content, "[\n    {\n        \"timestamp\": ") {
		t.Fatalf("unexpected layout:\n%s", content)
	}
	for _, want := range []string{"<b>Hello</b>", "नमस्ते", `"en": "<b>Hello</b>",`} {
		if !strings.Contains(content, want) {
			t.Fatalf("history file missing %q:\n%s", want, content)
		}
	}
	if strings.Index(content, `"en"`) > strings.Index(content, `"hi"`) {
		t.Fatalf("translation order not preserved:\n%s", content)
	}
}

func TestJSONStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	store := NewJSONStore(path)

	if _, err := store.Records(context.Background()); !errors.Is(err, domain.ErrCorruptHistory) {
		t.Fatalf("Records() error = %v, want ErrCorruptHistory", err)
	}
	err := store.Append(context.Background(), sampleEntry(t, time.Now(), "x", "en", "y"))
	if !errors.Is(err, domain.ErrCorruptHistory) {
		t.Fatalf("Append() error = %v, want ErrCorruptHistory", err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "{not json" {
		t.Fatal("corrupt file was overwritten")
	}
}

func TestJSONStoreSearchClearExport(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store := NewJSONStore(filepath.Join(dir, "history.json"))
	_ = store.Append(ctx, sampleEntry(t, time.Now(), "Bonjour le monde", "en", "Hello world"))
	_ = store.Append(ctx, sampleEntry(t, time.Now(), "Guten Tag", "en", "Good day"))

	found, err := store.Search(ctx, "WORLD", 10)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(found) != 1 || found[0].OriginalText != "Bonjour le monde" {
		t.Fatalf("Search() = %+v", found)
	}

	dest := filepath.Join(dir, "export", "out.json")
	if err := store.ExportJSON(ctx, dest); err != nil {
		t.Fatalf("ExportJSON() error = %v", err)
	}
	exported, err := NewJSONStore(dest).Records(ctx)
	if err != nil || len(exported) != 2 {
		t.Fatalf("exported records = %d, %v", len(exported), err)
	}

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	records, err := store.Records(ctx)
	if err != nil || len(records) != 0 {
		t.Fatalf("after Clear() got %d records, %v", len(records), err)
	}
}
