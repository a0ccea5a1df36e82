package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/doeshing/doctrans/internal/domain"
)

func TestFileCacheSetGet(t *testing.T) {
	c := NewFileCache(t.TempDir(), time.Hour, 10)
	key := Key("m2m100", "fr", "en", "Bonjour")
	if err := c.Set(domain.CacheEntry{Key: key, SourceLang: "fr", TargetLang: "en", Model: "m2m100", Text: "Hello"}); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	entry, ok, err := c.Get(key)
	if err != nil || !ok {
		t.Fatalf("Get() = %v, %v", ok, err)
	}
	if entry.Text != "Hello" || entry.CreatedAt.IsZero() {
		t.Fatalf("unexpected entry %+v", entry)
	}
	if _, ok, _ := c.Get(Key("m2m100", "fr", "hi", "Bonjour")); ok {
		t.Fatal("different target must not hit")
	}
}

func TestFileCacheExpires(t *testing.T) {
	c := NewFileCache(t.TempDir(), time.Minute, 0)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	key := Key("m", "fr", "en", "x")
	if err := c.Set(domain.CacheEntry{Key: key, Text: "y"}); err != nil {
		t.Fatal(err)
	}
	now = now.Add(2 * time.Minute)
	if _, ok, err := c.Get(key); ok || err != nil {
		t.Fatalf("expected expired miss, got ok=%v err=%v", ok, err)
	}
	if _, err := os.Stat(filepath.Join(c.Dir(), key+".json")); !os.IsNotExist(err) {
		t.Fatal("expired entry not removed")
	}
}

func TestFileCacheEvictsOldest(t *testing.T) {
	dir := t.TempDir()
	c := NewFileCache(dir, 0, 2)
	base := time.Now().Add(-time.Hour)
	for i, text := range []string{"a", "b", "c"} {
		key := Key("m", "fr", "en", text)
		if err := c.Set(domain.CacheEntry{Key: key, Text: text}); err != nil {
			t.Fatal(err)
		}
		mod := base.Add(time.Duration(i) * time.Minute)
		_ = os.Chtimes(filepath.Join(dir, key+".json"), mod, mod)
	}
	if err := c.Set(domain.CacheEntry{Key: Key("m", "fr", "en", "d"), Text: "d"}); err != nil {
		t.Fatal(err)
	}
	entries, err := c.Entries()
	if err != nil {
		t.Fatalf("Entries() error = %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries after eviction, got %d", len(entries))
	}
	if _, ok, _ := c.Get(Key("m", "fr", "en", "a")); ok {
		t.Fatal("oldest entry should be evicted")
	}
}

func TestFromSettingsRejectsBadTTL(t *testing.T) {
	if _, err := FromSettings(domain.CacheSettings{TTL: "soon"}); err == nil {
		t.Fatal("expected ttl parse error")
	}
}
