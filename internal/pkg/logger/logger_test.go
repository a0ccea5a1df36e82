package logger

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestQuietLoggerDropsInfo(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, false)

	log.Debug("debug", nil)
	log.Info("info", map[string]interface{}{"k": "v"})
	if buf.Len() != 0 {
		t.Fatalf("expected no output, got %q", buf.String())
	}

	log.Warn("careful", map[string]interface{}{"lang": "hi"})
	if !strings.Contains(buf.String(), "careful") || !strings.Contains(buf.String(), "lang=hi") {
		t.Fatalf("warn record missing fields: %q", buf.String())
	}
}

func TestVerboseLoggerIncludesErrorAndFields(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, true).With(map[string]interface{}{"run_id": "abc"})

	log.Error("translate failed", errors.New("boom"), map[string]interface{}{"target": "ja"})

	out := buf.String()
	for _, want := range []string{"translate failed", "error=boom", "target=ja", "run_id=abc", "level=error"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %q", out, want)
		}
	}
}
