package utility

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]LogLevel{
		"debug":   DEBUG,
		" INFO ":  INFO,
		"warn":    WARN,
		"warning": WARN,
		"error":   ERROR,
		"bogus":   INFO,
		"":        INFO,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestJournalModeFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger("journal", WARN)
	logger.SetOutput(&buf)

	logger.Info("hidden %d", 1)
	logger.Warn("shown %d", 2)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info line should be filtered at WARN: %q", out)
	}
	if !strings.Contains(out, "[WARN] shown 2") {
		t.Fatalf("expected warn line, got %q", out)
	}
}

func TestFileModeRotatesCurrentLog(t *testing.T) {
	dir := t.TempDir()

	first := NewLoggerIn(dir, "file", DEBUG)
	first.Info("first run")
	if err := first.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	second := NewLoggerIn(dir, "file", DEBUG)
	second.Info("second run")
	defer second.Close()

	archived, err := os.ReadFile(filepath.Join(dir, "archive", "edgelight-1.log"))
	if err != nil {
		t.Fatalf("expected archived log: %v", err)
	}
	if !strings.Contains(string(archived), "first run") {
		t.Fatalf("archive should hold the first run, got %q", archived)
	}
	if files := second.ListLogFiles(); len(files) != 2 {
		t.Fatalf("expected current + 1 archive, got %v", files)
	}
}
