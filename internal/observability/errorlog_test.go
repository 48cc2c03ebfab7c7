package observability

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSnip(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"hello", 10, "hello"},
		{"hello", 5, "hello"},
		{"hello", 3, "hel…"},
		{"héllo", 2, "hé…"},
		{"anything", 0, ""},
	}
	for _, tt := range tests {
		if got := Snip(tt.in, tt.max); got != tt.want {
			t.Errorf("Snip(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}

func TestInitWritesRedactedLinesAndMirrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "error.log")
	var mirror bytes.Buffer

	cleanup, err := Init(path, &mirror)
	if err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	Logger().Printf("backend failed: %s", Safe("key=sk-abcdefghijklmnopqrstuvwx", 200))
	cleanup()

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(b), "[REDACTED]") || strings.Contains(string(b), "sk-abc") {
		t.Errorf("log not redacted: %q", b)
	}
	if !strings.Contains(mirror.String(), "backend failed") {
		t.Errorf("mirror missing line: %q", mirror.String())
	}
	if Path() != path {
		t.Errorf("Path() = %q, want %q", Path(), path)
	}
}

func TestDefaultLogPathEnvOverride(t *testing.T) {
	t.Setenv("LLMC_LOG_PATH", "/tmp/custom.log")
	if got := DefaultLogPath(); got != "/tmp/custom.log" {
		t.Errorf("DefaultLogPath() = %q", got)
	}
}

func TestLoggerBeforeInitDiscards(t *testing.T) {
	if Logger() == nil {
		t.Fatal("Logger() must never be nil")
	}
}
