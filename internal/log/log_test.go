package log

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"
)

func TestLevelsAndFields(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)
	defer SetLevel(LevelInfo)

	SetLevel(LevelInfo)
	Debug("hidden", "k", 1)
	Info("refreshed", "events", 3)
	Error("import failed", errors.New("boom"), "file", "a.ics")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug line must be filtered at info level: %q", out)
	}
	if !strings.Contains(out, "msg=refreshed events=3") {
		t.Fatalf("missing info line: %q", out)
	}
	if !strings.Contains(out, "err=boom file=a.ics") {
		t.Fatalf("missing error fields: %q", out)
	}

	buf.Reset()
	SetLevel(ParseLevel("debug"))
	Debug("visible")
	if !strings.Contains(buf.String(), "msg=visible") {
		t.Fatalf("debug line missing at debug level: %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := map[string]Level{
		"":      LevelInfo,
		"debug": LevelDebug,
		"ERROR": LevelError,
		"warn":  LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %q, want %q", in, got, want)
		}
	}
}
