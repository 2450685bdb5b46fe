package atomicfile

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWrite_CreatesParentAndReplaces(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "state.json")
	if err := Write(path, []byte("first")); err != nil {
		t.Fatalf("first write: %v", err)
	}
	if err := Write(path, []byte("second")); err != nil {
		t.Fatalf("second write: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(raw) != "second" {
		t.Fatalf("unexpected content %q", raw)
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected temp files to be cleaned up, found %d entries", len(entries))
	}
}
