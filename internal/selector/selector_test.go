package selector

import (
	"context"
	"testing"
)

func TestZenityArgs_ChecksCurrentGroup(t *testing.T) {
	t.Parallel()

	args := zenityArgs([]string{"band-1", "band-2"}, "band-2")
	tail := args[len(args)-4:]
	want := []string{"FALSE", "band-1", "TRUE", "band-2"}
	for i := range want {
		if tail[i] != want[i] {
			t.Fatalf("unexpected rows %v", tail)
		}
	}
}

func TestParseSelectionOutput(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"band-1\n":        "band-1",
		"  \n":            "",
		"band-2|band-3\n": "band-2",
	}
	for raw, want := range tests {
		if got := parseSelectionOutput(raw); got != want {
			t.Fatalf("parseSelectionOutput(%q) = %q, want %q", raw, got, want)
		}
	}
}

func TestSelectGroup_RequiresGroups(t *testing.T) {
	t.Parallel()

	if _, err := SelectGroup(context.Background(), nil, ""); err == nil {
		t.Fatal("expected error without groups")
	}
}
