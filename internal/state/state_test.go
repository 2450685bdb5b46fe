package state

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/shulck/Band-Sync3-sub001/internal/schedule"
)

func TestOccurrencesRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "occurrences.json")
	start := time.Date(2024, 5, 3, 20, 0, 0, 0, time.UTC)
	items := []schedule.Occurrence{{EventID: "gig", Title: "Club show", Start: start, End: start.Add(3 * time.Hour), MapURL: "https://maps.example"}}

	if err := SaveOccurrences(path, items); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := LoadOccurrences(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(loaded) != 1 || loaded[0].Key() != items[0].Key() || loaded[0].MapURL != items[0].MapURL {
		t.Fatalf("unexpected round trip %+v", loaded)
	}

	missing, err := LoadOccurrences(filepath.Join(t.TempDir(), "missing.json"))
	if err != nil || missing != nil {
		t.Fatalf("missing file should load empty, got %v / %v", missing, err)
	}
}

func TestNotified(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "notified.json")
	now := time.Date(2024, 5, 3, 12, 0, 0, 0, time.UTC)

	old := schedule.Occurrence{EventID: "old", Start: now.Add(-48 * time.Hour)}
	soon := schedule.Occurrence{EventID: "soon", Start: now.Add(time.Hour)}

	var notified Notified
	notified.Add(old.Key())
	notified.Add(soon.Key())
	notified.Add(soon.Key())
	notified.Add("garbage")
	if len(notified.Keys) != 3 {
		t.Fatalf("expected 3 keys, got %v", notified.Keys)
	}

	notified.Prune(now.Add(-24 * time.Hour))
	if notified.Has(old.Key()) || notified.Has("garbage") || !notified.Has(soon.Key()) {
		t.Fatalf("unexpected keys after prune %v", notified.Keys)
	}

	if err := SaveNotified(path, notified, now); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := LoadNotified(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !loaded.Has(soon.Key()) || loaded.UpdatedAt == "" {
		t.Fatalf("unexpected loaded state %+v", loaded)
	}
}

func TestSelectionRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "selected-group.json")
	empty, err := LoadSelection(path)
	if err != nil || empty.GroupID != "" {
		t.Fatalf("missing selection should load empty, got %+v / %v", empty, err)
	}

	if err := SaveSelection(path, " band-2 ", time.Now()); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := LoadSelection(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.GroupID != "band-2" {
		t.Fatalf("unexpected group %q", loaded.GroupID)
	}
}
