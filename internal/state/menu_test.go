package state

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/beevik/etree"

	"github.com/shulck/Band-Sync3-sub001/internal/schedule"
)

func TestWriteMenu_ContainsExpectedActions(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 5, 3, 12, 0, 0, 0, time.UTC)
	menuPath := filepath.Join(t.TempDir(), "bandsync.xml")

	next := schedule.Occurrence{Title: "Club show", Type: schedule.TypeGig, Location: "Lido & Bar", Start: now.Add(2 * time.Hour)}
	items := []schedule.Occurrence{
		next,
		{Title: "Rehearsal", Type: schedule.TypeRehearsal, Start: now.Add(50 * time.Hour)},
	}

	if err := WriteMenu(menuPath, MenuData{Next: &next, Items: items, Conflicts: 1, Now: now}); err != nil {
		t.Fatalf("write menu: %v", err)
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromFile(menuPath); err != nil {
		t.Fatalf("parse menu: %v", err)
	}

	ids := map[string]string{}
	for _, object := range doc.FindElements("//object[@class='GtkMenuItem']") {
		label := ""
		if property := object.FindElement("property[@name='label']"); property != nil {
			label = property.Text()
		}
		ids[object.SelectAttrValue("id", "")] = label
	}

	for _, expected := range []string{"open_next", "open_1", "open_2", "conflicts", "select_group", "refresh"} {
		if _, ok := ids[expected]; !ok {
			t.Fatalf("missing menu action %q in %v", expected, ids)
		}
	}
	if got := ids["open_1"]; got != "14:00 · Gig: Club show @ Lido & Bar" {
		t.Fatalf("unexpected label %q", got)
	}
	if got := ids["open_2"]; got != "Sun 14:00 · Rehearsal: Rehearsal" {
		t.Fatalf("unexpected label %q", got)
	}
}

func TestWriteMenu_EmptyShowsStatus(t *testing.T) {
	t.Parallel()

	menuPath := filepath.Join(t.TempDir(), "bandsync.xml")
	if err := WriteMenu(menuPath, MenuData{StatusLine: "Nothing booked"}); err != nil {
		t.Fatalf("write menu: %v", err)
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromFile(menuPath); err != nil {
		t.Fatalf("parse menu: %v", err)
	}
	noop := doc.FindElement("//object[@id='noop']/property")
	if noop == nil || noop.Text() != "Nothing booked" {
		t.Fatalf("expected status line item, got %v", noop)
	}
}
