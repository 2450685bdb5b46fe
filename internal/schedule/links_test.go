package schedule

import (
	"strings"
	"testing"
)

func TestDeriveLinks_PrefersExplicitMapLink(t *testing.T) {
	t.Parallel()

	event := Event{
		URL:      "https://maps.app.goo.gl/abc123",
		Location: "Club Atlas, Kyiv https://www.openstreetmap.org/node/42",
		Notes:    "Tickets: https://concert.ua/event/atlas-night",
	}

	mapURL, eventURL, provider := DeriveLinks(event)
	if mapURL != "https://maps.app.goo.gl/abc123" {
		t.Fatalf("mapURL mismatch: %s", mapURL)
	}
	if eventURL != "https://concert.ua/event/atlas-night" {
		t.Fatalf("eventURL mismatch: %s", eventURL)
	}
	if provider != ProviderGoogleMaps {
		t.Fatalf("provider mismatch: %s", provider)
	}
}

func TestDeriveLinks_FindsMapInNotes(t *testing.T) {
	t.Parallel()

	event := Event{
		Notes: "Load-in at 17:00.\nDirections https://www.google.com/maps/place/Studio+7",
	}

	mapURL, eventURL, provider := DeriveLinks(event)
	if mapURL != "https://www.google.com/maps/place/Studio+7" {
		t.Fatalf("mapURL mismatch: %s", mapURL)
	}
	if eventURL != "" {
		t.Fatalf("expected no eventURL, got %q", eventURL)
	}
	if provider != ProviderGoogleMaps {
		t.Fatalf("provider mismatch: %s", provider)
	}
}

func TestDeriveLinks_SearchesPlainLocation(t *testing.T) {
	t.Parallel()

	event := Event{Location: "Rehearsal Base,  Room 3"}
	mapURL, eventURL, provider := DeriveLinks(event)

	if !strings.HasPrefix(mapURL, "https://www.openstreetmap.org/search?query=") {
		t.Fatalf("unexpected mapURL %q", mapURL)
	}
	if !strings.Contains(mapURL, "Rehearsal+Base%2C+Room+3") {
		t.Fatalf("location not encoded in %q", mapURL)
	}
	if eventURL != "" {
		t.Fatalf("expected empty eventURL, got %q", eventURL)
	}
	if provider != ProviderOpenStreetMap {
		t.Fatalf("provider mismatch: %s", provider)
	}
}

func TestDeriveLinks_EmptyEvent(t *testing.T) {
	t.Parallel()

	mapURL, eventURL, provider := DeriveLinks(Event{})
	if mapURL != "" || eventURL != "" || provider != "" {
		t.Fatalf("expected no links, got %q %q %q", mapURL, eventURL, provider)
	}
}
