package schedule

import (
	"net/url"
	"regexp"
	"sort"
	"strings"
)

var (
	urlRegex = regexp.MustCompile(`https?://[^\s<>"]+`)
)

const (
	ProviderGoogleMaps    = "google_maps"
	ProviderAppleMaps     = "apple_maps"
	ProviderOpenStreetMap = "openstreetmap"
)

type urlCandidate struct {
	Value      string
	SourceRank int
	MapRank    int
	Provider   string
}

// DeriveLinks picks a map link for the venue and a general event link
// (tickets, stream, venue page) from the event's URL, location and notes.
// A plain-text location with no map link gets an OpenStreetMap search URL.
func DeriveLinks(event Event) (mapURL, eventURL, provider string) {
	candidates := make([]urlCandidate, 0, 8)

	if value := strings.TrimSpace(event.URL); value != "" {
		providerName, rank := providerRank(value)
		candidates = append(candidates, urlCandidate{Value: value, SourceRank: 0, MapRank: rank, Provider: providerName})
	}

	for _, source := range []struct {
		rank int
		text string
	}{
		{rank: 1, text: event.Location},
		{rank: 2, text: event.Notes},
	} {
		for _, found := range extractURLs(source.text) {
			providerName, rank := providerRank(found)
			candidates = append(candidates, urlCandidate{Value: found, SourceRank: source.rank, MapRank: rank, Provider: providerName})
		}
	}

	unique := dedupeCandidates(candidates)
	sort.SliceStable(unique, func(i, j int) bool {
		if unique[i].SourceRank != unique[j].SourceRank {
			return unique[i].SourceRank < unique[j].SourceRank
		}
		return unique[i].Value < unique[j].Value
	})

	bestMap := -1
	for idx, candidate := range unique {
		if candidate.MapRank > 10 {
			if eventURL == "" {
				eventURL = candidate.Value
			}
			continue
		}
		if bestMap < 0 || candidate.MapRank < unique[bestMap].MapRank {
			bestMap = idx
		}
	}
	if bestMap >= 0 {
		return unique[bestMap].Value, eventURL, unique[bestMap].Provider
	}

	if venue := locationText(event.Location); venue != "" {
		search := url.URL{
			Scheme:   "https",
			Host:     "www.openstreetmap.org",
			Path:     "/search",
			RawQuery: url.Values{"query": []string{venue}}.Encode(),
		}
		return search.String(), eventURL, ProviderOpenStreetMap
	}

	return "", eventURL, ""
}

// locationText is the location with any URLs removed.
func locationText(location string) string {
	return sanitize(urlRegex.ReplaceAllString(location, " "))
}

func extractURLs(text string) []string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}

	found := urlRegex.FindAllString(trimmed, -1)
	if len(found) == 0 {
		return nil
	}

	results := make([]string, 0, len(found))
	for _, item := range found {
		normalized := normalizeURL(item)
		if normalized == "" {
			continue
		}
		results = append(results, normalized)
	}
	return results
}

func dedupeCandidates(candidates []urlCandidate) []urlCandidate {
	seen := make(map[string]urlCandidate)
	for _, candidate := range candidates {
		normalized := normalizeURL(candidate.Value)
		if normalized == "" {
			continue
		}
		candidate.Value = normalized

		if existing, ok := seen[normalized]; ok {
			if candidate.SourceRank < existing.SourceRank {
				seen[normalized] = candidate
			}
			continue
		}
		seen[normalized] = candidate
	}

	results := make([]urlCandidate, 0, len(seen))
	for _, candidate := range seen {
		results = append(results, candidate)
	}
	return results
}

func normalizeURL(raw string) string {
	value := strings.TrimSpace(raw)
	value = strings.TrimRight(value, ".,;)")
	if value == "" {
		return ""
	}

	parsed, err := url.Parse(value)
	if err != nil {
		return ""
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return ""
	}
	if strings.TrimSpace(parsed.Host) == "" {
		return ""
	}
	return parsed.String()
}

func providerRank(value string) (string, int) {
	host := hostOf(value)
	path := pathOf(value)
	switch {
	case host == "maps.google.com", host == "maps.app.goo.gl":
		return ProviderGoogleMaps, 0
	case strings.HasSuffix(host, "google.com") && strings.HasPrefix(path, "/maps"):
		return ProviderGoogleMaps, 0
	case host == "goo.gl" && strings.HasPrefix(path, "/maps"):
		return ProviderGoogleMaps, 1
	case host == "maps.apple.com":
		return ProviderAppleMaps, 2
	case strings.HasSuffix(host, "openstreetmap.org"):
		return ProviderOpenStreetMap, 3
	default:
		return "", 50
	}
}

func hostOf(value string) string {
	parsed, err := url.Parse(value)
	if err != nil {
		return ""
	}
	return strings.ToLower(parsed.Hostname())
}

func pathOf(value string) string {
	parsed, err := url.Parse(value)
	if err != nil {
		return ""
	}
	return parsed.Path
}
