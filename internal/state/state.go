package state

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/shulck/Band-Sync3-sub001/internal/atomicfile"
	"github.com/shulck/Band-Sync3-sub001/internal/schedule"
)

// Notified records which occurrences already triggered a desktop
// notification, keyed by schedule.Occurrence.Key.
type Notified struct {
	Keys      []string `json:"keys"`
	UpdatedAt string   `json:"updatedAt,omitempty"`
}

// Selection is the band group picked with select-group. It applies when no
// group id is configured.
type Selection struct {
	GroupID   string `json:"groupId"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

func SaveSelection(path, groupID string, now time.Time) error {
	selection := Selection{
		GroupID:   strings.TrimSpace(groupID),
		UpdatedAt: now.UTC().Format(time.RFC3339),
	}

	payload, err := json.MarshalIndent(selection, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal selection: %w", err)
	}
	return atomicfile.Write(path, append(payload, '\n'))
}

func LoadSelection(path string) (Selection, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Selection{}, nil
		}
		return Selection{}, fmt.Errorf("read selection file: %w", err)
	}
	if len(strings.TrimSpace(string(raw))) == 0 {
		return Selection{}, nil
	}

	var selection Selection
	if err := json.Unmarshal(raw, &selection); err != nil {
		return Selection{}, fmt.Errorf("decode selection file: %w", err)
	}
	selection.GroupID = strings.TrimSpace(selection.GroupID)
	return selection, nil
}

func EnsureDirs(stateDir, menuDir string) error {
	if err := os.MkdirAll(stateDir, 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	if err := os.MkdirAll(menuDir, 0o755); err != nil {
		return fmt.Errorf("create menu dir: %w", err)
	}
	return nil
}

func SaveOccurrences(path string, items []schedule.Occurrence) error {
	payload, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal occurrences: %w", err)
	}
	return atomicfile.Write(path, append(payload, '\n'))
}

func LoadOccurrences(path string) ([]schedule.Occurrence, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read occurrences file: %w", err)
	}

	var items []schedule.Occurrence
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decode occurrences file: %w", err)
	}
	return items, nil
}

func LoadNotified(path string) (Notified, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Notified{}, nil
		}
		return Notified{}, fmt.Errorf("read notified file: %w", err)
	}
	if len(strings.TrimSpace(string(raw))) == 0 {
		return Notified{}, nil
	}

	var notified Notified
	if err := json.Unmarshal(raw, &notified); err != nil {
		return Notified{}, fmt.Errorf("decode notified file: %w", err)
	}
	notified.Keys = normalizeKeys(notified.Keys)
	return notified, nil
}

func SaveNotified(path string, notified Notified, now time.Time) error {
	notified.Keys = normalizeKeys(notified.Keys)
	notified.UpdatedAt = now.UTC().Format(time.RFC3339)

	payload, err := json.MarshalIndent(notified, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal notified: %w", err)
	}
	return atomicfile.Write(path, append(payload, '\n'))
}

func (n Notified) Has(key string) bool {
	for _, existing := range n.Keys {
		if existing == key {
			return true
		}
	}
	return false
}

func (n *Notified) Add(key string) {
	if strings.TrimSpace(key) == "" || n.Has(key) {
		return
	}
	n.Keys = append(n.Keys, key)
}

// Prune drops keys of occurrences that started before cutoff. Keys that do
// not carry a parsable start are dropped too.
func (n *Notified) Prune(cutoff time.Time) {
	kept := n.Keys[:0]
	for _, key := range n.Keys {
		_, startText, ok := strings.Cut(key, "|")
		if !ok {
			continue
		}
		start, err := time.Parse(time.RFC3339Nano, startText)
		if err != nil || start.Before(cutoff) {
			continue
		}
		kept = append(kept, key)
	}
	n.Keys = kept
}

func normalizeKeys(values []string) []string {
	if len(values) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(values))
	normalized := make([]string, 0, len(values))
	for _, value := range values {
		trimmed := strings.TrimSpace(value)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		normalized = append(normalized, trimmed)
	}

	sort.Strings(normalized)
	return normalized
}
