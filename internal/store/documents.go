package store

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/shulck/Band-Sync3-sub001/internal/atomicfile"
	"github.com/shulck/Band-Sync3-sub001/internal/schedule"
)

// Documents is the exported shape of a band's event collection.
type Documents struct {
	GroupID string           `yaml:"groupId,omitempty"`
	Events  []schedule.Event `yaml:"events"`
}

func LoadDocuments(path string) (Documents, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Documents{}, fmt.Errorf("read documents: %w", err)
	}

	var docs Documents
	if err := yaml.Unmarshal(data, &docs); err != nil {
		return Documents{}, fmt.Errorf("decode documents: %w", err)
	}
	if docs.GroupID != "" {
		for i := range docs.Events {
			if docs.Events[i].GroupID == "" {
				docs.Events[i].GroupID = docs.GroupID
			}
		}
	}
	return docs, nil
}

func WriteDocuments(path string, docs Documents) error {
	data, err := yaml.Marshal(docs)
	if err != nil {
		return fmt.Errorf("encode documents: %w", err)
	}
	return atomicfile.Write(path, data)
}

// ImportEvents upserts events into groupID and returns how many were written.
// Events already carrying another group id keep it.
func (s *Store) ImportEvents(ctx context.Context, groupID string, events []schedule.Event) (int, error) {
	written := 0
	for _, event := range events {
		if event.GroupID == "" {
			event.GroupID = groupID
		}
		if _, err := s.UpsertEvent(ctx, event); err != nil {
			return written, err
		}
		written++
	}
	return written, nil
}
