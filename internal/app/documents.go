package app

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/shulck/Band-Sync3-sub001/internal/atomicfile"
	"github.com/shulck/Band-Sync3-sub001/internal/ical"
	"github.com/shulck/Band-Sync3-sub001/internal/log"
	"github.com/shulck/Band-Sync3-sub001/internal/schedule"
	"github.com/shulck/Band-Sync3-sub001/internal/store"
)

const (
	formatICS  = "ics"
	formatYAML = "yaml"
)

func documentFormat(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ics", ".ical", ".ifb":
		return formatICS
	case ".yaml", ".yml":
		return formatYAML
	default:
		return ""
	}
}

func (r *runner) importFile(ctx context.Context, path string) error {
	groupID := r.cfg.GroupID

	var events []schedule.Event
	switch documentFormat(path) {
	case formatICS:
		file, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("open %s: %w", path, err)
		}
		defer func() {
			_ = file.Close()
		}()
		if events, err = ical.Parse(groupID, file); err != nil {
			return err
		}
	case formatYAML:
		docs, err := store.LoadDocuments(path)
		if err != nil {
			return err
		}
		if groupID == "" {
			groupID = docs.GroupID
		}
		events = docs.Events
	default:
		return fmt.Errorf("unsupported file type %q", filepath.Ext(path))
	}

	if groupID == "" {
		return fmt.Errorf("no band group configured")
	}

	st, err := r.openStore()
	if err != nil {
		return err
	}
	defer func() {
		_ = st.Close()
	}()

	written, err := st.ImportEvents(ctx, groupID, events)
	if err != nil {
		return err
	}
	r.cache.Clear()
	log.Info("imported events", "file", path, "group", groupID, "events", written)

	_, _ = fmt.Fprintf(r.stdout, "Imported %d event(s) into %s\n", written, groupID)
	return nil
}

func (r *runner) exportFile(ctx context.Context, path string) error {
	if r.cfg.GroupID == "" {
		return fmt.Errorf("no band group configured")
	}

	st, err := r.openStore()
	if err != nil {
		return err
	}
	defer func() {
		_ = st.Close()
	}()

	events, err := st.ListEvents(ctx, r.cfg.GroupID)
	if err != nil {
		return err
	}

	switch documentFormat(path) {
	case formatICS:
		var buf bytes.Buffer
		if err := ical.Encode(&buf, events, r.now()); err != nil {
			return err
		}
		if err := atomicfile.Write(path, buf.Bytes()); err != nil {
			return err
		}
	case formatYAML:
		if err := store.WriteDocuments(path, store.Documents{GroupID: r.cfg.GroupID, Events: events}); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported file type %q", filepath.Ext(path))
	}

	_, _ = fmt.Fprintf(r.stdout, "Exported %d event(s) to %s\n", len(events), path)
	return nil
}
