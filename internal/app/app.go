package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/shulck/Band-Sync3-sub001/internal/config"
	"github.com/shulck/Band-Sync3-sub001/internal/notify"
	"github.com/shulck/Band-Sync3-sub001/internal/recurrence"
	"github.com/shulck/Band-Sync3-sub001/internal/schedule"
	"github.com/shulck/Band-Sync3-sub001/internal/selector"
	"github.com/shulck/Band-Sync3-sub001/internal/state"
	"github.com/shulck/Band-Sync3-sub001/internal/store"
	"github.com/shulck/Band-Sync3-sub001/internal/waybar"
)

const Usage = "waybar-bandsync <status|refresh|agenda [days]|import FILE|export FILE|notify|open-next|open-item N|select-group|watch>"

const (
	defaultAgendaDays = 7
	maxAgendaDays     = 366
)

type invocation struct {
	name  string
	index int
	days  int
	path  string
}

type notifier interface {
	Notify(ctx context.Context, summary, body string) (uint32, error)
	Close() error
}

type runner struct {
	cfg    config.Runtime
	stdout io.Writer
	now    func() time.Time
	cache  *recurrence.Cache

	openURL     func(ctx context.Context, url string) error
	newNotifier func(ctx context.Context) (notifier, error)
	selectGroup func(ctx context.Context, groups []string, current string) (string, error)
}

func newRunner(cfg config.Runtime, stdout io.Writer) *runner {
	return &runner{
		cfg:     cfg,
		stdout:  stdout,
		now:     time.Now,
		cache:   recurrence.NewCache(recurrence.DefaultCacheConfig),
		openURL: openURL,
		newNotifier: func(ctx context.Context) (notifier, error) {
			return notify.New(ctx, cfg.NotifyIcon)
		},
		selectGroup: selector.SelectGroup,
	}
}

func Run(ctx context.Context, args []string, cfg config.Runtime, stdout io.Writer) error {
	inv, err := parseArgs(args)
	if err != nil {
		return err
	}
	return newRunner(cfg, stdout).run(ctx, inv)
}

func (r *runner) run(ctx context.Context, inv invocation) error {
	if err := r.resolveGroup(); err != nil {
		return err
	}

	switch inv.name {
	case "status":
		out, err := r.buildStatus(ctx)
		if err != nil {
			return err
		}
		return writeOutput(r.stdout, out)
	case "refresh":
		_, err := r.buildStatus(ctx)
		return err
	case "agenda":
		return r.agenda(ctx, inv.days)
	case "import":
		return r.importFile(ctx, inv.path)
	case "export":
		return r.exportFile(ctx, inv.path)
	case "notify":
		return r.notifyUpcoming(ctx)
	case "open-next":
		return r.openItem(ctx, 1)
	case "open-item":
		return r.openItem(ctx, inv.index)
	case "select-group":
		return r.chooseGroup(ctx)
	case "watch":
		return r.watch(ctx)
	default:
		return fmt.Errorf("unsupported command %q", inv.name)
	}
}

func parseArgs(args []string) (invocation, error) {
	if len(args) == 0 {
		return invocation{name: "status"}, nil
	}

	name := strings.TrimSpace(args[0])
	switch name {
	case "status", "refresh", "notify", "open-next", "select-group", "watch":
		if len(args) > 1 {
			return invocation{}, fmt.Errorf("unexpected argument %q", args[1])
		}
		return invocation{name: name}, nil
	case "agenda":
		if len(args) > 2 {
			return invocation{}, fmt.Errorf("usage: waybar-bandsync agenda [days]")
		}
		days := defaultAgendaDays
		if len(args) == 2 {
			n, err := strconv.Atoi(strings.TrimSpace(args[1]))
			if err != nil || n < 1 || n > maxAgendaDays {
				return invocation{}, fmt.Errorf("invalid agenda days %q", args[1])
			}
			days = n
		}
		return invocation{name: name, days: days}, nil
	case "import", "export":
		if len(args) != 2 {
			return invocation{}, fmt.Errorf("usage: waybar-bandsync %s <file.ics|file.yaml>", name)
		}
		path := strings.TrimSpace(args[1])
		if documentFormat(path) == "" {
			return invocation{}, fmt.Errorf("unsupported file type %q: want .ics or .yaml", filepath.Ext(path))
		}
		return invocation{name: name, path: path}, nil
	case "open-item":
		if len(args) != 2 {
			return invocation{}, fmt.Errorf("usage: waybar-bandsync open-item <index>")
		}
		n, err := strconv.Atoi(strings.TrimSpace(args[1]))
		if err != nil || n < 1 {
			return invocation{}, fmt.Errorf("invalid item index %q", args[1])
		}
		return invocation{name: name, index: n}, nil
	default:
		return invocation{}, fmt.Errorf("usage: %s", Usage)
	}
}

// resolveGroup falls back to the group saved by select-group when the
// configuration names none.
func (r *runner) resolveGroup() error {
	if r.cfg.GroupID != "" || r.cfg.SelectionPath == "" {
		return nil
	}
	selection, err := state.LoadSelection(r.cfg.SelectionPath)
	if err != nil {
		return err
	}
	r.cfg.GroupID = selection.GroupID
	return nil
}

func (r *runner) chooseGroup(ctx context.Context) error {
	st, err := r.openStore()
	if err != nil {
		return err
	}
	groups, err := st.ListGroups(ctx)
	_ = st.Close()
	if err != nil {
		return err
	}

	selected, err := r.selectGroup(ctx, groups, r.cfg.GroupID)
	if err != nil {
		if errors.Is(err, selector.ErrSelectionCancelled) {
			return nil
		}
		return err
	}

	if err := state.SaveSelection(r.cfg.SelectionPath, selected, r.now()); err != nil {
		return err
	}
	r.cfg.GroupID = selected
	r.cache.Clear()

	if _, err := r.buildStatus(ctx); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(r.stdout, "Showing schedule of %s\n", selected)
	return nil
}

func (r *runner) openStore() (*store.Store, error) {
	if err := os.MkdirAll(filepath.Dir(r.cfg.DBPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := store.Open(r.cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open event store: %w", err)
	}
	return store.NewStore(db), nil
}

// loadOccurrences expands the configured group's events over
// [windowStart, windowEnd).
func (r *runner) loadOccurrences(ctx context.Context, windowStart, windowEnd time.Time) ([]schedule.Occurrence, error) {
	st, err := r.openStore()
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = st.Close()
	}()

	events, err := st.ListEvents(ctx, r.cfg.GroupID)
	if err != nil {
		return nil, err
	}

	occurrences := schedule.ExpandEventsCached(r.cache, events, windowStart, windowEnd)
	if !r.cfg.IncludeCancelled {
		occurrences = schedule.ActiveOnly(occurrences)
	}
	return occurrences, nil
}

func openURL(ctx context.Context, url string) error {
	if _, err := exec.LookPath("xdg-open"); err != nil {
		return fmt.Errorf("xdg-open not found")
	}

	cmd := exec.CommandContext(ctx, "xdg-open", url)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("open url: %w", err)
	}
	return nil
}

func writeOutput(w io.Writer, output waybar.Output) error {
	payload, err := waybar.Encode(output)
	if err != nil {
		return err
	}
	if _, err := w.Write(payload); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	if _, err := w.Write([]byte("\n")); err != nil {
		return fmt.Errorf("write trailing newline: %w", err)
	}
	return nil
}
