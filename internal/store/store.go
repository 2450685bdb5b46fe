package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/shulck/Band-Sync3-sub001/internal/schedule"
)

var ErrNotFound = errors.New("event not found")

const eventColumns = `id, group_id, title, type, status, location, notes, url, date, time_zone,
	duration_minutes, is_recurring, recurrence_type, recurrence_interval, recurrence_end_date,
	recurrence_days_of_week, recurrence_parent_id`

// Store keeps band event documents keyed by id and grouped by band.
type Store struct {
	DB  *sql.DB
	now func() time.Time
}

func NewStore(db *sql.DB) *Store {
	return &Store{DB: db, now: time.Now}
}

func (s *Store) Close() error {
	if s == nil || s.DB == nil {
		return nil
	}
	return s.DB.Close()
}

func (s *Store) ListEvents(ctx context.Context, groupID string) ([]schedule.Event, error) {
	rows, err := s.DB.QueryContext(ctx, "SELECT "+eventColumns+" FROM events WHERE group_id = ?", groupID)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	events := make([]schedule.Event, 0)
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	sort.Slice(events, func(i, j int) bool {
		if !events[i].Date.Equal(events[j].Date) {
			return events[i].Date.Before(events[j].Date)
		}
		return events[i].ID < events[j].ID
	})
	return events, nil
}

func (s *Store) ListGroups(ctx context.Context) ([]string, error) {
	rows, err := s.DB.QueryContext(ctx, "SELECT DISTINCT group_id FROM events ORDER BY group_id")
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	defer rows.Close()

	groups := make([]string, 0)
	for rows.Next() {
		var group string
		if err := rows.Scan(&group); err != nil {
			return nil, fmt.Errorf("scan group: %w", err)
		}
		groups = append(groups, group)
	}
	return groups, rows.Err()
}

func (s *Store) GetEvent(ctx context.Context, id string) (schedule.Event, error) {
	row := s.DB.QueryRowContext(ctx, "SELECT "+eventColumns+" FROM events WHERE id = ?", id)
	event, err := scanEvent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return schedule.Event{}, fmt.Errorf("get event %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return schedule.Event{}, err
	}
	return event, nil
}

// CreateEvent inserts event, assigning a new id when it has none.
func (s *Store) CreateEvent(ctx context.Context, event schedule.Event) (schedule.Event, error) {
	if strings.TrimSpace(event.GroupID) == "" {
		return schedule.Event{}, fmt.Errorf("create event: group id is required")
	}
	if strings.TrimSpace(event.ID) == "" {
		event.ID = uuid.NewString()
	}

	now := formatTime(s.now())
	args := append(eventArgs(event), now, now)
	_, err := s.DB.ExecContext(ctx, `INSERT INTO events (`+eventColumns+`, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, args...)
	if err != nil {
		return schedule.Event{}, fmt.Errorf("create event %q: %w", event.ID, err)
	}
	return event, nil
}

func (s *Store) UpdateEvent(ctx context.Context, event schedule.Event) (schedule.Event, error) {
	args := eventArgs(event)
	args = append(args[1:], formatTime(s.now()), event.ID)
	result, err := s.DB.ExecContext(ctx, `UPDATE events SET
		group_id = ?, title = ?, type = ?, status = ?, location = ?, notes = ?, url = ?, date = ?, time_zone = ?,
		duration_minutes = ?, is_recurring = ?, recurrence_type = ?, recurrence_interval = ?, recurrence_end_date = ?,
		recurrence_days_of_week = ?, recurrence_parent_id = ?, updated_at = ?
		WHERE id = ?`, args...)
	if err != nil {
		return schedule.Event{}, fmt.Errorf("update event %q: %w", event.ID, err)
	}
	if err := expectRow(result, event.ID); err != nil {
		return schedule.Event{}, err
	}
	return event, nil
}

// UpsertEvent creates the event or replaces an existing one with the same id.
func (s *Store) UpsertEvent(ctx context.Context, event schedule.Event) (schedule.Event, error) {
	if strings.TrimSpace(event.ID) == "" {
		return s.CreateEvent(ctx, event)
	}

	_, err := s.GetEvent(ctx, event.ID)
	switch {
	case errors.Is(err, ErrNotFound):
		return s.CreateEvent(ctx, event)
	case err != nil:
		return schedule.Event{}, err
	default:
		return s.UpdateEvent(ctx, event)
	}
}

func (s *Store) DeleteEvent(ctx context.Context, id string) error {
	result, err := s.DB.ExecContext(ctx, "DELETE FROM events WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete event %q: %w", id, err)
	}
	return expectRow(result, id)
}

func expectRow(result sql.Result, id string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("event %q: %w", id, ErrNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (schedule.Event, error) {
	var (
		event       schedule.Event
		date        string
		isRecurring int
		endDate     sql.NullString
		days        string
	)
	err := row.Scan(
		&event.ID, &event.GroupID, &event.Title, &event.Type, &event.Status, &event.Location,
		&event.Notes, &event.URL, &date, &event.TimeZone, &event.DurationMinutes, &isRecurring,
		&event.RecurrenceType, &event.RecurrenceInterval, &endDate, &days, &event.RecurrenceParentID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return schedule.Event{}, err
		}
		return schedule.Event{}, fmt.Errorf("scan event: %w", err)
	}

	if event.Date, err = time.Parse(time.RFC3339Nano, date); err != nil {
		return schedule.Event{}, fmt.Errorf("parse date of %q: %w", event.ID, err)
	}
	if endDate.Valid && endDate.String != "" {
		end, err := time.Parse(time.RFC3339Nano, endDate.String)
		if err != nil {
			return schedule.Event{}, fmt.Errorf("parse recurrence end date of %q: %w", event.ID, err)
		}
		event.RecurrenceEndDate = &end
	}
	event.IsRecurring = isRecurring != 0
	event.RecurrenceDaysOfWeek = parseDays(days)
	return event, nil
}

func eventArgs(event schedule.Event) []any {
	var endDate sql.NullString
	if event.RecurrenceEndDate != nil {
		endDate = sql.NullString{String: formatTime(*event.RecurrenceEndDate), Valid: true}
	}
	isRecurring := 0
	if event.IsRecurring {
		isRecurring = 1
	}

	return []any{
		event.ID, event.GroupID, event.Title, event.Type, event.Status, event.Location,
		event.Notes, event.URL, formatTime(event.Date), event.TimeZone, event.DurationMinutes, isRecurring,
		event.RecurrenceType, event.RecurrenceInterval, endDate, formatDays(event.RecurrenceDaysOfWeek),
		event.RecurrenceParentID,
	}
}

func formatTime(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}

func formatDays(days []int) string {
	parts := make([]string, 0, len(days))
	for _, day := range days {
		parts = append(parts, strconv.Itoa(day))
	}
	return strings.Join(parts, ",")
}

func parseDays(value string) []int {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	days := make([]int, 0, 7)
	for _, part := range strings.Split(value, ",") {
		day, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		days = append(days, day)
	}
	return days
}
