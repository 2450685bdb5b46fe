package schedule

import (
	"strings"
	"time"
)

const (
	TypeGig       = "gig"
	TypeRehearsal = "rehearsal"
	TypeMeeting   = "meeting"
	TypeRecording = "recording"
	TypeOther     = "other"
)

const (
	StatusConfirmed = "confirmed"
	StatusTentative = "tentative"
	StatusCancelled = "cancelled"
)

const defaultDuration = time.Hour

// Event is a base calendar record as the band's document store keeps it.
// Recurrence fields are stored loosely; Series turns them into a rule.
type Event struct {
	ID       string `json:"id" yaml:"id"`
	GroupID  string `json:"groupId" yaml:"groupId"`
	Title    string `json:"title" yaml:"title"`
	Type     string `json:"type,omitempty" yaml:"type,omitempty"`
	Status   string `json:"status,omitempty" yaml:"status,omitempty"`
	Location string `json:"location,omitempty" yaml:"location,omitempty"`
	Notes    string `json:"notes,omitempty" yaml:"notes,omitempty"`
	URL      string `json:"url,omitempty" yaml:"url,omitempty"`

	Date            time.Time `json:"date" yaml:"date"`
	TimeZone        string    `json:"timeZone,omitempty" yaml:"timeZone,omitempty"`
	DurationMinutes int       `json:"durationMinutes,omitempty" yaml:"durationMinutes,omitempty"`

	IsRecurring          bool       `json:"isRecurring" yaml:"isRecurring"`
	RecurrenceType       string     `json:"recurrenceType,omitempty" yaml:"recurrenceType,omitempty"`
	RecurrenceInterval   int        `json:"recurrenceInterval,omitempty" yaml:"recurrenceInterval,omitempty"`
	RecurrenceEndDate    *time.Time `json:"recurrenceEndDate,omitempty" yaml:"recurrenceEndDate,omitempty"`
	RecurrenceDaysOfWeek []int      `json:"recurrenceDaysOfWeek,omitempty" yaml:"recurrenceDaysOfWeek,omitempty"`
	RecurrenceParentID   string     `json:"recurrenceParentId,omitempty" yaml:"recurrenceParentId,omitempty"`
}

// LocalDate is Date in the event's IANA time zone, so that recurring
// occurrences keep their wall-clock time across DST changes.
func (e Event) LocalDate() time.Time {
	name := strings.TrimSpace(e.TimeZone)
	if name == "" {
		return e.Date
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return e.Date
	}
	return e.Date.In(loc)
}

func (e Event) Duration() time.Duration {
	if e.DurationMinutes <= 0 {
		return defaultDuration
	}
	return time.Duration(e.DurationMinutes) * time.Minute
}

// Occurrence is one displayed instance of an Event. Recurring events yield
// one occurrence per generated date; it has no stored identity of its own.
type Occurrence struct {
	EventID   string    `json:"eventId"`
	GroupID   string    `json:"groupId,omitempty"`
	Title     string    `json:"title"`
	Type      string    `json:"type,omitempty"`
	Status    string    `json:"status,omitempty"`
	Location  string    `json:"location,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Recurring bool      `json:"recurring"`
	MapURL    string    `json:"mapUrl,omitempty"`
	EventURL  string    `json:"eventUrl,omitempty"`
	Provider  string    `json:"provider,omitempty"`
}

func (o Occurrence) Key() string {
	return o.EventID + "|" + o.Start.UTC().Format(time.RFC3339Nano)
}

func (o Occurrence) Cancelled() bool {
	return strings.EqualFold(strings.TrimSpace(o.Status), StatusCancelled)
}

func TypeLabel(eventType string) string {
	switch normalizeType(eventType) {
	case TypeGig:
		return "Gig"
	case TypeRehearsal:
		return "Rehearsal"
	case TypeMeeting:
		return "Meeting"
	case TypeRecording:
		return "Recording"
	default:
		return "Event"
	}
}

func typeRank(eventType string) int {
	switch normalizeType(eventType) {
	case TypeGig:
		return 0
	case TypeRecording:
		return 1
	case TypeRehearsal:
		return 2
	case TypeMeeting:
		return 3
	default:
		return 4
	}
}

func normalizeType(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
