package ical

import (
	"fmt"
	"io"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/shulck/Band-Sync3-sub001/internal/log"
	"github.com/shulck/Band-Sync3-sub001/internal/schedule"
)

const productID = "-//Band Sync//waybar-bandsync//EN"

const localLayout = "20060102T150405"

// Encode writes events as a VCALENDAR. Recurring events carry an RRULE;
// events whose rule has no RRULE form are written as single events.
func Encode(w io.Writer, events []schedule.Event, stamp time.Time) error {
	calendar := ics.NewCalendar()
	calendar.SetMethod(ics.MethodPublish)
	calendar.SetProductId(productID)

	zones := make(map[string]struct{})
	for _, event := range events {
		loc, ok := eventZone(event)
		if !ok {
			continue
		}
		if _, seen := zones[loc.String()]; seen {
			continue
		}
		zones[loc.String()] = struct{}{}
		addTimezone(calendar, loc, event.LocalDate().Year())
	}

	for _, event := range events {
		if strings.TrimSpace(event.ID) == "" {
			continue
		}
		addEvent(calendar, event, stamp)
	}

	if _, err := io.WriteString(w, calendar.Serialize()); err != nil {
		return fmt.Errorf("write ics: %w", err)
	}
	return nil
}

func addEvent(calendar *ics.Calendar, event schedule.Event, stamp time.Time) {
	vevent := calendar.AddEvent(event.ID)
	vevent.SetDtStampTime(stamp.UTC())

	start := event.LocalDate()
	end := start.Add(event.Duration())
	if loc, ok := eventZone(event); ok {
		tz := &ics.KeyValues{Key: string(ics.ParameterTzid), Value: []string{loc.String()}}
		vevent.SetProperty(ics.ComponentPropertyDtStart, start.Format(localLayout), tz)
		vevent.SetProperty(ics.ComponentPropertyDtEnd, end.Format(localLayout), tz)
	} else {
		vevent.SetStartAt(start)
		vevent.SetEndAt(end)
	}

	vevent.SetSummary(event.Title)
	if event.Location != "" {
		vevent.SetLocation(event.Location)
	}
	if event.Notes != "" {
		vevent.SetDescription(event.Notes)
	}
	if event.URL != "" {
		vevent.SetURL(event.URL)
	}
	vevent.SetProperty(ics.ComponentPropertyStatus, strings.ToUpper(statusToICS(event.Status)))
	vevent.SetProperty(ics.ComponentPropertyCategories, strings.ToUpper(typeToCategory(event.Type)))

	series, ok := event.Series()
	if !ok {
		return
	}
	rule, err := series.RRULE()
	if err != nil {
		log.Info("exporting recurring event without rrule", "id", event.ID, "reason", err.Error())
		return
	}
	vevent.SetProperty(ics.ComponentPropertyRrule, rule)
}

// eventZone is the location DTSTART is written in. Events without a loadable
// time zone are written in UTC.
func eventZone(event schedule.Event) (*time.Location, bool) {
	if strings.TrimSpace(event.ID) == "" {
		return nil, false
	}
	name := strings.TrimSpace(event.TimeZone)
	loc := event.LocalDate().Location()
	if name == "" || loc.String() != name {
		return nil, false
	}
	return loc, true
}

func statusToICS(status string) string {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case schedule.StatusTentative:
		return "TENTATIVE"
	case schedule.StatusCancelled:
		return "CANCELLED"
	default:
		return "CONFIRMED"
	}
}

func typeToCategory(eventType string) string {
	switch normalized := strings.ToLower(strings.TrimSpace(eventType)); normalized {
	case schedule.TypeGig, schedule.TypeRehearsal, schedule.TypeMeeting, schedule.TypeRecording:
		return normalized
	default:
		return schedule.TypeOther
	}
}
