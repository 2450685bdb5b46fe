// Package ical converts band events to and from iCalendar feeds.
package ical

import (
	"fmt"
	"io"
	"strings"
	"time"
	_ "time/tzdata"

	ics "github.com/arran4/golang-ical"

	"github.com/shulck/Band-Sync3-sub001/internal/log"
	"github.com/shulck/Band-Sync3-sub001/internal/recurrence"
	"github.com/shulck/Band-Sync3-sub001/internal/schedule"
)

// Parse reads VEVENTs from r as events of groupID. Events whose RRULE cannot
// be represented are imported once, at their DTSTART.
func Parse(groupID string, r io.Reader) ([]schedule.Event, error) {
	parsed, err := ics.ParseCalendar(r)
	if err != nil {
		return nil, fmt.Errorf("parse ics payload: %w", err)
	}

	vevents := parsed.Events()
	if len(vevents) == 0 {
		return nil, nil
	}

	results := make([]schedule.Event, 0, len(vevents))
	for _, vevent := range vevents {
		event, mapErr := mapEvent(groupID, vevent)
		if mapErr != nil {
			log.Debug("skip vevent", "uid", vevent.Id(), "reason", mapErr.Error())
			continue
		}
		results = append(results, event)
	}
	return results, nil
}

func mapEvent(groupID string, vevent *ics.VEvent) (schedule.Event, error) {
	dtstart := vevent.GetProperty(ics.ComponentPropertyDtStart)
	if dtstart == nil {
		return schedule.Event{}, fmt.Errorf("missing DTSTART")
	}
	start, err := parseICSTimeValue(dtstart.Value, dtstart.ICalParameters)
	if err != nil {
		return schedule.Event{}, err
	}

	duration := time.Hour
	if allDay := isAllDay(dtstart); allDay {
		duration = 24 * time.Hour
	}
	if dtend := vevent.GetProperty(ics.ComponentPropertyDtEnd); dtend != nil {
		if end, endErr := parseICSTimeValue(dtend.Value, dtend.ICalParameters); endErr == nil && end.After(start) {
			duration = end.Sub(start)
		}
	}

	uid := strings.TrimSpace(propertyValue(vevent.GetProperty(ics.ComponentPropertyUniqueId)))
	summary := sanitize(propertyValue(vevent.GetProperty(ics.ComponentPropertySummary)))

	event := schedule.Event{
		ID:              uid,
		GroupID:         groupID,
		Title:           summary,
		Type:            typeFromCategories(propertyValue(vevent.GetProperty(ics.ComponentPropertyCategories))),
		Status:          statusFromICS(propertyValue(vevent.GetProperty(ics.ComponentPropertyStatus))),
		Location:        strings.TrimSpace(propertyValue(vevent.GetProperty(ics.ComponentPropertyLocation))),
		Notes:           strings.TrimSpace(propertyValue(vevent.GetProperty(ics.ComponentPropertyDescription))),
		URL:             strings.TrimSpace(propertyValue(vevent.GetProperty(ics.ComponentPropertyUrl))),
		Date:            start,
		TimeZone:        tzid(dtstart.ICalParameters),
		DurationMinutes: int(duration / time.Minute),
	}

	if rule := strings.TrimSpace(propertyValue(vevent.GetProperty(ics.ComponentPropertyRrule))); rule != "" {
		series, ruleErr := recurrence.ParseRRULE(start, rule)
		if ruleErr != nil {
			log.Info("importing recurring event as single", "uid", uid, "rrule", rule, "reason", ruleErr.Error())
		} else {
			event.ApplySeries(series)
		}
	}

	return event, nil
}

func typeFromCategories(value string) string {
	for _, category := range strings.Split(value, ",") {
		switch normalized := strings.ToLower(strings.TrimSpace(category)); normalized {
		case schedule.TypeGig, schedule.TypeRehearsal, schedule.TypeMeeting, schedule.TypeRecording:
			return normalized
		}
	}
	return schedule.TypeOther
}

func statusFromICS(value string) string {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case "TENTATIVE":
		return schedule.StatusTentative
	case "CANCELLED":
		return schedule.StatusCancelled
	default:
		return schedule.StatusConfirmed
	}
}

func tzid(params map[string][]string) string {
	if values, ok := params[string(ics.ParameterTzid)]; ok && len(values) > 0 {
		name := strings.TrimSpace(values[0])
		if _, err := time.LoadLocation(name); err == nil {
			return name
		}
	}
	return ""
}

func parseICSTimeValue(value string, params map[string][]string) (time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return time.Time{}, fmt.Errorf("empty time value")
	}

	loc := time.Local
	if name := tzid(params); name != "" {
		if loaded, err := time.LoadLocation(name); err == nil {
			loc = loaded
		}
	}

	layouts := []string{
		"20060102T150405Z",
		"20060102T1504Z",
		"20060102T150405",
		"20060102T1504",
		"20060102",
	}

	for _, layout := range layouts {
		if strings.HasSuffix(layout, "Z") {
			if parsed, err := time.Parse(layout, trimmed); err == nil {
				return parsed, nil
			}
			continue
		}
		if parsed, err := time.ParseInLocation(layout, trimmed, loc); err == nil {
			return parsed, nil
		}
	}

	return time.Time{}, fmt.Errorf("unable to parse time value %q", trimmed)
}

func isAllDay(property *ics.IANAProperty) bool {
	if property == nil {
		return false
	}
	if values, ok := property.ICalParameters["VALUE"]; ok {
		for _, value := range values {
			if strings.EqualFold(strings.TrimSpace(value), "DATE") {
				return true
			}
		}
	}
	return len(strings.TrimSpace(property.Value)) == 8
}

func propertyValue(property *ics.IANAProperty) string {
	if property == nil {
		return ""
	}
	return property.Value
}

func sanitize(value string) string {
	return strings.Join(strings.Fields(strings.TrimSpace(value)), " ")
}
