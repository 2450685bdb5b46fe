package ical

import (
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
)

var (
	propertyTzoffsetfrom = ics.ComponentProperty(ics.PropertyTzoffsetfrom)
	propertyTzoffsetto   = ics.ComponentProperty(ics.PropertyTzoffsetto)
	propertyTzname       = ics.ComponentProperty(ics.PropertyTzname)
)

type transition struct {
	at   time.Time
	from int
	to   int
	name string
	dst  bool
}

// addTimezone appends a VTIMEZONE describing loc as observed in year. Zones
// that shift during the year get yearly STANDARD and DAYLIGHT observances;
// fixed-offset zones get a single STANDARD one.
func addTimezone(calendar *ics.Calendar, loc *time.Location, year int) {
	timezone := calendar.AddTimezone(loc.String())

	shifts := transitionsIn(loc, year)
	if len(shifts) == 0 {
		name, offset := time.Date(year, time.January, 1, 0, 0, 0, 0, loc).Zone()
		standard := timezone.AddStandard()
		standard.SetProperty(ics.ComponentPropertyDtStart, "19700101T000000")
		standard.SetProperty(propertyTzoffsetfrom, formatOffset(offset))
		standard.SetProperty(propertyTzoffsetto, formatOffset(offset))
		standard.SetProperty(propertyTzname, name)
		return
	}

	for _, shift := range shifts {
		var observance *ics.ComponentBase
		if shift.dst {
			daylight := &ics.Daylight{}
			timezone.Components = append(timezone.Components, daylight)
			observance = &daylight.ComponentBase
		} else {
			observance = &timezone.AddStandard().ComponentBase
		}

		onset := shift.at.Add(time.Duration(shift.from) * time.Second).UTC()
		observance.SetProperty(ics.ComponentPropertyDtStart, onset.Format(localLayout))
		observance.SetProperty(ics.ComponentPropertyRrule, yearlyRule(onset))
		observance.SetProperty(propertyTzoffsetfrom, formatOffset(shift.from))
		observance.SetProperty(propertyTzoffsetto, formatOffset(shift.to))
		observance.SetProperty(propertyTzname, shift.name)
	}
}

// transitionsIn finds the offset changes of loc during year, to the second.
func transitionsIn(loc *time.Location, year int) []transition {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, loc).Unix()
	end := time.Date(year+1, time.January, 1, 0, 0, 0, 0, loc).Unix()
	const day = int64(24 * 60 * 60)

	var out []transition
	prev := offsetAt(start, loc)
	for lo := start; lo < end; lo += day {
		hi := lo + day
		next := offsetAt(hi, loc)
		if next == prev {
			continue
		}
		a, b := lo, hi
		for b-a > 1 {
			mid := a + (b-a)/2
			if offsetAt(mid, loc) == prev {
				a = mid
			} else {
				b = mid
			}
		}
		at := time.Unix(b, 0).In(loc)
		name, _ := at.Zone()
		out = append(out, transition{at: at, from: prev, to: next, name: name, dst: at.IsDST()})
		prev = next
	}
	return out
}

func offsetAt(unix int64, loc *time.Location) int {
	_, offset := time.Unix(unix, 0).In(loc).Zone()
	return offset
}

// yearlyRule names the onset by weekday position in its month, counting
// from the end when it falls in the last week.
func yearlyRule(onset time.Time) string {
	weekday := rruleDay[onset.Weekday()]
	position := (onset.Day()-1)/7 + 1
	if onset.Day()+7 > daysInMonth(onset) {
		position = -1
	}
	return fmt.Sprintf("FREQ=YEARLY;BYMONTH=%d;BYDAY=%d%s", int(onset.Month()), position, weekday)
}

var rruleDay = [...]string{"SU", "MO", "TU", "WE", "TH", "FR", "SA"}

func daysInMonth(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func formatOffset(seconds int) string {
	sign := '+'
	if seconds < 0 {
		sign = '-'
		seconds = -seconds
	}
	return fmt.Sprintf("%c%02d%02d", sign, seconds/3600, seconds%3600/60)
}
