package recurrence

import "time"

// Expand returns the occurrences of the series inside [windowStart, windowEnd),
// in increasing order. It never fails: an empty or inverted window, an end
// date before the anchor or a None rule all yield an empty result.
func (s Series) Expand(windowStart, windowEnd time.Time) []time.Time {
	if s.Rule == nil {
		return nil
	}
	lo, hi, ok := s.bounds(windowStart, windowEnd)
	if !ok {
		return nil
	}
	return s.Rule.expand(s.Anchor, lo, hi)
}

// bounds folds the window, the anchor and the end date into one half-open
// range [lo, hi).
func (s Series) bounds(windowStart, windowEnd time.Time) (lo, hi time.Time, ok bool) {
	if !windowStart.Before(windowEnd) {
		return time.Time{}, time.Time{}, false
	}

	lo = windowStart
	if s.Anchor.After(lo) {
		lo = s.Anchor
	}

	hi = windowEnd
	if until, present := s.Until.Get(); present {
		if limit := endOfDay(until, s.Anchor.Location()); limit.Before(hi) {
			hi = limit
		}
	}

	return lo, hi, lo.Before(hi)
}

func (None) expand(_, _, _ time.Time) []time.Time {
	return nil
}

func (r Daily) expand(anchor, lo, hi time.Time) []time.Time {
	return stepDays(anchor, lo, hi, normalizeInterval(r.Interval))
}

func (r Weekly) expand(anchor, lo, hi time.Time) []time.Time {
	step := 7 * normalizeInterval(r.Interval)
	if r.Days.Empty() {
		return stepDays(anchor, lo, hi, step)
	}

	monday := anchor.AddDate(0, 0, -int(WeekdayOf(anchor)-Monday))
	days := r.Days.List()

	block := 0
	if skip := daysBetween(monday, lo)/step - 1; skip > 0 {
		block = skip
	}

	var out []time.Time
	for ; ; block++ {
		offset := block * step
		if !monday.AddDate(0, 0, offset).Before(hi) {
			return out
		}
		for _, day := range days {
			t := monday.AddDate(0, 0, offset+int(day-Monday))
			if t.Before(lo) {
				continue
			}
			if !t.Before(hi) {
				return out
			}
			out = append(out, t)
		}
	}
}

func (r Monthly) expand(anchor, lo, hi time.Time) []time.Time {
	return stepMonths(anchor, lo, hi, normalizeInterval(r.Interval))
}

func (r Yearly) expand(anchor, lo, hi time.Time) []time.Time {
	return stepMonths(anchor, lo, hi, 12*normalizeInterval(r.Interval))
}

// stepDays emits anchor + k*step calendar days. It starts one step short of
// lo so that wall-clock shifts cannot skip the first match.
func stepDays(anchor, lo, hi time.Time, step int) []time.Time {
	k := 0
	if skip := daysBetween(anchor, lo)/step - 1; skip > 0 {
		k = skip
	}

	var out []time.Time
	for ; ; k++ {
		t := anchor.AddDate(0, 0, k*step)
		if !t.Before(hi) {
			return out
		}
		if !t.Before(lo) {
			out = append(out, t)
		}
	}
}

func stepMonths(anchor, lo, hi time.Time, step int) []time.Time {
	k := 0
	if skip := monthsBetween(anchor, lo)/step - 1; skip > 0 {
		k = skip
	}

	var out []time.Time
	for ; ; k++ {
		t := addMonthsClamped(anchor, k*step)
		if !t.Before(hi) {
			return out
		}
		if !t.Before(lo) {
			out = append(out, t)
		}
	}
}

// addMonthsClamped moves t by months keeping its day of month and wall clock.
// Days past the end of the target month land on its last day.
func addMonthsClamped(t time.Time, months int) time.Time {
	year, month, day := t.Date()
	target := time.Date(year, month+time.Month(months), 1, 0, 0, 0, 0, time.UTC)
	if last := daysIn(target.Year(), target.Month()); day > last {
		day = last
	}
	return time.Date(target.Year(), target.Month(), day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// daysBetween counts calendar days from a to b in a's location.
func daysBetween(a, b time.Time) int {
	return int(civil(b.In(a.Location())).Sub(civil(a)) / (24 * time.Hour))
}

func monthsBetween(a, b time.Time) int {
	b = b.In(a.Location())
	return (b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month())
}

func civil(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// endOfDay returns midnight in loc after the calendar day of t. The day is
// read in t's own location: a bare date decoded as UTC midnight names that
// date, not the previous evening west of UTC.
func endOfDay(t time.Time, loc *time.Location) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day+1, 0, 0, 0, 0, loc)
}
