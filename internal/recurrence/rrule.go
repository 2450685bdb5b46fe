package recurrence

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/samber/mo"
	"github.com/teambition/rrule-go"
)

var ErrUnsupportedFrequency = errors.New("unsupported recurrence frequency")

var rruleWeekdays = [...]rrule.Weekday{rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR, rrule.SA, rrule.SU}

// RRULE renders the series as an RFC 5545 recurrence rule. Month-end
// clamping is spelled with BYMONTHDAY/BYSETPOS so that calendar clients
// produce the same dates as Expand.
func (s Series) RRULE() (string, error) {
	var opt rrule.ROption

	switch rule := s.Rule.(type) {
	case Daily:
		opt.Freq = rrule.DAILY
		opt.Interval = normalizeInterval(rule.Interval)
	case Weekly:
		opt.Freq = rrule.WEEKLY
		opt.Interval = normalizeInterval(rule.Interval)
		opt.Wkst = rrule.MO
		for _, day := range rule.Days.List() {
			opt.Byweekday = append(opt.Byweekday, rruleWeekdays[day-Monday])
		}
	case Monthly:
		opt.Freq = rrule.MONTHLY
		opt.Interval = normalizeInterval(rule.Interval)
		if day := s.Anchor.Day(); day > 28 {
			opt.Bymonthday = monthEndCandidates(day)
			opt.Bysetpos = []int{-1}
		}
	case Yearly:
		opt.Freq = rrule.YEARLY
		opt.Interval = normalizeInterval(rule.Interval)
		if s.Anchor.Month() == time.February && s.Anchor.Day() == 29 {
			opt.Bymonth = []int{2}
			opt.Bymonthday = monthEndCandidates(29)
			opt.Bysetpos = []int{-1}
		}
	default:
		return "", ErrUnsupportedFrequency
	}

	if until, ok := s.Until.Get(); ok {
		opt.Until = endOfDay(until, s.Anchor.Location()).Add(-time.Second)
	}

	return opt.RRuleString(), nil
}

// ParseRRULE builds a series from an RFC 5545 rule anchored at anchor.
// COUNT is folded into the end date.
func ParseRRULE(anchor time.Time, value string) (Series, error) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(value), "RRULE:")
	opt, err := rrule.StrToROption(trimmed)
	if err != nil {
		return Series{}, fmt.Errorf("parse rrule %q: %w", trimmed, err)
	}

	series := Series{Anchor: anchor, Until: mo.None[time.Time]()}
	switch opt.Freq {
	case rrule.DAILY:
		series.Rule = Daily{Interval: normalizeInterval(opt.Interval)}
	case rrule.WEEKLY:
		var days Weekdays
		for _, wd := range opt.Byweekday {
			days = days.With(Weekday(wd.Day() + 1))
		}
		series.Rule = Weekly{Interval: normalizeInterval(opt.Interval), Days: days}
	case rrule.MONTHLY:
		series.Rule = Monthly{Interval: normalizeInterval(opt.Interval)}
	case rrule.YEARLY:
		series.Rule = Yearly{Interval: normalizeInterval(opt.Interval)}
	default:
		return Series{}, fmt.Errorf("%w: %q", ErrUnsupportedFrequency, trimmed)
	}

	if !opt.Until.IsZero() {
		series.Until = mo.Some(untilDate(opt.Until, hasDateUntil(trimmed), anchor.Location()))
	}

	if opt.Count > 0 {
		opt.Dtstart = anchor
		rule, err := rrule.NewRRule(*opt)
		if err != nil {
			return Series{}, fmt.Errorf("build rrule %q: %w", trimmed, err)
		}
		if all := rule.All(); len(all) > 0 {
			last := all[len(all)-1]
			if until, ok := series.Until.Get(); !ok || last.Before(until) {
				series.Until = mo.Some(last)
			}
		}
	}

	return series, nil
}

// untilDate reduces UNTIL to midnight of its calendar day in loc. A DATE
// value names its day directly; a DATE-TIME is read in loc first.
func untilDate(until time.Time, dateOnly bool, loc *time.Location) time.Time {
	if !dateOnly {
		until = until.In(loc)
	}
	year, month, day := until.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, loc)
}

func hasDateUntil(rule string) bool {
	for _, part := range strings.Split(rule, ";") {
		key, value, found := strings.Cut(part, "=")
		if found && strings.EqualFold(strings.TrimSpace(key), "UNTIL") {
			return !strings.ContainsAny(value, "Tt")
		}
	}
	return false
}

func monthEndCandidates(day int) []int {
	days := make([]int, 0, day-27)
	for d := 28; d <= day; d++ {
		days = append(days, d)
	}
	return days
}
