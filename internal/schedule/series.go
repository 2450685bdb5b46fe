package schedule

import (
	"strings"
	"time"

	"github.com/samber/mo"

	"github.com/shulck/Band-Sync3-sub001/internal/recurrence"
)

const (
	RecurrenceDaily   = "daily"
	RecurrenceWeekly  = "weekly"
	RecurrenceMonthly = "monthly"
	RecurrenceYearly  = "yearly"
)

// Series returns the recurrence series of a recurring event. Non-recurring
// events have none; callers show them once at their own date.
func (e Event) Series() (recurrence.Series, bool) {
	if !e.IsRecurring {
		return recurrence.Series{}, false
	}

	series := recurrence.Series{
		Anchor: e.LocalDate(),
		Rule:   RuleFor(e.RecurrenceType, e.RecurrenceInterval, e.RecurrenceDaysOfWeek),
		Until:  mo.None[time.Time](),
	}
	if e.RecurrenceEndDate != nil {
		series.Until = mo.Some(*e.RecurrenceEndDate)
	}
	return series, true
}

// RuleFor maps stored recurrence fields to a rule. Unknown or missing types
// map to recurrence.None.
func RuleFor(recurrenceType string, interval int, daysOfWeek []int) recurrence.Rule {
	switch strings.ToLower(strings.TrimSpace(recurrenceType)) {
	case RecurrenceDaily:
		return recurrence.Daily{Interval: interval}
	case RecurrenceWeekly:
		return recurrence.Weekly{Interval: interval, Days: recurrence.NewWeekdays(daysOfWeek...)}
	case RecurrenceMonthly:
		return recurrence.Monthly{Interval: interval}
	case RecurrenceYearly:
		return recurrence.Yearly{Interval: interval}
	default:
		return recurrence.None{}
	}
}

// ApplySeries stores series on the event, replacing its date and recurrence
// fields. A None rule clears recurrence.
func (e *Event) ApplySeries(series recurrence.Series) {
	e.Date = series.Anchor
	e.IsRecurring = true
	e.RecurrenceDaysOfWeek = nil
	e.RecurrenceEndDate = nil

	switch rule := series.Rule.(type) {
	case recurrence.Daily:
		e.RecurrenceType, e.RecurrenceInterval = RecurrenceDaily, rule.Interval
	case recurrence.Weekly:
		e.RecurrenceType, e.RecurrenceInterval = RecurrenceWeekly, rule.Interval
		e.RecurrenceDaysOfWeek = rule.Days.Ints()
	case recurrence.Monthly:
		e.RecurrenceType, e.RecurrenceInterval = RecurrenceMonthly, rule.Interval
	case recurrence.Yearly:
		e.RecurrenceType, e.RecurrenceInterval = RecurrenceYearly, rule.Interval
	default:
		e.IsRecurring = false
		e.RecurrenceType, e.RecurrenceInterval = "", 0
		return
	}

	if until, ok := series.Until.Get(); ok {
		e.RecurrenceEndDate = &until
	}
}
