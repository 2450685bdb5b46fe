// Package recurrence expands recurring band events into concrete
// occurrences inside a query window.
package recurrence

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/samber/mo"
)

// Rule is the recurrence pattern of a series. The set of implementations is
// closed: None, Daily, Weekly, Monthly and Yearly.
type Rule interface {
	expand(anchor, lo, hi time.Time) []time.Time
	describe() string
}

// None is the rule of a stored event whose recurrence type is missing or not
// understood. It never produces occurrences.
type None struct{}

type Daily struct {
	Interval int
}

// Weekly repeats every Interval weeks. With Days empty it repeats on the
// anchor's weekday; otherwise on every listed weekday of each included week.
type Weekly struct {
	Interval int
	Days     Weekdays
}

// Monthly repeats every Interval months on the anchor's day of month, clamped
// to the last day of shorter months.
type Monthly struct {
	Interval int
}

// Yearly repeats every Interval years. Feb 29 anchors fall on Feb 28 in
// non-leap years.
type Yearly struct {
	Interval int
}

// Series is a recurring event reduced to what expansion needs. Until is the
// last date (inclusive, whole day) on which an occurrence may fall.
type Series struct {
	Anchor time.Time
	Rule   Rule
	Until  mo.Option[time.Time]
}

func (None) describe() string      { return "none" }
func (r Daily) describe() string   { return fmt.Sprintf("daily/%d", normalizeInterval(r.Interval)) }
func (r Monthly) describe() string { return fmt.Sprintf("monthly/%d", normalizeInterval(r.Interval)) }
func (r Yearly) describe() string  { return fmt.Sprintf("yearly/%d", normalizeInterval(r.Interval)) }
func (r Weekly) describe() string {
	return fmt.Sprintf("weekly/%d/%v", normalizeInterval(r.Interval), r.Days.Ints())
}

// Fingerprint identifies the rule version of a series. Two series with the
// same fingerprint expand identically for every window.
func (s Series) Fingerprint() string {
	rule := Rule(None{})
	if s.Rule != nil {
		rule = s.Rule
	}

	until := "-"
	if value, ok := s.Until.Get(); ok {
		until = value.Format(time.RFC3339Nano)
	}

	sum := sha256.Sum256([]byte(s.Anchor.Format(time.RFC3339Nano) + "|" + s.Anchor.Location().String() + "|" + rule.describe() + "|" + until))
	return hex.EncodeToString(sum[:16])
}

func normalizeInterval(interval int) int {
	if interval <= 0 {
		return 1
	}
	return interval
}
