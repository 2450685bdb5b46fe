package recurrence

import "time"

// Weekday numbers days the way stored rules do: 1 = Monday .. 7 = Sunday.
type Weekday int

const (
	Monday Weekday = iota + 1
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

// Weekdays is a set of Weekday values. Iteration is always Monday first.
type Weekdays uint8

func NewWeekdays(days ...int) Weekdays {
	var set Weekdays
	for _, day := range days {
		set = set.With(Weekday(day))
	}
	return set
}

// With returns the set plus day. Values outside 1..7 are ignored.
func (w Weekdays) With(day Weekday) Weekdays {
	if day < Monday || day > Sunday {
		return w
	}
	return w | 1<<uint(day-1)
}

func (w Weekdays) Has(day Weekday) bool {
	if day < Monday || day > Sunday {
		return false
	}
	return w&(1<<uint(day-1)) != 0
}

func (w Weekdays) Empty() bool {
	return w == 0
}

func (w Weekdays) List() []Weekday {
	if w.Empty() {
		return nil
	}
	days := make([]Weekday, 0, 7)
	for day := Monday; day <= Sunday; day++ {
		if w.Has(day) {
			days = append(days, day)
		}
	}
	return days
}

func (w Weekdays) Ints() []int {
	days := w.List()
	if len(days) == 0 {
		return nil
	}
	ints := make([]int, len(days))
	for i, day := range days {
		ints[i] = int(day)
	}
	return ints
}

func WeekdayOf(t time.Time) Weekday {
	if t.Weekday() == time.Sunday {
		return Sunday
	}
	return Weekday(t.Weekday())
}
