package claims

import (
	"fmt"
	"strings"
	"time"

	"turfslot/pkg/calendar"
)

// WeekdaySet is a bitmask indexed by time.Weekday.
type WeekdaySet uint8

const EveryDay WeekdaySet = 1<<7 - 1

func WeekdaysOf(days ...time.Weekday) WeekdaySet {
	var s WeekdaySet
	for _, d := range days {
		s |= 1 << uint(d)
	}
	return s
}

func ParseWeekdays(names []string) (WeekdaySet, error) {
	var s WeekdaySet
	for _, n := range names {
		d, err := calendar.ParseWeekday(n)
		if err != nil {
			return 0, err
		}
		s |= 1 << uint(d)
	}
	return s, nil
}

func (s WeekdaySet) Has(d time.Weekday) bool {
	return s&(1<<uint(d)) != 0
}

func (s WeekdaySet) Names() []string {
	var out []string
	for d := time.Sunday; d <= time.Saturday; d++ {
		if s.Has(d) {
			out = append(out, calendar.WeekdayName(d))
		}
	}
	return out
}

func (s WeekdaySet) String() string {
	return "[" + strings.Join(s.Names(), ",") + "]"
}

type recurrenceKind uint8

const (
	recurNone recurrenceKind = iota
	recurOnDate
	recurWeekly
	recurAlways
	recurRange
)

// Recurrence is the date predicate of a claim: one exact date, a weekly
// weekday set, every date, or an inclusive date range.
type Recurrence struct {
	kind recurrenceKind
	from time.Time
	to   time.Time
	days WeekdaySet
}

func OnDate(date time.Time) Recurrence {
	d := calendar.Day(date)
	return Recurrence{kind: recurOnDate, from: d, to: d, days: WeekdaysOf(d.Weekday())}
}

func Weekly(days WeekdaySet) Recurrence {
	return Recurrence{kind: recurWeekly, days: days}
}

func Always() Recurrence {
	return Recurrence{kind: recurAlways, days: EveryDay}
}

// Range covers every day from start to end inclusive. Time of day is ignored.
func Range(start, end time.Time) Recurrence {
	return Recurrence{kind: recurRange, from: calendar.Day(start), to: calendar.Day(end), days: EveryDay}
}

func (r Recurrence) bounded() bool {
	return r.kind == recurOnDate || r.kind == recurRange
}

func (r Recurrence) Matches(date time.Time) bool {
	d := calendar.Day(date)
	switch r.kind {
	case recurOnDate, recurRange:
		return !d.Before(r.from) && !d.After(r.to)
	case recurWeekly, recurAlways:
		return r.days.Has(d.Weekday())
	}
	return false
}

func (r Recurrence) String() string {
	switch r.kind {
	case recurOnDate:
		return "on " + calendar.Format(r.from)
	case recurWeekly:
		return "weekly " + r.days.String()
	case recurAlways:
		return "every day"
	case recurRange:
		return fmt.Sprintf("%s..%s", calendar.Format(r.from), calendar.Format(r.to))
	}
	return "never"
}

// Window returns the dates the predicate can match. ok is false for
// open-ended predicates.
func (r Recurrence) Window() (from, to time.Time, ok bool) {
	return r.from, r.to, r.bounded()
}

// Overlaps reports whether a and b both match at least one date on or after
// from. A zero from places no lower bound.
func Overlaps(a, b Recurrence, from time.Time) bool {
	if a.kind == recurNone || b.kind == recurNone || a.days&b.days == 0 {
		return false
	}

	var lo, hi time.Time
	bounded := false
	if !from.IsZero() {
		lo = calendar.Day(from)
	}
	for _, r := range []Recurrence{a, b} {
		if !r.bounded() {
			continue
		}
		if lo.IsZero() || r.from.After(lo) {
			lo = r.from
		}
		if !bounded || r.to.Before(hi) {
			hi = r.to
		}
		bounded = true
	}

	if !bounded {
		return true
	}
	if hi.Before(lo) {
		return false
	}
	// A window of a full week or more contains every weekday, so the shared
	// weekday bit above is enough.
	if calendar.DaysBetween(lo, hi) >= 6 {
		return true
	}
	for d := lo; !d.After(hi); d = d.AddDate(0, 0, 1) {
		if a.Matches(d) && b.Matches(d) {
			return true
		}
	}
	return false
}
