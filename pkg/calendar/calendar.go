// Package calendar treats dates as whole calendar days. A day is stored as
// UTC midnight; locations only matter when deciding what "today" is.
package calendar

import (
	"fmt"
	"strings"
	"time"
)

const Layout = "2006-01-02"

var weekdayNames = [7]string{"sun", "mon", "tue", "wed", "thu", "fri", "sat"}

// ParseDate parses YYYY-MM-DD into UTC midnight.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(Layout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return t, nil
}

func Format(t time.Time) string {
	return t.Format(Layout)
}

// Day keeps t's wall-clock calendar day and drops everything else.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// EndOfDay is the last millisecond of t's calendar day.
func EndOfDay(t time.Time) time.Time {
	return Day(t).Add(24*time.Hour - time.Millisecond)
}

func Today(loc *time.Location, now time.Time) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return Day(now.In(loc))
}

func AddDays(t time.Time, n int) time.Time {
	return Day(t).AddDate(0, 0, n)
}

// DaysBetween counts whole days from a to b; negative when b precedes a.
func DaysBetween(a, b time.Time) int {
	return int(Day(b).Sub(Day(a)).Hours() / 24)
}

// Within reports whether d falls on or between from and to.
func Within(d, from, to time.Time) bool {
	day := Day(d)
	return !day.Before(Day(from)) && !day.After(Day(to))
}

func WeekdayName(w time.Weekday) string {
	return weekdayNames[w]
}

// ParseWeekday accepts three-letter or full English names in any case.
func ParseWeekday(s string) (time.Weekday, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) >= 3 {
		for i, name := range weekdayNames {
			if strings.HasPrefix(s, name) && strings.HasPrefix(strings.ToLower(time.Weekday(i).String()), s) {
				return time.Weekday(i), nil
			}
		}
	}
	return time.Sunday, fmt.Errorf("invalid weekday %q", s)
}
