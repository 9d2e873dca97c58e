// Package calendar resolves non-working days for a location and counts the
// working days in an interval.
//
// Every date entering this package is reduced to UTC midnight of its own
// calendar date first, so the wall-clock time and the zone of the input never
// shift a result by a day.
package calendar

import (
	"time"

	"resource-planner/models"
)

// Day returns t's calendar date at UTC midnight. The year, month and day are
// read in t's own location before conversion.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Date builds a normalized day value.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses an ISO YYYY-MM-DD string into a normalized day.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(models.DateLayout, s, time.UTC)
}

// MustParseDate is ParseDate for literals known to be valid.
func MustParseDate(s string) time.Time {
	t, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return t
}

// FormatDate renders a day in the canonical ISO form used as allocation key.
func FormatDate(t time.Time) string {
	return Day(t).Format(models.DateLayout)
}

// AddDays moves a normalized day by n calendar days.
func AddDays(t time.Time, n int) time.Time {
	return Day(t).AddDate(0, 0, n)
}

// IsWeekend reports whether the day is a Saturday or Sunday.
func IsWeekend(t time.Time) bool {
	switch Day(t).Weekday() {
	case time.Saturday, time.Sunday:
		return true
	}
	return false
}

// Applies reports whether the event makes the day non-working at location.
// Only local holidays are location-bound.
func Applies(ev models.CalendarEvent, location string) bool {
	if ev.Type != models.LocalHoliday {
		return true
	}
	return ev.Location != nil && *ev.Location == location
}

// IsNonWorkingDay reports whether date is a weekend or covered by any event
// applicable to location.
func IsNonWorkingDay(date time.Time, location string, events []models.CalendarEvent) bool {
	day := Day(date)
	if IsWeekend(day) {
		return true
	}
	for _, ev := range events {
		if Day(ev.Date).Equal(day) && Applies(ev, location) {
			return true
		}
	}
	return false
}

// CountWorkingDays counts the days in [start, end] that are neither weekend
// nor holiday for location. It returns 0 when start is after end.
func CountWorkingDays(start, end time.Time, location string, events []models.CalendarEvent) int {
	return NewIndex(events).CountWorkingDays(start, end, location)
}
