// Package periods partitions a rolling window starting at an anchor date into
// the day, week or month buckets shown as report columns.
package periods

import (
	"fmt"
	"time"

	"resource-planner/calendar"
	planerrors "resource-planner/errors"
	"resource-planner/models"
)

const (
	// DayCount is the number of daily columns in the day view.
	DayCount = 14
	// WeekCount is the number of Monday-Sunday columns in the week view.
	WeekCount = 4
	// MonthCount is the number of calendar-month columns in the month view.
	MonthCount = 3
)

// ParseViewMode validates a view mode string.
func ParseViewMode(s string) (models.ViewMode, error) {
	switch m := models.ViewMode(s); m {
	case models.ViewDay, models.ViewWeek, models.ViewMonth:
		return m, nil
	}
	return "", fmt.Errorf("%w: %q", planerrors.ErrUnknownViewMode, s)
}

// StartOfWeek returns the Monday of the day's week. Sunday closes the
// previous week.
func StartOfWeek(t time.Time) time.Time {
	day := calendar.Day(t)
	wd := int(day.Weekday())
	if wd == 0 {
		return day.AddDate(0, 0, -6)
	}
	return day.AddDate(0, 0, -(wd - 1))
}

// StartOfMonth returns the 1st of the day's month.
func StartOfMonth(t time.Time) time.Time {
	day := calendar.Day(t)
	return calendar.Date(day.Year(), day.Month(), 1)
}

// EndOfMonth returns the last day of the day's month.
func EndOfMonth(t time.Time) time.Time {
	return StartOfMonth(t).AddDate(0, 1, -1)
}

// EffectiveAnchor is the first day of the first period Build produces.
func EffectiveAnchor(anchor time.Time, mode models.ViewMode) time.Time {
	switch mode {
	case models.ViewWeek:
		return StartOfWeek(anchor)
	case models.ViewMonth:
		return StartOfMonth(anchor)
	default:
		return calendar.Day(anchor)
	}
}

// Build returns the ordered periods of the view starting at anchor.
func Build(anchor time.Time, mode models.ViewMode) ([]models.Period, error) {
	start := EffectiveAnchor(anchor, mode)

	switch mode {
	case models.ViewDay:
		out := make([]models.Period, 0, DayCount)
		for i := range DayCount {
			d := start.AddDate(0, 0, i)
			out = append(out, models.Period{Start: d, End: d, Granularity: mode})
		}
		return out, nil

	case models.ViewWeek:
		out := make([]models.Period, 0, WeekCount)
		for i := range WeekCount {
			s := start.AddDate(0, 0, 7*i)
			out = append(out, models.Period{Start: s, End: s.AddDate(0, 0, 6), Granularity: mode})
		}
		return out, nil

	case models.ViewMonth:
		out := make([]models.Period, 0, MonthCount)
		for i := range MonthCount {
			// start is always the 1st, so AddDate never overflows into the next month.
			s := start.AddDate(0, i, 0)
			out = append(out, models.Period{Start: s, End: EndOfMonth(s), Granularity: mode})
		}
		return out, nil
	}

	return nil, fmt.Errorf("%w: %q", planerrors.ErrUnknownViewMode, mode)
}

// Span returns the first start and last end of the periods.
func Span(ps []models.Period) (time.Time, time.Time) {
	if len(ps) == 0 {
		return time.Time{}, time.Time{}
	}
	return ps[0].Start, ps[len(ps)-1].End
}
