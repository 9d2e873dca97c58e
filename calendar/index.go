package calendar

import (
	"time"

	"resource-planner/models"
)

// Index groups calendar events by ISO date so each day is resolved with a
// single map lookup. An Index is read-only after construction and safe for
// concurrent use.
type Index struct {
	byDate map[string][]models.CalendarEvent
}

// NewIndex builds an index over events. The slice is not retained.
func NewIndex(events []models.CalendarEvent) *Index {
	idx := &Index{byDate: make(map[string][]models.CalendarEvent, len(events))}
	for _, ev := range events {
		key := FormatDate(ev.Date)
		idx.byDate[key] = append(idx.byDate[key], ev)
	}
	return idx
}

// EventsOn returns the events recorded for the day, regardless of location.
func (idx *Index) EventsOn(date time.Time) []models.CalendarEvent {
	if idx == nil {
		return nil
	}
	return idx.byDate[FormatDate(date)]
}

// IsNonWorkingDay has the same semantics as the package-level function.
func (idx *Index) IsNonWorkingDay(date time.Time, location string) bool {
	if IsWeekend(date) {
		return true
	}
	for _, ev := range idx.EventsOn(date) {
		if Applies(ev, location) {
			return true
		}
	}
	return false
}

// CountWorkingDays counts working days in the inclusive interval.
func (idx *Index) CountWorkingDays(start, end time.Time, location string) int {
	start, end = Day(start), Day(end)
	count := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if !idx.IsNonWorkingDay(d, location) {
			count++
		}
	}
	return count
}
