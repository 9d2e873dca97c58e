// Package employment bounds date ranges by a resource's employment window.
package employment

import (
	"time"

	"resource-planner/calendar"
	"resource-planner/models"
)

// EffectiveEnd returns requestedEnd, or the resource's last day of work when
// that is earlier.
func EffectiveEnd(resource models.Resource, requestedEnd time.Time) time.Time {
	end := calendar.Day(requestedEnd)
	if resource.LastDayOfWork == nil {
		return end
	}
	last := calendar.Day(*resource.LastDayOfWork)
	if last.Before(end) {
		return last
	}
	return end
}

// Clamp returns the range [start, EffectiveEnd] and false when nothing of it
// remains, in which case every downstream figure is zero.
func Clamp(resource models.Resource, start, end time.Time) (time.Time, time.Time, bool) {
	start = calendar.Day(start)
	end = EffectiveEnd(resource, end)
	if start.After(end) {
		return start, end, false
	}
	return start, end, true
}

// Window is the inclusive employment range. End is nil while the resource is
// still active.
type Window struct {
	Start time.Time
	End   *time.Time
}

// WindowOf returns the resource's employment window.
func WindowOf(resource models.Resource) Window {
	w := Window{Start: calendar.Day(resource.HireDate)}
	if resource.LastDayOfWork != nil {
		end := calendar.Day(*resource.LastDayOfWork)
		w.End = &end
	}
	return w
}

// Contains reports whether the day lies inside the window.
func (w Window) Contains(day time.Time) bool {
	day = calendar.Day(day)
	if day.Before(w.Start) {
		return false
	}
	return w.End == nil || !day.After(*w.End)
}

// Overlaps reports whether any day of [start, end] lies inside the window.
func (w Window) Overlaps(start, end time.Time) bool {
	start, end = calendar.Day(start), calendar.Day(end)
	if start.After(end) || end.Before(w.Start) {
		return false
	}
	return w.End == nil || !start.After(*w.End)
}

// ActiveOn reports whether the resource is employed on the day.
func ActiveOn(resource models.Resource, day time.Time) bool {
	return WindowOf(resource).Contains(day)
}
