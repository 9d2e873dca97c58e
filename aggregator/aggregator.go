package aggregator

import (
	"time"

	"resource-planner/calendar"
	"resource-planner/employment"
	"resource-planner/models"
)

// Utilization is the outcome of aggregating a resource's allocations over a
// period. Percent is PersonDays / WorkingDays * 100 and is never clamped.
type Utilization struct {
	Start       time.Time
	End         time.Time
	WorkingDays int
	PersonDays  float64
	Percent     float64
}

// DayTotal is the summed raw percentage of every assignment on one day.
type DayTotal struct {
	Date    time.Time
	Percent int
}

// Aggregator evaluates allocations against one calendar. It holds no mutable
// state, so a single Aggregator may serve any number of goroutines.
type Aggregator struct {
	calendar *calendar.Index
}

// New builds an Aggregator over the calendar events.
func New(events []models.CalendarEvent) *Aggregator {
	return &Aggregator{calendar: calendar.NewIndex(events)}
}

// Utilization computes working days, person-days and the average
// utilization of the resource's assignments in [periodStart, periodEnd].
func (a *Aggregator) Utilization(
	resource models.Resource,
	assignments []models.Assignment,
	allocations models.Allocations,
	periodStart, periodEnd time.Time,
	location string,
) Utilization {
	start, end, ok := employment.Clamp(resource, periodStart, periodEnd)
	u := Utilization{Start: start, End: end}
	if !ok {
		return u
	}

	u.WorkingDays = a.calendar.CountWorkingDays(start, end, location)
	if u.WorkingDays == 0 {
		return u
	}

	points := a.percentPoints(resource, assignments, allocations, start, end, location)
	u.PersonDays = float64(points) / 100
	u.Percent = float64(points) / float64(u.WorkingDays)
	return u
}

// PersonDays returns the accumulated full-day equivalents in the clamped range.
func (a *Aggregator) PersonDays(
	resource models.Resource,
	assignments []models.Assignment,
	allocations models.Allocations,
	periodStart, periodEnd time.Time,
	location string,
) float64 {
	start, end, ok := employment.Clamp(resource, periodStart, periodEnd)
	if !ok {
		return 0
	}
	return float64(a.percentPoints(resource, assignments, allocations, start, end, location)) / 100
}

// percentPoints sums the raw percentages on working days as integer points.
// Callers divide once.
func (a *Aggregator) percentPoints(
	resource models.Resource,
	assignments []models.Assignment,
	allocations models.Allocations,
	start, end time.Time,
	location string,
) int {
	total := 0
	for _, as := range assignments {
		if as.ResourceID != resource.ID {
			continue
		}
		days := allocations[as.ID]
		if len(days) == 0 {
			continue
		}
		for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
			pct, ok := days[d.Format(models.DateLayout)]
			if !ok || pct == 0 {
				continue
			}
			// Entries on weekends or holidays are stale data and never count.
			if a.calendar.IsNonWorkingDay(d, location) {
				continue
			}
			total += pct
		}
	}
	return total
}

// DailyTotal sums the same-day percentage of every assignment of the
// resource. Days after the last day of work total 0.
func (a *Aggregator) DailyTotal(
	resource models.Resource,
	assignments []models.Assignment,
	allocations models.Allocations,
	day time.Time,
) int {
	day = calendar.Day(day)
	if day.After(employment.EffectiveEnd(resource, day)) {
		return 0
	}
	key := day.Format(models.DateLayout)
	total := 0
	for _, as := range assignments {
		if as.ResourceID != resource.ID {
			continue
		}
		total += allocations.Percentage(as.ID, key)
	}
	return total
}

// OverAllocatedDays lists the days in [start, end] whose daily total exceeds
// the resource's cap.
func (a *Aggregator) OverAllocatedDays(
	resource models.Resource,
	assignments []models.Assignment,
	allocations models.Allocations,
	start, end time.Time,
) []DayTotal {
	start, end, ok := employment.Clamp(resource, start, end)
	if !ok {
		return nil
	}
	limit := resource.Cap()
	var out []DayTotal
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		total := a.DailyTotal(resource, assignments, allocations, d)
		if total > limit {
			out = append(out, DayTotal{Date: d, Percent: total})
		}
	}
	return out
}

// AverageUtilization returns the average utilization percentage of the
// resource over the period. See Aggregator.Utilization.
func AverageUtilization(
	resource models.Resource,
	assignments []models.Assignment,
	allocations models.Allocations,
	periodStart, periodEnd time.Time,
	location string,
	events []models.CalendarEvent,
) float64 {
	return New(events).Utilization(resource, assignments, allocations, periodStart, periodEnd, location).Percent
}

// DailyUtilization is the single-day, multi-assignment total in percent.
func DailyUtilization(
	resource models.Resource,
	assignments []models.Assignment,
	allocations models.Allocations,
	day time.Time,
) float64 {
	return float64(New(nil).DailyTotal(resource, assignments, allocations, day))
}
