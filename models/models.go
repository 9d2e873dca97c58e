package models

import (
	"fmt"
	"time"

	planerrors "resource-planner/errors"
)

// DateLayout is the canonical ISO 8601 day format used for allocation keys
// and at every ingestion and presentation boundary.
const DateLayout = "2006-01-02"

// DefaultCap is the staffing cap applied when a resource has none configured.
const DefaultCap = 100

// PercentageStep is the granularity allocation percentages are entered in.
const PercentageStep = 5

// Resource represents a staff member whose time is allocated to assignments.
type Resource struct {
	ID       string `json:"id"`
	Name     string `json:"name,omitempty"`
	Location string `json:"location"`
	// HireDate is the first day of employment (UTC midnight).
	HireDate time.Time `json:"hire_date"`
	// LastDayOfWork is set only when the resource has resigned.
	LastDayOfWork *time.Time `json:"last_day_of_work,omitempty"`
	// MaxStaffingPercentage caps the resource's roll-up; nil means DefaultCap.
	MaxStaffingPercentage *int `json:"max_staffing_percentage,omitempty"`
}

// Cap returns the configured staffing cap or DefaultCap.
func (r Resource) Cap() int {
	if r.MaxStaffingPercentage == nil {
		return DefaultCap
	}
	return *r.MaxStaffingPercentage
}

// Resigned reports whether a last day of work is set.
func (r Resource) Resigned() bool {
	return r.LastDayOfWork != nil
}

// Assignment links a resource to a project. Its time extent is defined by
// its allocation entries only.
type Assignment struct {
	ID         string `json:"id"`
	ResourceID string `json:"resource_id"`
	ProjectID  string `json:"project_id"`
	Role       string `json:"role,omitempty"`
}

// EventType classifies a non-working calendar occurrence.
type EventType string

const (
	NationalHoliday EventType = "NATIONAL_HOLIDAY"
	CompanyClosure  EventType = "COMPANY_CLOSURE"
	LocalHoliday    EventType = "LOCAL_HOLIDAY"
)

// Valid reports whether t is one of the known event types.
func (t EventType) Valid() bool {
	switch t {
	case NationalHoliday, CompanyClosure, LocalHoliday:
		return true
	}
	return false
}

// CalendarEvent is a non-working day. Location is only consulted for
// LocalHoliday events; nil means the event applies everywhere.
type CalendarEvent struct {
	Date     time.Time `json:"date"`
	Type     EventType `json:"type"`
	Location *string   `json:"location,omitempty"`
	Name     string    `json:"name,omitempty"`
}

// DayAllocations maps an ISO date to the percentage committed on that day.
type DayAllocations map[string]int

// Allocations is the sparse allocation table keyed by assignment ID.
// A missing assignment or date means 0%.
type Allocations map[string]DayAllocations

// Percentage returns the allocation for the assignment on the ISO date, or 0.
func (a Allocations) Percentage(assignmentID, date string) int {
	days, ok := a[assignmentID]
	if !ok {
		return 0
	}
	return days[date]
}

// Upsert sets the percentage for (assignmentID, date). A value of 0 removes
// the entry so that absence and zero stay indistinguishable. A nil map is
// allocated on first write.
func (a *Allocations) Upsert(assignmentID, date string, percentage int) error {
	if _, err := time.Parse(DateLayout, date); err != nil {
		return fmt.Errorf("%w: %q", planerrors.ErrInvalidDate, date)
	}
	if err := ValidatePercentage(percentage); err != nil {
		return err
	}

	if percentage == 0 {
		if days, ok := (*a)[assignmentID]; ok {
			delete(days, date)
			if len(days) == 0 {
				delete(*a, assignmentID)
			}
		}
		return nil
	}

	if *a == nil {
		*a = make(Allocations)
	}
	days, ok := (*a)[assignmentID]
	if !ok {
		days = make(DayAllocations)
		(*a)[assignmentID] = days
	}
	days[date] = percentage
	return nil
}

// ValidatePercentage rejects values outside [0, 100] or off the 5% grid.
func ValidatePercentage(percentage int) error {
	if percentage < 0 || percentage > 100 {
		return fmt.Errorf("%w: %d", planerrors.ErrPercentageOutOfRange, percentage)
	}
	if percentage%PercentageStep != 0 {
		return fmt.Errorf("%w: %d", planerrors.ErrPercentageStep, percentage)
	}
	return nil
}

// ViewMode selects the period granularity of a report.
type ViewMode string

const (
	ViewDay   ViewMode = "day"
	ViewWeek  ViewMode = "week"
	ViewMonth ViewMode = "month"
)

// Period is a display bucket with inclusive bounds.
type Period struct {
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	Granularity ViewMode  `json:"granularity"`
}

// Label renders the period as used in column headers.
func (p Period) Label() string {
	switch p.Granularity {
	case ViewDay:
		return p.Start.Format(DateLayout)
	case ViewMonth:
		return p.Start.Format("2006-01")
	default:
		return p.Start.Format(DateLayout) + ".." + p.End.Format(DateLayout)
	}
}

// Classification is the capacity state of a utilization figure.
type Classification string

const (
	Over    Classification = "OVER"
	AtCap   Classification = "AT_CAP"
	Partial Classification = "PARTIAL"
	Empty   Classification = "EMPTY"
)

// Snapshot is the read-only input bundle handed to the engine.
type Snapshot struct {
	Resources   []Resource
	Assignments []Assignment
	Allocations Allocations
	Events      []CalendarEvent
}

// AssignmentsFor returns the assignments belonging to the resource.
func (s *Snapshot) AssignmentsFor(resourceID string) []Assignment {
	var out []Assignment
	for _, a := range s.Assignments {
		if a.ResourceID == resourceID {
			out = append(out, a)
		}
	}
	return out
}

// Resource looks up a resource by ID.
func (s *Snapshot) Resource(id string) (Resource, bool) {
	for _, r := range s.Resources {
		if r.ID == id {
			return r, true
		}
	}
	return Resource{}, false
}
