package parser

import (
	"errors"
	"fmt"

	"resource-planner/calendar"
	planerrors "resource-planner/errors"
	"resource-planner/models"
)

// Validate cross-checks a snapshot before it reaches the engine. It rejects
// duplicate IDs, dangling references, inverted employment windows,
// out-of-range percentages and local holidays without a location.
func Validate(s *models.Snapshot) error {
	resources := make(map[string]struct{}, len(s.Resources))
	for _, r := range s.Resources {
		if _, dup := resources[r.ID]; dup {
			return &planerrors.ValidationError{Entity: "resource", ID: r.ID, Err: planerrors.ErrDuplicateID}
		}
		resources[r.ID] = struct{}{}

		if r.LastDayOfWork != nil && calendar.Day(*r.LastDayOfWork).Before(calendar.Day(r.HireDate)) {
			return &planerrors.ValidationError{Entity: "resource", ID: r.ID, Err: planerrors.ErrResignedBeforeHire}
		}
		if c := r.Cap(); c < 0 || c > 100 {
			return &planerrors.ValidationError{Entity: "resource", ID: r.ID, Err: fmt.Errorf("%w: %d", planerrors.ErrInvalidCap, c)}
		}
	}

	assignments := make(map[string]struct{}, len(s.Assignments))
	for _, a := range s.Assignments {
		if _, dup := assignments[a.ID]; dup {
			return &planerrors.ValidationError{Entity: "assignment", ID: a.ID, Err: planerrors.ErrDuplicateID}
		}
		assignments[a.ID] = struct{}{}

		if _, ok := resources[a.ResourceID]; !ok {
			return &planerrors.ValidationError{Entity: "assignment", ID: a.ID, Err: fmt.Errorf("%w: %s", planerrors.ErrUnknownResource, a.ResourceID)}
		}
	}

	for assignmentID, days := range s.Allocations {
		if _, ok := assignments[assignmentID]; !ok {
			return &planerrors.ValidationError{Entity: "allocation", ID: assignmentID, Err: planerrors.ErrUnknownAssignment}
		}
		for date, pct := range days {
			if _, err := calendar.ParseDate(date); err != nil {
				return &planerrors.ValidationError{Entity: "allocation", ID: assignmentID + "@" + date, Err: planerrors.ErrInvalidDate}
			}
			if err := models.ValidatePercentage(pct); err != nil {
				return &planerrors.ValidationError{Entity: "allocation", ID: assignmentID + "@" + date, Err: err}
			}
		}
	}

	for _, ev := range s.Events {
		id := calendar.FormatDate(ev.Date)
		if !ev.Type.Valid() {
			return &planerrors.ValidationError{Entity: "event", ID: id, Err: fmt.Errorf("%w: %q", planerrors.ErrUnknownEventType, ev.Type)}
		}
		if ev.Type == models.LocalHoliday && (ev.Location == nil || *ev.Location == "") {
			return &planerrors.ValidationError{Entity: "event", ID: id, Err: planerrors.ErrLocalHolidayWithoutLocation}
		}
	}

	return nil
}

// errorType returns the metric label for an ingestion error.
func errorType(err error) string {
	switch {
	case errors.Is(err, planerrors.ErrInvalidFieldCount):
		return "invalid_field_count"
	case errors.Is(err, planerrors.ErrMissingField):
		return "missing_field"
	case errors.Is(err, planerrors.ErrInvalidDate):
		return "invalid_date"
	case errors.Is(err, planerrors.ErrInvalidPercentage),
		errors.Is(err, planerrors.ErrPercentageOutOfRange),
		errors.Is(err, planerrors.ErrPercentageStep):
		return "invalid_percentage"
	case errors.Is(err, planerrors.ErrUnknownEventType):
		return "unknown_event_type"
	case errors.Is(err, planerrors.ErrLocalHolidayWithoutLocation):
		return "local_holiday_without_location"
	case errors.Is(err, planerrors.ErrResignedBeforeHire):
		return "resigned_before_hire"
	case errors.Is(err, planerrors.ErrInvalidCap):
		return "invalid_cap"
	case errors.Is(err, planerrors.ErrUnknownResource), errors.Is(err, planerrors.ErrUnknownAssignment):
		return "dangling_reference"
	case errors.Is(err, planerrors.ErrDuplicateID):
		return "duplicate_id"
	default:
		return "other"
	}
}
