package errors

import "fmt"

// ParseError wraps a specific error with context about where it occurred.
type ParseError struct {
	File   string
	Line   int
	Record []string
	Err    error
}

func (e *ParseError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("parse error in %s at line %d: %v (record: %v)", e.File, e.Line, e.Err, e.Record)
	}
	return fmt.Sprintf("parse error at line %d: %v (record: %v)", e.Line, e.Err, e.Record)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ValidationError reports a structurally invalid entity found while
// checking a loaded snapshot.
type ValidationError struct {
	Entity string
	ID     string
	Err    error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %q: %v", e.Entity, e.ID, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Define specific error types for better error handling
var (
	ErrInvalidFieldCount           = fmt.Errorf("invalid field count")
	ErrMissingField                = fmt.Errorf("missing required field")
	ErrInvalidDate                 = fmt.Errorf("invalid date")
	ErrInvalidPercentage           = fmt.Errorf("invalid percentage")
	ErrPercentageOutOfRange        = fmt.Errorf("percentage outside [0, 100]")
	ErrPercentageStep              = fmt.Errorf("percentage not a multiple of 5")
	ErrUnknownEventType            = fmt.Errorf("unknown calendar event type")
	ErrLocalHolidayWithoutLocation = fmt.Errorf("local holiday without location")
	ErrResignedBeforeHire          = fmt.Errorf("last day of work before hire date")
	ErrUnknownResource             = fmt.Errorf("unknown resource")
	ErrUnknownAssignment           = fmt.Errorf("unknown assignment")
	ErrDuplicateID                 = fmt.Errorf("duplicate identifier")
	ErrUnknownViewMode             = fmt.Errorf("unknown view mode")
	ErrInvalidCap                  = fmt.Errorf("invalid max staffing percentage")
)
