package parser

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"resource-planner/calendar"
	planerrors "resource-planner/errors"
	"resource-planner/models"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// resourceRow is one resource as read from a CSV record or a YAML document.
type resourceRow struct {
	ID            string `yaml:"id" validate:"required"`
	Name          string `yaml:"name"`
	Location      string `yaml:"location" validate:"required"`
	HireDate      string `yaml:"hire_date" validate:"required,datetime=2006-01-02"`
	LastDayOfWork string `yaml:"last_day_of_work" validate:"omitempty,datetime=2006-01-02"`
	MaxStaffing   string `yaml:"-"`
}

type assignmentRow struct {
	ID         string `yaml:"id" validate:"required"`
	ResourceID string `yaml:"resource_id" validate:"required"`
	ProjectID  string `yaml:"project_id" validate:"required"`
	Role       string `yaml:"role"`
}

type allocationRow struct {
	AssignmentID string `validate:"required"`
	Date         string `validate:"required,datetime=2006-01-02"`
	Percentage   string `validate:"required"`
}

type eventRow struct {
	Date     string `yaml:"date" validate:"required,datetime=2006-01-02"`
	Type     string `yaml:"type" validate:"required,oneof=NATIONAL_HOLIDAY COMPANY_CLOSURE LOCAL_HOLIDAY"`
	Location string `yaml:"location" validate:"required_if=Type LOCAL_HOLIDAY"`
	Name     string `yaml:"name"`
}

// check runs struct validation and maps the first failing rule onto the
// matching sentinel error.
func check(row any) error {
	err := validate.Struct(row)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%w: %s", planerrors.ErrMissingField, fe.Field())
	case "datetime":
		return fmt.Errorf("%w: %s=%q", planerrors.ErrInvalidDate, fe.Field(), fe.Value())
	case "oneof":
		return fmt.Errorf("%w: %q", planerrors.ErrUnknownEventType, fe.Value())
	case "required_if":
		return planerrors.ErrLocalHolidayWithoutLocation
	default:
		return fmt.Errorf("%s failed %s", fe.Field(), fe.Tag())
	}
}

func (r resourceRow) toModel() (models.Resource, error) {
	if err := check(r); err != nil {
		return models.Resource{}, err
	}
	res := models.Resource{
		ID:       r.ID,
		Name:     r.Name,
		Location: r.Location,
		HireDate: calendar.MustParseDate(r.HireDate),
	}
	if r.LastDayOfWork != "" {
		last := calendar.MustParseDate(r.LastDayOfWork)
		if last.Before(res.HireDate) {
			return models.Resource{}, fmt.Errorf("%w: %s < %s", planerrors.ErrResignedBeforeHire, r.LastDayOfWork, r.HireDate)
		}
		res.LastDayOfWork = &last
	}
	if r.MaxStaffing != "" {
		v, err := strconv.Atoi(r.MaxStaffing)
		if err != nil {
			return models.Resource{}, fmt.Errorf("%w: %v", planerrors.ErrInvalidCap, err)
		}
		if v < 0 || v > 100 {
			return models.Resource{}, fmt.Errorf("%w: %d", planerrors.ErrInvalidCap, v)
		}
		res.MaxStaffingPercentage = &v
	}
	return res, nil
}

func (r assignmentRow) toModel() (models.Assignment, error) {
	if err := check(r); err != nil {
		return models.Assignment{}, err
	}
	return models.Assignment{ID: r.ID, ResourceID: r.ResourceID, ProjectID: r.ProjectID, Role: r.Role}, nil
}

func (r allocationRow) percentage() (int, error) {
	if err := check(r); err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(r.Percentage)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", planerrors.ErrInvalidPercentage, err)
	}
	if err := models.ValidatePercentage(v); err != nil {
		return 0, err
	}
	return v, nil
}

func (r eventRow) toModel() (models.CalendarEvent, error) {
	r.Type = strings.ToUpper(r.Type)
	if err := check(r); err != nil {
		return models.CalendarEvent{}, err
	}
	ev := models.CalendarEvent{
		Date: calendar.MustParseDate(r.Date),
		Type: models.EventType(r.Type),
		Name: r.Name,
	}
	if r.Location != "" {
		l := r.Location
		ev.Location = &l
	}
	return ev, nil
}
