package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	planerrors "resource-planner/errors"
	"resource-planner/metrics"
	"resource-planner/models"
)

// Field counts of each CSV file. Optional trailing columns may be omitted.
const (
	resourceFields   = 6
	assignmentFields = 4
	allocationFields = 3
	eventFields      = 4
)

// readRecords walks a CSV stream, skipping blank lines and lines starting
// with '#', which are treated as headers or comments. Every record is
// right-padded to maxFields; records shorter than minFields or longer than
// maxFields are rejected.
func readRecords(r io.Reader, file string, minFields, maxFields int, fn func(record []string) error) error {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	lineNum := 0
	for {
		record, err := reader.Read()
		lineNum++
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("error reading %s at line %d: %w", file, lineNum, err)
		}

		// Handle headers/comments
		if len(record) > 0 && strings.HasPrefix(strings.TrimSpace(record[0]), "#") {
			continue
		}
		if len(record) == 1 && strings.TrimSpace(record[0]) == "" {
			continue
		}

		if len(record) < minFields || len(record) > maxFields {
			metrics.ParserErrorsTotal.WithLabelValues(errorType(planerrors.ErrInvalidFieldCount)).Inc()
			return &planerrors.ParseError{
				File:   file,
				Line:   lineNum,
				Record: record,
				Err:    planerrors.ErrInvalidFieldCount,
			}
		}

		padded := make([]string, maxFields)
		for i, v := range record {
			padded[i] = strings.TrimSpace(v)
		}

		if err := fn(padded); err != nil {
			metrics.ParserErrorsTotal.WithLabelValues(errorType(err)).Inc()
			return &planerrors.ParseError{
				File:   file,
				Line:   lineNum,
				Record: record,
				Err:    err,
			}
		}
		metrics.ParserRecordsTotal.Inc()
	}
}

// ParseResources reads "id, name, location, hire_date, last_day_of_work,
// max_staffing_percentage" records. The last two columns may be empty.
func ParseResources(r io.Reader) ([]models.Resource, error) {
	var out []models.Resource
	err := readRecords(r, "resources", 4, resourceFields, func(rec []string) error {
		res, err := resourceRow{
			ID:            rec[0],
			Name:          rec[1],
			Location:      rec[2],
			HireDate:      rec[3],
			LastDayOfWork: rec[4],
			MaxStaffing:   rec[5],
		}.toModel()
		if err != nil {
			return err
		}
		out = append(out, res)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ParseAssignments reads "id, resource_id, project_id, role" records.
func ParseAssignments(r io.Reader) ([]models.Assignment, error) {
	var out []models.Assignment
	err := readRecords(r, "assignments", 3, assignmentFields, func(rec []string) error {
		a, err := assignmentRow{ID: rec[0], ResourceID: rec[1], ProjectID: rec[2], Role: rec[3]}.toModel()
		if err != nil {
			return err
		}
		out = append(out, a)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ParseAllocations reads "assignment_id, date, percentage" records and
// upserts them in file order, so a later record for the same key wins and a
// 0 removes an earlier entry.
func ParseAllocations(r io.Reader) (models.Allocations, error) {
	out := models.Allocations{}
	err := readRecords(r, "allocations", allocationFields, allocationFields, func(rec []string) error {
		row := allocationRow{AssignmentID: rec[0], Date: rec[1], Percentage: rec[2]}
		pct, err := row.percentage()
		if err != nil {
			return err
		}
		return out.Upsert(row.AssignmentID, row.Date, pct)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ParseEvents reads "date, type, location, name" records. Location is
// required for LOCAL_HOLIDAY and optional otherwise.
func ParseEvents(r io.Reader) ([]models.CalendarEvent, error) {
	var out []models.CalendarEvent
	err := readRecords(r, "events", 2, eventFields, func(rec []string) error {
		ev, err := eventRow{Date: rec[0], Type: rec[1], Location: rec[2], Name: rec[3]}.toModel()
		if err != nil {
			return err
		}
		out = append(out, ev)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
