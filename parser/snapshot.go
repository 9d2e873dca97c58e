package parser

import (
	"fmt"
	"io"
	"strconv"

	"gopkg.in/yaml.v3"

	planerrors "resource-planner/errors"
	"resource-planner/metrics"
	"resource-planner/models"
)

type yamlResource struct {
	resourceRow `yaml:",inline"`
	MaxStaffing *int `yaml:"max_staffing_percentage"`
}

type yamlDocument struct {
	Resources   []yamlResource            `yaml:"resources"`
	Assignments []assignmentRow           `yaml:"assignments"`
	Allocations map[string]map[string]int `yaml:"allocations"`
	Events      []eventRow                `yaml:"events"`
}

// ParseYAML decodes a snapshot document:
//
//	resources:
//	  - {id: r1, location: Rome, hire_date: "2024-01-01", max_staffing_percentage: 80}
//	assignments:
//	  - {id: a1, resource_id: r1, project_id: p1}
//	allocations:
//	  a1: {"2024-03-04": 50}
//	events:
//	  - {date: "2024-04-25", type: NATIONAL_HOLIDAY}
//
// The result is not cross-checked; call Validate for that.
func ParseYAML(r io.Reader) (*models.Snapshot, error) {
	var doc yamlDocument
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil && err != io.EOF {
		return nil, fmt.Errorf("error decoding snapshot: %w", err)
	}

	snap := &models.Snapshot{Allocations: models.Allocations{}}

	for i, yr := range doc.Resources {
		row := yr.resourceRow
		if yr.MaxStaffing != nil {
			row.MaxStaffing = strconv.Itoa(*yr.MaxStaffing)
		}
		res, err := row.toModel()
		if err != nil {
			return nil, yamlError("resources", i, row.ID, err)
		}
		snap.Resources = append(snap.Resources, res)
	}

	for i, row := range doc.Assignments {
		a, err := row.toModel()
		if err != nil {
			return nil, yamlError("assignments", i, row.ID, err)
		}
		snap.Assignments = append(snap.Assignments, a)
	}

	for assignmentID, days := range doc.Allocations {
		for date, pct := range days {
			row := allocationRow{AssignmentID: assignmentID, Date: date, Percentage: strconv.Itoa(pct)}
			v, err := row.percentage()
			if err == nil {
				err = snap.Allocations.Upsert(assignmentID, date, v)
			}
			if err != nil {
				return nil, yamlError("allocations", -1, assignmentID+"@"+date, err)
			}
			metrics.ParserRecordsTotal.Inc()
		}
	}

	for i, row := range doc.Events {
		ev, err := row.toModel()
		if err != nil {
			return nil, yamlError("events", i, row.Date, err)
		}
		snap.Events = append(snap.Events, ev)
	}

	metrics.ParserRecordsTotal.Add(float64(len(snap.Resources) + len(snap.Assignments) + len(snap.Events)))
	return snap, nil
}

func yamlError(entity string, index int, id string, err error) error {
	metrics.ParserErrorsTotal.WithLabelValues(errorType(err)).Inc()
	if index >= 0 {
		id = fmt.Sprintf("#%d %s", index, id)
	}
	return &planerrors.ValidationError{Entity: entity, ID: id, Err: err}
}
