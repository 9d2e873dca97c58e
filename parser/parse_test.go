package parser_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resource-planner/calendar"
	planerrors "resource-planner/errors"
	"resource-planner/models"
	"resource-planner/parser"
)

func intPtr(v int) *int { return &v }

func TestParseResources(t *testing.T) {
	last := calendar.MustParseDate("2024-03-10")

	tests := map[string]struct {
		input         string
		expectedData  []models.Resource
		expectedError error
	}{
		"ValidInput_WithComments": {
			input: `
# id, name, location, hire_date, last_day_of_work, max_staffing_percentage
r1, Ada, Rome, 2024-01-01
r2, Bruno, Milan, 2023-06-01, 2024-03-10, 80
`,
			expectedData: []models.Resource{
				{ID: "r1", Name: "Ada", Location: "Rome", HireDate: calendar.MustParseDate("2024-01-01")},
				{
					ID:                    "r2",
					Name:                  "Bruno",
					Location:              "Milan",
					HireDate:              calendar.MustParseDate("2023-06-01"),
					LastDayOfWork:         &last,
					MaxStaffingPercentage: intPtr(80),
				},
			},
		},
		"Error_InvalidFieldCount": {
			input:         "r1, Ada, Rome\n",
			expectedError: planerrors.ErrInvalidFieldCount,
		},
		"Error_MissingLocation": {
			input:         "r1, Ada, , 2024-01-01\n",
			expectedError: planerrors.ErrMissingField,
		},
		"Error_InvalidHireDate": {
			input:         "r1, Ada, Rome, 2024-02-30\n",
			expectedError: planerrors.ErrInvalidDate,
		},
		"Error_ResignedBeforeHire": {
			input:         "r1, Ada, Rome, 2024-03-01, 2024-02-01\n",
			expectedError: planerrors.ErrResignedBeforeHire,
		},
		"Error_InvalidCap": {
			input:         "r1, Ada, Rome, 2024-03-01, , 120\n",
			expectedError: planerrors.ErrInvalidCap,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			data, err := parser.ParseResources(strings.NewReader(tt.input))

			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.True(t, errors.Is(err, tt.expectedError), "expected %v, got %v", tt.expectedError, err)
				var pe *planerrors.ParseError
				assert.True(t, errors.As(err, &pe))
				assert.Equal(t, "resources", pe.File)
				assert.Nil(t, data)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedData, data)
			}
		})
	}
}

func TestParseAssignments(t *testing.T) {
	data, err := parser.ParseAssignments(strings.NewReader("# id, resource, project, role\na1, r1, p1, dev\na2, r1, p2\n"))
	require.NoError(t, err)
	assert.Equal(t, []models.Assignment{
		{ID: "a1", ResourceID: "r1", ProjectID: "p1", Role: "dev"},
		{ID: "a2", ResourceID: "r1", ProjectID: "p2"},
	}, data)

	_, err = parser.ParseAssignments(strings.NewReader("a1, r1, \n"))
	assert.True(t, errors.Is(err, planerrors.ErrMissingField))
}

func TestParseAllocations(t *testing.T) {
	tests := map[string]struct {
		input         string
		expectedData  models.Allocations
		expectedError error
	}{
		"ValidInput": {
			input: "a1, 2024-03-04, 50\na1, 2024-03-05, 100\na2, 2024-03-04, 5\n",
			expectedData: models.Allocations{
				"a1": {"2024-03-04": 50, "2024-03-05": 100},
				"a2": {"2024-03-04": 5},
			},
		},
		"LaterRecordWins": {
			input:        "a1, 2024-03-04, 50\na1, 2024-03-04, 25\n",
			expectedData: models.Allocations{"a1": {"2024-03-04": 25}},
		},
		"ZeroDeletes": {
			input:        "a1, 2024-03-04, 50\na1, 2024-03-05, 50\na1, 2024-03-04, 0\n",
			expectedData: models.Allocations{"a1": {"2024-03-05": 50}},
		},
		"Error_NotANumber": {
			input:         "a1, 2024-03-04, half\n",
			expectedError: planerrors.ErrInvalidPercentage,
		},
		"Error_OutOfRange": {
			input:         "a1, 2024-03-04, 105\n",
			expectedError: planerrors.ErrPercentageOutOfRange,
		},
		"Error_Negative": {
			input:         "a1, 2024-03-04, -5\n",
			expectedError: planerrors.ErrPercentageOutOfRange,
		},
		"Error_Step": {
			input:         "a1, 2024-03-04, 42\n",
			expectedError: planerrors.ErrPercentageStep,
		},
		"Error_InvalidDate": {
			input:         "a1, 03/04/2024, 50\n",
			expectedError: planerrors.ErrInvalidDate,
		},
		"Error_InvalidFieldCount": {
			input:         "a1, 2024-03-04\n",
			expectedError: planerrors.ErrInvalidFieldCount,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			data, err := parser.ParseAllocations(strings.NewReader(tt.input))

			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.True(t, errors.Is(err, tt.expectedError), "expected %v, got %v", tt.expectedError, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedData, data)
			}
		})
	}
}

func TestParseEvents(t *testing.T) {
	milan := "Milan"

	tests := map[string]struct {
		input         string
		expectedData  []models.CalendarEvent
		expectedError error
	}{
		"ValidInput": {
			input: `
# date, type, location, name
2024-04-25, NATIONAL_HOLIDAY, , Liberation Day
2024-12-07, local_holiday, Milan, Sant'Ambrogio
2024-08-16, COMPANY_CLOSURE
`,
			expectedData: []models.CalendarEvent{
				{Date: calendar.MustParseDate("2024-04-25"), Type: models.NationalHoliday, Name: "Liberation Day"},
				{Date: calendar.MustParseDate("2024-12-07"), Type: models.LocalHoliday, Location: &milan, Name: "Sant'Ambrogio"},
				{Date: calendar.MustParseDate("2024-08-16"), Type: models.CompanyClosure},
			},
		},
		"Error_LocalHolidayWithoutLocation": {
			input:         "2024-12-07, LOCAL_HOLIDAY\n",
			expectedError: planerrors.ErrLocalHolidayWithoutLocation,
		},
		"Error_UnknownType": {
			input:         "2024-12-07, BANK_HOLIDAY\n",
			expectedError: planerrors.ErrUnknownEventType,
		},
		"Error_InvalidDate": {
			input:         "2024-13-01, NATIONAL_HOLIDAY\n",
			expectedError: planerrors.ErrInvalidDate,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			data, err := parser.ParseEvents(strings.NewReader(tt.input))

			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.True(t, errors.Is(err, tt.expectedError), "expected %v, got %v", tt.expectedError, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedData, data)
			}
		})
	}
}

func TestParseError_Line(t *testing.T) {
	_, err := parser.ParseAllocations(strings.NewReader("# header\na1, 2024-03-04, 50\na1, 2024-03-05, 33\n"))

	var pe *planerrors.ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, 3, pe.Line)
	assert.Equal(t, "allocations", pe.File)
	assert.Contains(t, err.Error(), "parse error in allocations at line 3")
}

const yamlSnapshot = `
resources:
  - {id: r1, name: Ada, location: Rome, hire_date: "2024-01-01", max_staffing_percentage: 80}
  - {id: r2, location: Milan, hire_date: "2024-01-01", last_day_of_work: "2024-03-10"}
assignments:
  - {id: a1, resource_id: r1, project_id: p1, role: dev}
allocations:
  a1: {"2024-03-04": 50, "2024-03-05": 0}
events:
  - {date: "2024-04-25", type: NATIONAL_HOLIDAY}
  - {date: "2024-12-07", type: LOCAL_HOLIDAY, location: Milan}
`

func TestParseYAML(t *testing.T) {
	snap, err := parser.ParseYAML(strings.NewReader(yamlSnapshot))
	require.NoError(t, err)

	require.Len(t, snap.Resources, 2)
	assert.Equal(t, 80, snap.Resources[0].Cap())
	assert.Equal(t, 100, snap.Resources[1].Cap())
	require.NotNil(t, snap.Resources[1].LastDayOfWork)
	assert.Equal(t, calendar.MustParseDate("2024-03-10"), *snap.Resources[1].LastDayOfWork)

	assert.Equal(t, models.Allocations{"a1": {"2024-03-04": 50}}, snap.Allocations)
	require.Len(t, snap.Events, 2)
	assert.Equal(t, "Milan", *snap.Events[1].Location)
	assert.NoError(t, parser.Validate(snap))
}

func TestParseYAML_Errors(t *testing.T) {
	tests := map[string]struct {
		input         string
		expectedError error
	}{
		"LocalHolidayWithoutLocation": {
			input:         "events:\n  - {date: \"2024-12-07\", type: LOCAL_HOLIDAY}\n",
			expectedError: planerrors.ErrLocalHolidayWithoutLocation,
		},
		"PercentageStep": {
			input:         "allocations:\n  a1: {\"2024-03-04\": 33}\n",
			expectedError: planerrors.ErrPercentageStep,
		},
		"MissingHireDate": {
			input:         "resources:\n  - {id: r1, location: Rome}\n",
			expectedError: planerrors.ErrMissingField,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := parser.ParseYAML(strings.NewReader(tt.input))
			assert.True(t, errors.Is(err, tt.expectedError), "expected %v, got %v", tt.expectedError, err)
			var ve *planerrors.ValidationError
			assert.True(t, errors.As(err, &ve))
		})
	}

	_, err := parser.ParseYAML(strings.NewReader("resources: [unclosed"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	milan := "Milan"
	valid := func() *models.Snapshot {
		return &models.Snapshot{
			Resources:   []models.Resource{{ID: "r1", Location: "Rome", HireDate: calendar.MustParseDate("2024-01-01")}},
			Assignments: []models.Assignment{{ID: "a1", ResourceID: "r1", ProjectID: "p1"}},
			Allocations: models.Allocations{"a1": {"2024-03-04": 50}},
			Events:      []models.CalendarEvent{{Date: calendar.MustParseDate("2024-12-07"), Type: models.LocalHoliday, Location: &milan}},
		}
	}

	tests := map[string]struct {
		mutate        func(s *models.Snapshot)
		expectedError error
	}{
		"Valid": {mutate: func(s *models.Snapshot) {}},
		"DuplicateResource": {
			mutate:        func(s *models.Snapshot) { s.Resources = append(s.Resources, s.Resources[0]) },
			expectedError: planerrors.ErrDuplicateID,
		},
		"ResignedBeforeHire": {
			mutate: func(s *models.Snapshot) {
				d := calendar.MustParseDate("2023-12-31")
				s.Resources[0].LastDayOfWork = &d
			},
			expectedError: planerrors.ErrResignedBeforeHire,
		},
		"AssignmentForUnknownResource": {
			mutate:        func(s *models.Snapshot) { s.Assignments[0].ResourceID = "ghost" },
			expectedError: planerrors.ErrUnknownResource,
		},
		"AllocationForUnknownAssignment": {
			mutate:        func(s *models.Snapshot) { s.Allocations["ghost"] = models.DayAllocations{"2024-03-04": 50} },
			expectedError: planerrors.ErrUnknownAssignment,
		},
		"AllocationStep": {
			mutate:        func(s *models.Snapshot) { s.Allocations["a1"]["2024-03-05"] = 12 },
			expectedError: planerrors.ErrPercentageStep,
		},
		"LocalHolidayWithoutLocation": {
			mutate:        func(s *models.Snapshot) { s.Events[0].Location = nil },
			expectedError: planerrors.ErrLocalHolidayWithoutLocation,
		},
		"UnknownEventType": {
			mutate:        func(s *models.Snapshot) { s.Events[0].Type = "BANK_HOLIDAY" },
			expectedError: planerrors.ErrUnknownEventType,
		},
		"InvalidCap": {
			mutate:        func(s *models.Snapshot) { s.Resources[0].MaxStaffingPercentage = intPtr(150) },
			expectedError: planerrors.ErrInvalidCap,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			s := valid()
			tt.mutate(s)
			err := parser.Validate(s)
			if tt.expectedError == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, tt.expectedError), "expected %v, got %v", tt.expectedError, err)
		})
	}
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func TestLoad(t *testing.T) {
	t.Run("Directory", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, parser.ResourcesFile), []byte("r1, Ada, Rome, 2024-01-01\n"), 0o600))
		require.NoError(t, os.WriteFile(filepath.Join(dir, parser.AssignmentsFile), []byte("a1, r1, p1\n"), 0o600))
		require.NoError(t, os.WriteFile(filepath.Join(dir, parser.AllocationsFile), []byte("a1, 2024-03-04, 50\n"), 0o600))

		snap, err := parser.Load(dir, quietLogger())
		require.NoError(t, err)
		assert.Len(t, snap.Resources, 1)
		assert.Empty(t, snap.Events)
		assert.Equal(t, 50, snap.Allocations.Percentage("a1", "2024-03-04"))
	})

	t.Run("YAMLFile", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "snapshot.yaml")
		require.NoError(t, os.WriteFile(path, []byte(yamlSnapshot), 0o600))

		snap, err := parser.Load(path, quietLogger())
		require.NoError(t, err)
		assert.Len(t, snap.Resources, 2)
	})

	t.Run("MissingResources", func(t *testing.T) {
		_, err := parser.Load(t.TempDir(), quietLogger())
		assert.True(t, errors.Is(err, os.ErrNotExist))
	})

	t.Run("DanglingReference", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, parser.ResourcesFile), []byte("r1, Ada, Rome, 2024-01-01\n"), 0o600))
		require.NoError(t, os.WriteFile(filepath.Join(dir, parser.AssignmentsFile), []byte("a1, r2, p1\n"), 0o600))

		_, err := parser.Load(dir, quietLogger())
		assert.True(t, errors.Is(err, planerrors.ErrUnknownResource))
	})
}
