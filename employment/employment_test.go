package employment_test

import (
	"testing"
	"time"

	"resource-planner/calendar"
	"resource-planner/employment"
	"resource-planner/models"

	"github.com/stretchr/testify/assert"
)

func date(s string) time.Time { return calendar.MustParseDate(s) }

func datePtr(s string) *time.Time {
	d := date(s)
	return &d
}

func TestEffectiveEnd(t *testing.T) {
	tests := map[string]struct {
		resource     models.Resource
		requestedEnd time.Time
		expected     time.Time
	}{
		"Active": {
			resource:     models.Resource{HireDate: date("2024-01-01")},
			requestedEnd: date("2024-03-31"),
			expected:     date("2024-03-31"),
		},
		"ResignedBeforeEnd": {
			resource:     models.Resource{HireDate: date("2024-01-01"), LastDayOfWork: datePtr("2024-03-10")},
			requestedEnd: date("2024-03-31"),
			expected:     date("2024-03-10"),
		},
		"ResignedAfterEnd": {
			resource:     models.Resource{HireDate: date("2024-01-01"), LastDayOfWork: datePtr("2024-06-30")},
			requestedEnd: date("2024-03-31"),
			expected:     date("2024-03-31"),
		},
		"ResignedOnEnd": {
			resource:     models.Resource{HireDate: date("2024-01-01"), LastDayOfWork: datePtr("2024-03-31")},
			requestedEnd: date("2024-03-31"),
			expected:     date("2024-03-31"),
		},
		"TimeOfDayDropped": {
			resource:     models.Resource{HireDate: date("2024-01-01")},
			requestedEnd: time.Date(2024, time.March, 31, 18, 0, 0, 0, time.UTC),
			expected:     date("2024-03-31"),
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.expected, employment.EffectiveEnd(tt.resource, tt.requestedEnd))
		})
	}
}

func TestClamp(t *testing.T) {
	resigned := models.Resource{HireDate: date("2024-01-01"), LastDayOfWork: datePtr("2024-03-10")}

	start, end, ok := employment.Clamp(resigned, date("2024-03-01"), date("2024-03-31"))
	assert.True(t, ok)
	assert.Equal(t, date("2024-03-01"), start)
	assert.Equal(t, date("2024-03-10"), end)

	_, _, ok = employment.Clamp(resigned, date("2024-04-01"), date("2024-04-30"))
	assert.False(t, ok)
}

func TestWindow(t *testing.T) {
	active := models.Resource{HireDate: date("2024-02-01")}
	resigned := models.Resource{HireDate: date("2024-02-01"), LastDayOfWork: datePtr("2024-03-10")}

	assert.False(t, employment.ActiveOn(active, date("2024-01-31")))
	assert.True(t, employment.ActiveOn(active, date("2024-02-01")))
	assert.True(t, employment.ActiveOn(active, date("2030-01-01")))

	assert.True(t, employment.ActiveOn(resigned, date("2024-03-10")))
	assert.False(t, employment.ActiveOn(resigned, date("2024-03-11")))

	w := employment.WindowOf(resigned)
	assert.True(t, w.Overlaps(date("2024-01-01"), date("2024-02-01")))
	assert.True(t, w.Overlaps(date("2024-03-10"), date("2024-04-01")))
	assert.False(t, w.Overlaps(date("2024-03-11"), date("2024-04-01")))
	assert.False(t, w.Overlaps(date("2024-01-01"), date("2024-01-31")))
	assert.False(t, w.Overlaps(date("2024-03-05"), date("2024-03-01")))
}
