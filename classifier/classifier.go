package classifier

import (
	"math"

	"resource-planner/models"
)

// Round rounds a utilization percentage to the nearest integer, halves up.
// This is the only place a utilization figure is rounded.
func Round(utilization float64) int {
	return int(math.Floor(utilization + 0.5))
}

// Classify labels a utilization percentage against a capacity cap.
func Classify(utilization float64, capPercent int) models.Classification {
	r := Round(utilization)
	switch {
	case r <= 0:
		return models.Empty
	case r > capPercent:
		return models.Over
	case r == capPercent:
		return models.AtCap
	default:
		return models.Partial
	}
}

// ForAssignment classifies a single-assignment row, always against a full day.
func ForAssignment(utilization float64) models.Classification {
	return Classify(utilization, models.DefaultCap)
}

// ForResource classifies a resource roll-up against its configured cap.
func ForResource(resource models.Resource, utilization float64) models.Classification {
	return Classify(utilization, resource.Cap())
}
