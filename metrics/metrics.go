// Package metrics provides Prometheus observability metrics for the resource planner.
// It covers snapshot ingestion and utilization report runs.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry is the custom prometheus registry for our application
var Registry = prometheus.NewRegistry()

// factory allows us to register metrics to our custom Registry directly
var factory = promauto.With(Registry)

// =============================================================================
// CAPACITY METRICS - Business Impact Visibility
// =============================================================================

// CellsByClassification counts report cells per capacity classification and row kind.
// A growing OVER count means resources are committed beyond their cap.
var CellsByClassification = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "report",
	Name:      "cells_total",
	Help:      "Report cells computed, by row kind and capacity classification",
}, []string{"row", "classification"})

// OverAllocatedResources tracks resources with at least one OVER roll-up cell in the last report.
var OverAllocatedResources = factory.NewGauge(prometheus.GaugeOpts{
	Namespace: "report",
	Name:      "over_allocated_resources",
	Help:      "Resources with at least one over-capacity period in the last report",
})

// ResourcesReported tracks how many resources were in the last report.
var ResourcesReported = factory.NewGauge(prometheus.GaugeOpts{
	Namespace: "report",
	Name:      "resources",
	Help:      "Number of resources included in the last report",
})

// =============================================================================
// OPERATIONAL METRICS - Operational Health
// =============================================================================

// ParserErrorsTotal tracks ingestion errors by error type.
var ParserErrorsTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "parser",
	Name:      "errors_total",
	Help:      "Total snapshot ingestion errors by error type",
}, []string{"error_type"})

// ParserRecordsTotal tracks total records successfully parsed.
var ParserRecordsTotal = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "parser",
	Name:      "records_total",
	Help:      "Total snapshot records successfully parsed",
})

// ParserDurationSeconds tracks time to load a snapshot.
var ParserDurationSeconds = factory.NewHistogram(prometheus.HistogramOpts{
	Namespace: "parser",
	Name:      "duration_seconds",
	Help:      "Time taken to load and validate a snapshot",
	Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
})

// ReportDurationSeconds tracks time to build a report.
var ReportDurationSeconds = factory.NewHistogram(prometheus.HistogramOpts{
	Namespace: "report",
	Name:      "duration_seconds",
	Help:      "Time taken to build a utilization report",
	Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
})

// ReportRowsComputed tracks rows per report run.
var ReportRowsComputed = factory.NewHistogram(prometheus.HistogramOpts{
	Namespace: "report",
	Name:      "rows_computed",
	Help:      "Number of resource and assignment rows computed per report",
	Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
})

// CacheLookups counts report cache lookups by result (hit|miss).
var CacheLookups = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "report",
	Name:      "cache_lookups_total",
	Help:      "Utilization cache lookups by result",
}, []string{"result"})

// =============================================================================
// Helper Functions
// =============================================================================

// ResetReportGauges resets all report gauges before a new report run.
// Call this at the start of report.Build.
func ResetReportGauges() {
	OverAllocatedResources.Set(0)
	ResourcesReported.Set(0)
}
