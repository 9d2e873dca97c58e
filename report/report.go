// Package report assembles utilization tables: one roll-up row per resource,
// one child row per assignment, and one cell per display period.
package report

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"resource-planner/aggregator"
	"resource-planner/classifier"
	"resource-planner/employment"
	planerrors "resource-planner/errors"
	"resource-planner/metrics"
	"resource-planner/models"
	"resource-planner/periods"
)

// RowKind distinguishes resource roll-ups from assignment rows.
type RowKind string

const (
	ResourceRow   RowKind = "resource"
	AssignmentRow RowKind = "assignment"
)

// Cell is the utilization of one row in one period.
type Cell struct {
	Period         models.Period         `json:"period"`
	Utilization    float64               `json:"utilization"`
	WorkingDays    int                   `json:"working_days"`
	PersonDays     float64               `json:"person_days"`
	Classification models.Classification `json:"classification"`
}

// Row is a resource roll-up or one of its assignments.
type Row struct {
	Kind         RowKind `json:"kind"`
	ResourceID   string  `json:"resource_id"`
	AssignmentID string  `json:"assignment_id,omitempty"`
	ProjectID    string  `json:"project_id,omitempty"`
	Label        string  `json:"label"`
	Location     string  `json:"location,omitempty"`
	Cap          int     `json:"cap"`
	Cells        []Cell  `json:"cells"`
	// OverAllocated lists days whose total exceeds the cap (resource rows only).
	OverAllocated []aggregator.DayTotal `json:"over_allocated,omitempty"`
	Children      []Row                 `json:"children,omitempty"`
}

// Report is a complete utilization table for one anchor and view.
type Report struct {
	ID          string          `json:"id"`
	Anchor      time.Time       `json:"anchor"`
	View        models.ViewMode `json:"view"`
	Periods     []models.Period `json:"periods"`
	Rows        []Row           `json:"rows"`
	GeneratedAt time.Time       `json:"generated_at"`
}

// Request selects what to report on.
type Request struct {
	Anchor time.Time
	View   models.ViewMode
	// ResourceIDs restricts the report; empty means every resource.
	ResourceIDs []string
}

// Builder computes reports over one snapshot. The snapshot must not be
// mutated while a Build is running.
type Builder struct {
	snap    *models.Snapshot
	agg     *aggregator.Aggregator
	cache   *Cache
	workers int
	log     logrus.FieldLogger
	now     func() time.Time
}

// Option configures a Builder.
type Option func(*Builder)

// WithCache attaches a cell cache.
func WithCache(c *Cache) Option {
	return func(b *Builder) { b.cache = c }
}

// WithWorkers bounds the number of resources computed concurrently.
func WithWorkers(n int) Option {
	return func(b *Builder) {
		if n > 0 {
			b.workers = n
		}
	}
}

// WithLogger sets the logger used for run summaries.
func WithLogger(log logrus.FieldLogger) Option {
	return func(b *Builder) { b.log = log }
}

// WithClock overrides the time source for GeneratedAt.
func WithClock(now func() time.Time) Option {
	return func(b *Builder) { b.now = now }
}

// NewBuilder returns a Builder for the snapshot.
func NewBuilder(snap *models.Snapshot, opts ...Option) *Builder {
	b := &Builder{
		snap:    snap,
		agg:     aggregator.New(snap.Events),
		workers: 1,
		log:     logrus.StandardLogger(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build computes the report. Resources whose employment window does not
// touch the reported span are left out.
func (b *Builder) Build(ctx context.Context, req Request) (*Report, error) {
	start := time.Now()
	metrics.ResetReportGauges()

	ps, err := periods.Build(req.Anchor, req.View)
	if err != nil {
		return nil, err
	}

	resources, err := b.selectResources(req.ResourceIDs, ps)
	if err != nil {
		return nil, err
	}

	rows := make([]Row, len(resources))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.workers)
	for i, res := range resources {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rows[i] = b.resourceRow(res, req.View, ps)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	rep := &Report{
		ID:          uuid.NewString(),
		Anchor:      periods.EffectiveAnchor(req.Anchor, req.View),
		View:        req.View,
		Periods:     ps,
		Rows:        rows,
		GeneratedAt: b.now().UTC(),
	}
	b.record(rep, time.Since(start))
	return rep, nil
}

func (b *Builder) selectResources(ids []string, ps []models.Period) ([]models.Resource, error) {
	first, last := periods.Span(ps)

	if len(ids) == 0 {
		var out []models.Resource
		for _, r := range b.snap.Resources {
			if employment.WindowOf(r).Overlaps(first, last) {
				out = append(out, r)
			}
		}
		return out, nil
	}

	out := make([]models.Resource, 0, len(ids))
	for _, id := range ids {
		r, ok := b.snap.Resource(id)
		if !ok {
			return nil, fmt.Errorf("%w: %s", planerrors.ErrUnknownResource, id)
		}
		if employment.WindowOf(r).Overlaps(first, last) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (b *Builder) resourceRow(res models.Resource, view models.ViewMode, ps []models.Period) Row {
	assignments := b.snap.AssignmentsFor(res.ID)
	first, last := periods.Span(ps)

	row := Row{
		Kind:       ResourceRow,
		ResourceID: res.ID,
		Label:      labelOf(res),
		Location:   res.Location,
		Cap:        res.Cap(),
		Cells:      make([]Cell, len(ps)),
	}
	for i, p := range ps {
		row.Cells[i] = b.cell("r:"+res.ID, res, assignments, view, p, func(u float64) models.Classification {
			return classifier.ForResource(res, u)
		})
	}
	row.OverAllocated = b.agg.OverAllocatedDays(res, assignments, b.snap.Allocations, first, last)

	for _, as := range assignments {
		child := Row{
			Kind:         AssignmentRow,
			ResourceID:   res.ID,
			AssignmentID: as.ID,
			ProjectID:    as.ProjectID,
			Label:        as.ProjectID,
			Cap:          models.DefaultCap,
			Cells:        make([]Cell, len(ps)),
		}
		if as.Role != "" {
			child.Label = as.ProjectID + " (" + as.Role + ")"
		}
		single := []models.Assignment{as}
		for i, p := range ps {
			child.Cells[i] = b.cell("a:"+as.ID, res, single, view, p, classifier.ForAssignment)
		}
		row.Children = append(row.Children, child)
	}
	return row
}

func (b *Builder) cell(
	rowID string,
	res models.Resource,
	assignments []models.Assignment,
	view models.ViewMode,
	p models.Period,
	classify func(float64) models.Classification,
) Cell {
	key := cacheKey{rowID: rowID, view: view, start: p.Start, end: p.End}
	if c, ok := b.cache.get(key); ok {
		return c
	}

	u := b.agg.Utilization(res, assignments, b.snap.Allocations, p.Start, p.End, res.Location)
	pct := u.Percent
	if view == models.ViewDay {
		// A day column shows the raw same-day commitment, not an average.
		pct = float64(b.agg.DailyTotal(res, assignments, b.snap.Allocations, p.Start))
	}

	c := Cell{
		Period:         p,
		Utilization:    pct,
		WorkingDays:    u.WorkingDays,
		PersonDays:     u.PersonDays,
		Classification: classify(pct),
	}
	b.cache.put(key, c)
	return c
}

func (b *Builder) record(rep *Report, elapsed time.Duration) {
	rowCount := 0
	over := 0
	for _, r := range rep.Rows {
		rowCount += 1 + len(r.Children)
		isOver := false
		for _, c := range r.Cells {
			metrics.CellsByClassification.WithLabelValues(string(ResourceRow), string(c.Classification)).Inc()
			if c.Classification == models.Over {
				isOver = true
			}
		}
		for _, ch := range r.Children {
			for _, c := range ch.Cells {
				metrics.CellsByClassification.WithLabelValues(string(AssignmentRow), string(c.Classification)).Inc()
			}
		}
		if isOver {
			over++
		}
	}

	metrics.ReportDurationSeconds.Observe(elapsed.Seconds())
	metrics.ReportRowsComputed.Observe(float64(rowCount))
	metrics.ResourcesReported.Set(float64(len(rep.Rows)))
	metrics.OverAllocatedResources.Set(float64(over))

	b.log.WithFields(logrus.Fields{
		"report_id": rep.ID,
		"view":      rep.View,
		"anchor":    rep.Anchor.Format(models.DateLayout),
		"resources": len(rep.Rows),
		"rows":      rowCount,
		"over":      over,
		"duration":  elapsed,
	}).Info("report built")
}

func labelOf(r models.Resource) string {
	if r.Name != "" {
		return r.Name
	}
	return r.ID
}
