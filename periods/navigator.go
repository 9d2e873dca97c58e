package periods

import (
	"time"

	"resource-planner/calendar"
	"resource-planner/models"
)

// Navigator pages through a view one window at a time.
type Navigator struct {
	Anchor time.Time
	Mode   models.ViewMode
	// Now supplies the current date for Today; time.Now when nil.
	Now func() time.Time
}

// NewNavigator starts a navigator at the anchor.
func NewNavigator(anchor time.Time, mode models.ViewMode) *Navigator {
	return &Navigator{Anchor: calendar.Day(anchor), Mode: mode}
}

// Next moves the anchor forward by one page: 14 days, 28 days or 1 month.
func (n *Navigator) Next() {
	n.shift(1)
}

// Previous moves the anchor back by one page.
func (n *Navigator) Previous() {
	n.shift(-1)
}

// Today resets the anchor to the current date, discarding any navigation.
func (n *Navigator) Today() {
	now := time.Now
	if n.Now != nil {
		now = n.Now
	}
	n.Anchor = calendar.Day(now())
}

// Periods builds the periods for the current anchor.
func (n *Navigator) Periods() ([]models.Period, error) {
	return Build(n.Anchor, n.Mode)
}

func (n *Navigator) shift(pages int) {
	switch n.Mode {
	case models.ViewDay:
		n.Anchor = calendar.AddDays(n.Anchor, pages*DayCount)
	case models.ViewWeek:
		n.Anchor = calendar.AddDays(n.Anchor, pages*7*WeekCount)
	case models.ViewMonth:
		// Paging from the 1st keeps Jan 31 + 1 month from landing in March.
		n.Anchor = StartOfMonth(n.Anchor).AddDate(0, pages, 0)
	}
}
