package formatter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"resource-planner/classifier"
	"resource-planner/models"
	"resource-planner/report"
)

// ReportData holds prepared report data used by all formatters
type ReportData struct {
	ID      string       `json:"id"`
	View    string       `json:"view"`
	Anchor  string       `json:"anchor"`
	Periods []PeriodData `json:"periods"`
	Rows    []RowData    `json:"rows"`
}

// PeriodData is a rendered column header
type PeriodData struct {
	Label string `json:"label"`
	Start string `json:"start"`
	End   string `json:"end"`
}

// RowData is a rendered resource or assignment row
type RowData struct {
	Kind          string        `json:"kind"`
	ResourceID    string        `json:"resource_id"`
	AssignmentID  string        `json:"assignment_id,omitempty"`
	Label         string        `json:"label"`
	Location      string        `json:"location,omitempty"`
	Cap           int           `json:"cap"`
	Cells         []CellData    `json:"cells"`
	OverAllocated []OverDayData `json:"over_allocated,omitempty"`
	Children      []RowData     `json:"children,omitempty"`
}

// CellData is a rendered utilization figure. Percent is rounded here and
// nowhere earlier.
type CellData struct {
	Percent        int             `json:"percent"`
	Exact          float64         `json:"exact"`
	Classification string          `json:"classification"`
	WorkingDays    int             `json:"working_days"`
	PersonDays     decimal.Decimal `json:"person_days"`
}

// OverDayData is a day whose total exceeds the resource cap
type OverDayData struct {
	Date    string `json:"date"`
	Percent int    `json:"percent"`
}

// prepareReportData converts a report into its rendered form
func prepareReportData(rep *report.Report) *ReportData {
	data := &ReportData{
		ID:      rep.ID,
		View:    string(rep.View),
		Anchor:  rep.Anchor.Format(models.DateLayout),
		Periods: make([]PeriodData, len(rep.Periods)),
		Rows:    make([]RowData, 0, len(rep.Rows)),
	}
	for i, p := range rep.Periods {
		data.Periods[i] = PeriodData{
			Label: p.Label(),
			Start: p.Start.Format(models.DateLayout),
			End:   p.End.Format(models.DateLayout),
		}
	}
	for _, r := range rep.Rows {
		data.Rows = append(data.Rows, prepareRow(r))
	}
	return data
}

func prepareRow(r report.Row) RowData {
	row := RowData{
		Kind:         string(r.Kind),
		ResourceID:   r.ResourceID,
		AssignmentID: r.AssignmentID,
		Label:        r.Label,
		Location:     r.Location,
		Cap:          r.Cap,
		Cells:        make([]CellData, len(r.Cells)),
	}
	for i, c := range r.Cells {
		row.Cells[i] = CellData{
			Percent:        classifier.Round(c.Utilization),
			Exact:          c.Utilization,
			Classification: string(c.Classification),
			WorkingDays:    c.WorkingDays,
			PersonDays:     decimal.NewFromFloat(c.PersonDays).Round(2),
		}
	}
	for _, d := range r.OverAllocated {
		row.OverAllocated = append(row.OverAllocated, OverDayData{
			Date:    d.Date.Format(models.DateLayout),
			Percent: d.Percent,
		})
	}
	for _, ch := range r.Children {
		row.Children = append(row.Children, prepareRow(ch))
	}
	return row
}

// FormatText returns the text representation of the report
func FormatText(rep *report.Report) string {
	data := prepareReportData(rep)
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Utilization report %s (view=%s, anchor=%s)\n", data.ID, data.View, data.Anchor))
	if len(data.Rows) == 0 {
		sb.WriteString("no resources in range\n")
		return sb.String()
	}

	for _, row := range data.Rows {
		sb.WriteString(fmt.Sprintf("%s [%s, cap %d%%]\n", row.Label, row.Location, row.Cap))
		for i, cell := range row.Cells {
			sb.WriteString(formatTextLine("  ", data.Periods[i].Label, cell))
		}
		for _, child := range row.Children {
			sb.WriteString(fmt.Sprintf("  - %s\n", child.Label))
			for i, cell := range child.Cells {
				sb.WriteString(formatTextLine("      ", data.Periods[i].Label, cell))
			}
		}

		// Add over-allocation warning if exists
		if len(row.OverAllocated) > 0 {
			parts := make([]string, 0, len(row.OverAllocated))
			for _, d := range row.OverAllocated {
				parts = append(parts, fmt.Sprintf("%s=%d%%", d.Date, d.Percent))
			}
			sb.WriteString(fmt.Sprintf("  ⚠️  OVER-ALLOCATION (cap %d%%): %s\n", row.Cap, strings.Join(parts, ", ")))
		}
	}

	return sb.String()
}

// formatTextLine formats a single period line for text output
func formatTextLine(indent, label string, cell CellData) string {
	return fmt.Sprintf("%s%s : %d%% %s (%s pd / %d wd)\n",
		indent, label, cell.Percent, cell.Classification,
		cell.PersonDays.StringFixed(2), cell.WorkingDays)
}

// FormatJSON returns the JSON representation of the report
func FormatJSON(rep *report.Report) string {
	data := prepareReportData(rep)
	jsonBytes, _ := json.MarshalIndent(data, "", "  ")
	return string(jsonBytes)
}

// FormatCSV returns the CSV representation of the report, one record per
// row and period.
func FormatCSV(rep *report.Report) string {
	data := prepareReportData(rep)
	var sb strings.Builder
	writer := csv.NewWriter(&sb)

	// Write header
	writer.Write([]string{
		"Kind", "Resource", "Assignment", "Label", "Cap",
		"Period Start", "Period End", "Utilization", "Classification",
		"Working Days", "Person Days",
	})

	for _, row := range data.Rows {
		writeRowToCSV(writer, data.Periods, row)
		for _, child := range row.Children {
			writeRowToCSV(writer, data.Periods, child)
		}
	}

	writer.Flush()
	return sb.String()
}

// writeRowToCSV writes one record per period of a row
func writeRowToCSV(writer *csv.Writer, ps []PeriodData, row RowData) {
	for i, cell := range row.Cells {
		writer.Write([]string{
			row.Kind,
			row.ResourceID,
			row.AssignmentID,
			row.Label,
			strconv.Itoa(row.Cap),
			ps[i].Start,
			ps[i].End,
			strconv.Itoa(cell.Percent),
			cell.Classification,
			strconv.Itoa(cell.WorkingDays),
			cell.PersonDays.StringFixed(2),
		})
	}
}
