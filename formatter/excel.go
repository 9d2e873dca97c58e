package formatter

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"resource-planner/models"
	"resource-planner/report"
)

// SheetName is the worksheet the xlsx export writes to.
const SheetName = "Utilization"

var classificationColors = map[string]string{
	string(models.Over):    "#F4CCCC",
	string(models.AtCap):   "#D9EAD3",
	string(models.Partial): "#FFF2CC",
}

// WriteXLSX renders the report as a workbook: one column per period and one
// line per resource followed by its assignments. Cells are colored by
// classification.
func WriteXLSX(rep *report.Report, w io.Writer) error {
	f, err := BuildWorkbook(rep)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Write(w)
}

// BuildWorkbook returns the workbook WriteXLSX would write. The caller closes
// it; on error it is already closed.
func BuildWorkbook(rep *report.Report) (_ *excelize.File, err error) {
	data := prepareReportData(rep)

	f := excelize.NewFile()
	defer func() {
		if err != nil {
			f.Close()
		}
	}()
	index, err := f.NewSheet(SheetName)
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("delete default sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return nil, err
	}
	resourceStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	cellStyles := make(map[string]int, len(classificationColors))
	for class, color := range classificationColors {
		id, err := f.NewStyle(&excelize.Style{
			Fill:      excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
			Alignment: &excelize.Alignment{Horizontal: "center"},
		})
		if err != nil {
			return nil, err
		}
		cellStyles[class] = id
	}

	header := []any{"Resource", "Assignment", "Cap"}
	for _, p := range data.Periods {
		header = append(header, p.Label)
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return nil, err
	}
	lastCol, _ := excelize.ColumnNumberToName(len(header))
	if err := f.SetCellStyle(SheetName, "A1", lastCol+"1", headerStyle); err != nil {
		return nil, err
	}

	line := 2
	writeRow := func(row RowData, resourceLabel, assignmentLabel string) error {
		values := []any{resourceLabel, assignmentLabel, row.Cap}
		for _, c := range row.Cells {
			values = append(values, c.Percent)
		}
		start, _ := excelize.CoordinatesToCellName(1, line)
		if err := f.SetSheetRow(SheetName, start, &values); err != nil {
			return err
		}
		for i, c := range row.Cells {
			style, ok := cellStyles[c.Classification]
			if !ok {
				continue
			}
			ref, _ := excelize.CoordinatesToCellName(4+i, line)
			if err := f.SetCellStyle(SheetName, ref, ref, style); err != nil {
				return err
			}
		}
		line++
		return nil
	}

	for _, row := range data.Rows {
		if err := writeRow(row, row.Label, ""); err != nil {
			return nil, err
		}
		ref, _ := excelize.CoordinatesToCellName(1, line-1)
		if err := f.SetCellStyle(SheetName, ref, ref, resourceStyle); err != nil {
			return nil, err
		}
		for _, child := range row.Children {
			if err := writeRow(child, "", child.Label); err != nil {
				return nil, err
			}
		}
	}

	if err := f.SetColWidth(SheetName, "A", "B", 24); err != nil {
		return nil, err
	}
	return f, nil
}
