package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/emilianohg/punchclock/internal/models"
)

const reportSheet = "Attendance"

var reportHeaders = []string{"Employee ID", "Name", "Date", "Time", "Type", "Shift", "Status", "Source"}

// Report is an attendance report ready to be rendered as a workbook.
type Report struct {
	Title   string
	Subject string               // "All" or an employee id, used in the file name
	Records []models.PunchRecord // newest first
	Names   NameLookup
}

// Workbook renders the report as an .xlsx file.
func (r Report) Workbook() (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(reportSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	f.SetColWidth(reportSheet, "A", "A", 14)
	f.SetColWidth(reportSheet, "B", "B", 20)
	f.SetColWidth(reportSheet, "C", "D", 12)
	f.SetColWidth(reportSheet, "E", "H", 12)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	duplicateStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Color: "#9C0006"},
	})

	lastCol := colName(len(reportHeaders) - 1)

	f.SetCellValue(reportSheet, "A1", r.Title)
	f.MergeCell(reportSheet, "A1", cell(lastCol, 1))
	f.SetCellStyle(reportSheet, "A1", "A1", headerStyle)

	for i, h := range reportHeaders {
		f.SetCellValue(reportSheet, cell(colName(i), 2), h)
	}
	f.SetCellStyle(reportSheet, "A2", cell(lastCol, 2), headerStyle)

	if len(r.Records) == 0 {
		f.SetCellValue(reportSheet, "A3", "No records")
	}

	names := r.Names
	if names == nil {
		names = NamesFrom(nil)
	}
	for i, rec := range r.Records {
		row := i + 3
		fields := punchRecordFields(rec, names)
		values := []string{fields[0], fields[1], fields[2], fields[3], string(rec.Type), fields[4], fields[5], fields[6]}
		for j, v := range values {
			f.SetCellValue(reportSheet, cell(colName(j), row), v)
		}
		if rec.Status == models.StatusDuplicate {
			f.SetCellStyle(reportSheet, cell("A", row), cell(lastCol, row), duplicateStyle)
		}
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf, nil
}

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
