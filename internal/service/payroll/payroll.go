// Package payroll renders the wages report the office hands to the
// bookkeeper: one row per employee, hours split across the production
// stages they worked.
package payroll

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/xuri/excelize/v2"

	"tubeworks/internal/pipeline"
	"tubeworks/internal/storage"
)

type PayrollStorage interface {
	GetPayrollRows(ctx context.Context, from, to time.Time) ([]*storage.PayrollRow, error)
}

type Service struct {
	storage PayrollStorage
}

func New(storage PayrollStorage) *Service {
	return &Service{storage: storage}
}

// Report builds the .xlsx for the period, both dates inclusive.
func (s *Service) Report(ctx context.Context, from, to time.Time) ([]byte, error) {
	const op = "service.payroll.Report"

	rows, err := s.storage.GetPayrollRows(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := "Payroll"
	f.SetSheetName("Sheet1", sheet)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"E0E0E0"}, Pattern: 1},
		Border: []excelize.Border{{Type: "bottom", Color: "000000", Style: 2}},
	})

	baseHeaders := []string{"Employee", "Role", "Hours", "Hourly Rate", "Gross Pay"}
	for i, name := range baseHeaders {
		f.SetCellValue(sheet, cellName(i+1, 1), name)
	}

	// Stage hour columns come after the base block, in pipeline order,
	// only for stages anyone actually worked in the period.
	stageColMap := make(map[pipeline.Stage]int)
	baseLen := len(baseHeaders)
	for _, stage := range pipeline.Sequence() {
		if !stageWorked(rows, stage) {
			continue
		}
		colIdx := baseLen + len(stageColMap) + 1
		stageColMap[stage] = colIdx
		f.SetCellValue(sheet, cellName(colIdx, 1), stage.Label()+" (h)")
	}

	lastCol := cellName(baseLen+len(stageColMap), 1)
	f.SetCellStyle(sheet, "A1", lastCol, headerStyle)

	for rowIdx, row := range rows {
		rowNum := rowIdx + 2

		f.SetCellValue(sheet, cellName(1, rowNum), row.Name)
		f.SetCellValue(sheet, cellName(2, rowNum), row.Role)
		f.SetCellValue(sheet, cellName(3, rowNum), round2(row.TotalHours()))
		f.SetCellValue(sheet, cellName(4, rowNum), row.HourlyRate)
		f.SetCellValue(sheet, cellName(5, rowNum), round2(row.GrossPay()))

		for stage, minutes := range row.MinutesByStage {
			if colIdx, ok := stageColMap[stage]; ok {
				f.SetCellValue(sheet, cellName(colIdx, rowNum), round2(minutes/60))
			}
		}
	}

	f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		Split:       false,
		XSplit:      0,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "",
		Selection:   nil,
	})

	f.SetColWidth(sheet, "A", "B", 24)
	f.SetColWidth(sheet, "C", "E", 12)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("%s: write workbook: %w", op, err)
	}

	return buf.Bytes(), nil
}

func stageWorked(rows []*storage.PayrollRow, stage pipeline.Stage) bool {
	for _, row := range rows {
		if row.MinutesByStage[stage] > 0 {
			return true
		}
	}
	return false
}

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
