package export

import (
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"verity/internal/domain"
)

const findingsSheet = "Findings"

// WriteExcel renders an audit result as an xlsx workbook: one Findings sheet
// with a header row, one row per finding, and the summary block beneath.
func WriteExcel(w io.Writer, result *domain.AuditResult) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	idx, err := f.NewSheet(findingsSheet)
	if err != nil {
		return fmt.Errorf("creating sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("removing default sheet: %w", err)
	}

	for col, name := range columns {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("resolving header cell: %w", err)
		}
		if err := f.SetCellValue(findingsSheet, cell, name); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	for i := range result.Findings {
		row := findingToRow(&result.Findings[i])
		for col, val := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return fmt.Errorf("resolving cell: %w", err)
			}
			if err := f.SetCellValue(findingsSheet, cell, val); err != nil {
				return fmt.Errorf("writing finding row: %w", err)
			}
		}
	}

	summaryRows := [][2]string{
		{"Status", result.Summary.Status},
		{"Total Bill Amount", formatOptMoney(result.Summary.TotalBillAmount)},
		{"Estimated Savings", formatMoney(result.Summary.EstimatedSavings)},
		{"Confidence Level", strconv.Itoa(result.Summary.ConfidenceLevel)},
	}
	base := len(result.Findings) + 3
	for i, kv := range summaryRows {
		if err := f.SetCellValue(findingsSheet, fmt.Sprintf("A%d", base+i), kv[0]); err != nil {
			return fmt.Errorf("writing summary label: %w", err)
		}
		if err := f.SetCellValue(findingsSheet, fmt.Sprintf("B%d", base+i), kv[1]); err != nil {
			return fmt.Errorf("writing summary value: %w", err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}
