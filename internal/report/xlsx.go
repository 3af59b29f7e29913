package report

import (
	"github.com/xuri/excelize/v2"
)

// WriteXLSX writes the report workbook to path. One sheet holds the
// totals, one the per-type counts, one the top files.
func WriteXLSX(path string, st Stats) error {
	f := excelize.NewFile()
	defer f.Close()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	const summary = "Summary"
	f.SetSheetName("Sheet1", summary)
	rows := [][]any{
		{"Metric", "Value"},
		{"Root", st.Root},
		{"Generated", st.Generated.Format("2006-01-02 15:04:05")},
		{"Files scanned", st.Files},
		{"Source lines", st.SourceLines},
		{"Comment blocks", st.Blocks},
		{"Comment lines", st.CommentLines},
		{"Blocks per file", st.BlocksPerFile()},
		{"Blocks per 1000 lines", st.PerThousandLines()},
		{"Errors", st.Errors},
	}
	if err := writeSheet(f, summary, rows, bold); err != nil {
		return err
	}

	const byType = "By type"
	if _, err := f.NewSheet(byType); err != nil {
		return err
	}
	rows = [][]any{{"Type", "Blocks"}}
	for _, k := range st.Kinds() {
		rows = append(rows, []any{k.File, k.Blocks})
	}
	if err := writeSheet(f, byType, rows, bold); err != nil {
		return err
	}

	const topFiles = "Top files"
	if _, err := f.NewSheet(topFiles); err != nil {
		return err
	}
	rows = [][]any{{"File", "Blocks", "Comment lines"}}
	for _, fc := range st.TopFiles {
		rows = append(rows, []any{fc.File, fc.Blocks, fc.Lines})
	}
	if err := writeSheet(f, topFiles, rows, bold); err != nil {
		return err
	}

	return f.SaveAs(path)
}

func writeSheet(f *excelize.File, sheet string, rows [][]any, headerStyle int) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	if len(rows) > 0 {
		end, err := excelize.CoordinatesToCellName(len(rows[0]), 1)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, "A1", end, headerStyle); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(sheet, "A", "A", 40); err != nil {
		return err
	}
	return f.SetColWidth(sheet, "B", "C", 16)
}
