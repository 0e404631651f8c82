package xlsx

import (
	"bytes"
	"fmt"
	"io"

	"github.com/daquezad/CX-Licensing-Automation/internal/engine"
	"github.com/daquezad/CX-Licensing-Automation/internal/model"
	"github.com/xuri/excelize/v2"
)

// Annotation column headers appended after the report's own columns.
const (
	FlagHeader    = "Flag"
	LoggingHeader = "Logging Info"
)

// fillColors are the historical ARGB highlight colors.
var fillColors = map[model.OutcomeColor]string{
	model.ColorRed:    "FF0000",
	model.ColorBlue:   "0000FF",
	model.ColorYellow: "FFFF00",
	model.ColorGreen:  "00FF00",
	model.ColorPurple: "800080",
}

// Annotate re-opens the original report workbook, colors every classified
// row by its outcome, and appends Flag and Logging Info columns. The
// source content is preserved; only fills and the two extra columns are
// added. Returns the annotated workbook as xlsx bytes.
func Annotate(src io.Reader, result *engine.Result) ([]byte, error) {
	f, err := excelize.OpenReader(src)
	if err != nil {
		return nil, fmt.Errorf("failed to reopen report workbook: %w", err)
	}
	defer closeFile(f)

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q is empty", sheet)
	}
	width := len(rows[0])

	styles, err := buildFillStyles(f)
	if err != nil {
		return nil, err
	}

	// Annotation headers sit to the right of the report's own columns.
	if err := setCells(f, sheet, 1, width+1, FlagHeader, LoggingHeader); err != nil {
		return nil, err
	}

	for _, row := range result.Rows {
		styleID := styles[row.Outcome.Color()]

		first, cellErr := excelize.CoordinatesToCellName(1, row.Record.Row)
		if cellErr != nil {
			return nil, fmt.Errorf("invalid row %d: %w", row.Record.Row, cellErr)
		}
		last, cellErr := excelize.CoordinatesToCellName(width, row.Record.Row)
		if cellErr != nil {
			return nil, fmt.Errorf("invalid row %d: %w", row.Record.Row, cellErr)
		}
		if err := f.SetCellStyle(sheet, first, last, styleID); err != nil {
			return nil, fmt.Errorf("failed to color row %d: %w", row.Record.Row, err)
		}

		if err := setCells(f, sheet, row.Record.Row, width+1, string(row.Outcome.Color()), row.Detail); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to serialize annotated workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// buildFillStyles registers one solid-fill style per outcome color.
func buildFillStyles(f *excelize.File) (map[model.OutcomeColor]int, error) {
	styles := make(map[model.OutcomeColor]int, len(fillColors))
	for color, argb := range fillColors {
		id, err := f.NewStyle(&excelize.Style{
			Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{argb}},
		})
		if err != nil {
			return nil, fmt.Errorf("failed to register %s fill: %w", color, err)
		}
		styles[color] = id
	}
	return styles, nil
}

// setCells writes consecutive string cells starting at (startCol, row).
func setCells(f *excelize.File, sheet string, row, startCol int, values ...string) error {
	for i, value := range values {
		name, err := excelize.CoordinatesToCellName(startCol+i, row)
		if err != nil {
			return fmt.Errorf("invalid cell at row %d: %w", row, err)
		}
		if err := f.SetCellStr(sheet, name, value); err != nil {
			return fmt.Errorf("failed to write cell %s: %w", name, err)
		}
	}
	return nil
}
