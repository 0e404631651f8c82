// Package xlsx adapts PRE-EA and CSSM workbooks to the reconciliation
// engine's record types using excelize.
package xlsx

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/daquezad/CX-Licensing-Automation/internal/common"
	"github.com/daquezad/CX-Licensing-Automation/internal/model"
	"github.com/xuri/excelize/v2"
)

// Column and sheet names as they appear in the production exports.
const (
	ReportColOrder      = "ALC Order Number"
	ReportColPID        = "Pre EA Migrated Pid"
	ReportColQuantity   = "Quantity"
	ReportColExpiration = "Expiration Date"

	// The CSSM export buries its table below a banner; the header
	// lives on row 6 of the "License Detail" sheet.
	LicenseSheet        = "License Detail"
	LicenseHeaderRow    = 6
	LicenseColSource    = "Source Identifier"
	LicenseColSKU       = "SKU"
	LicenseColAvailable = "Available To Use"
	LicenseColEnd       = "Subscription End Date"
)

// ReadReport loads the PRE-EA report from the first sheet of a workbook.
// The header is on row 1. A missing required column is load-fatal.
func ReadReport(r io.Reader) ([]model.ReportRecord, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open report workbook: %w", err)
	}
	defer closeFile(f)

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("%w: sheet %q", common.ErrEmptyWorkbook, sheet)
	}

	cols, err := columnIndexes(rows[0], ReportColOrder, ReportColPID, ReportColQuantity, ReportColExpiration)
	if err != nil {
		return nil, err
	}

	records := make([]model.ReportRecord, 0, len(rows)-1)
	for i := 1; i < len(rows); i++ {
		rec := model.ReportRecord{
			OrderNumber: cell(rows[i], cols[ReportColOrder]),
			PID:         cell(rows[i], cols[ReportColPID]),
			Quantity:    cell(rows[i], cols[ReportColQuantity]),
			Expiration:  cell(rows[i], cols[ReportColExpiration]),
			Row:         i + 1,
		}
		if rec.OrderNumber == "" && rec.PID == "" && rec.Quantity == "" && rec.Expiration == "" {
			continue // trailing blank row
		}
		records = append(records, rec)
	}

	slog.Info("Loaded PRE-EA report", "sheet", sheet, "rows", len(records))
	return records, nil
}

// ReadLicenses loads the CSSM export from its "License Detail" sheet.
func ReadLicenses(r io.Reader) ([]model.LicenseRecord, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open licensing workbook: %w", err)
	}
	defer closeFile(f)

	rows, err := f.GetRows(LicenseSheet)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", common.ErrSheetNotFound, LicenseSheet)
	}
	if len(rows) <= LicenseHeaderRow {
		return nil, fmt.Errorf("%w: sheet %q", common.ErrEmptyWorkbook, LicenseSheet)
	}

	header := rows[LicenseHeaderRow-1]
	cols, err := columnIndexes(header, LicenseColSource, LicenseColSKU, LicenseColAvailable, LicenseColEnd)
	if err != nil {
		return nil, err
	}

	records := make([]model.LicenseRecord, 0, len(rows)-LicenseHeaderRow)
	for i := LicenseHeaderRow; i < len(rows); i++ {
		rec := model.LicenseRecord{
			SourceID:        cell(rows[i], cols[LicenseColSource]),
			SKU:             cell(rows[i], cols[LicenseColSKU]),
			AvailableToUse:  cell(rows[i], cols[LicenseColAvailable]),
			SubscriptionEnd: cell(rows[i], cols[LicenseColEnd]),
			Row:             i + 1,
		}
		if rec.SourceID == "" && rec.SKU == "" {
			continue
		}
		records = append(records, rec)
	}

	slog.Info("Loaded CSSM licensing export", "rows", len(records))
	return records, nil
}

// columnIndexes maps required header names to their zero-based column
// positions. Header cells are whitespace-trimmed before comparison.
func columnIndexes(header []string, names ...string) (map[string]int, error) {
	positions := make(map[string]int, len(header))
	for i, h := range header {
		positions[strings.TrimSpace(h)] = i
	}

	cols := make(map[string]int, len(names))
	for _, name := range names {
		idx, ok := positions[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", common.ErrMissingColumn, name)
		}
		cols[name] = idx
	}
	return cols, nil
}

func cell(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func closeFile(f *excelize.File) {
	if err := f.Close(); err != nil {
		slog.Warn("Failed to close workbook", "error", err)
	}
}
