package main

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/daquezad/CX-Licensing-Automation/internal/dates"
	"github.com/daquezad/CX-Licensing-Automation/internal/engine"
	"github.com/daquezad/CX-Licensing-Automation/internal/mapping"
	"github.com/daquezad/CX-Licensing-Automation/internal/model"
	"github.com/daquezad/CX-Licensing-Automation/internal/xlsx"
)

// inputs bundles everything a reconciliation run needs. The raw report
// bytes are kept so the annotated copy can be written from the original
// workbook rather than a re-serialized one.
type inputs struct {
	report     []model.ReportRecord
	licenses   []model.LicenseRecord
	aliases    model.AliasMap
	reportData []byte
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().String("map", "sku_map.json", "JSON file mapping PIDs to replacement SKUs")
	cmd.Flags().String("allocation", string(engine.PolicyExactRow), "quantity allocation policy (exact, cumulative)")
	cmd.Flags().String("today", "", "override the reference date for expiration checks (e.g. 2025-01-01)")
}

func loadInputs(reportPath, cssmPath, mapPath string) (*inputs, error) {
	reportData, err := os.ReadFile(reportPath) //nolint:gosec // user-supplied path
	if err != nil {
		return nil, fmt.Errorf("failed to read report workbook: %w", err)
	}

	report, err := xlsx.ReadReport(bytes.NewReader(reportData))
	if err != nil {
		return nil, fmt.Errorf("failed to load report %s: %w", reportPath, err)
	}

	cssmFile, err := os.Open(cssmPath) //nolint:gosec // user-supplied path
	if err != nil {
		return nil, fmt.Errorf("failed to read licensing workbook: %w", err)
	}
	licenses, err := xlsx.ReadLicenses(cssmFile)
	closeErr := cssmFile.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to load licensing export %s: %w", cssmPath, err)
	}
	if closeErr != nil {
		slog.Warn("Failed to close licensing workbook", "file", cssmPath, "error", closeErr)
	}

	aliases, err := mapping.Load(mapPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load exception map %s: %w", mapPath, err)
	}

	return &inputs{
		report:     report,
		licenses:   licenses,
		aliases:    aliases,
		reportData: reportData,
	}, nil
}

// engineOptions translates the shared run flags into engine options.
func engineOptions(cmd *cobra.Command) ([]engine.Option, error) {
	var opts []engine.Option

	allocation, _ := cmd.Flags().GetString("allocation")
	switch policy := engine.Policy(allocation); policy {
	case engine.PolicyExactRow, engine.PolicyCumulative:
		opts = append(opts, engine.WithPolicy(policy))
	default:
		return nil, fmt.Errorf("invalid allocation policy %q (expected exact or cumulative)", allocation)
	}

	if today, _ := cmd.Flags().GetString("today"); today != "" {
		t, ok := dates.Parse(today)
		if !ok {
			return nil, fmt.Errorf("invalid --today value %q", today)
		}
		opts = append(opts, engine.WithToday(t))
	}

	return opts, nil
}
