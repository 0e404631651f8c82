package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/daquezad/CX-Licensing-Automation/internal/common"
	"github.com/daquezad/CX-Licensing-Automation/internal/config"
	"github.com/daquezad/CX-Licensing-Automation/internal/engine"
	"github.com/daquezad/CX-Licensing-Automation/internal/service"
	"github.com/daquezad/CX-Licensing-Automation/internal/sheets"
)

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <pre-ea-report.xlsx> <cssm-export.xlsx>",
		Short: "Run a comparison and export the results to Google Sheets",
		Long: `Run the reconciliation and write a shareable report to Google Sheets.

The spreadsheet gets a summary block with per-outcome counts followed by
one row per report record, colored the same way the annotated workbook
is. Credentials come from the config file or GOOGLE_SHEETS_* environment
variables; run 'cxlic auth sheets' first for OAuth2 setup.`,
		Args: cobra.ExactArgs(2),
		RunE: runExport,
	}

	addRunFlags(cmd)
	cmd.Flags().String("spreadsheet-name", "", "spreadsheet name to create or reuse (overrides config)")

	return cmd
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	if name, _ := cmd.Flags().GetString("spreadsheet-name"); name != "" {
		viper.Set("sheets.spreadsheet_name", name)
	}

	sheetsConfig, err := config.LoadSheetsConfig()
	if err != nil {
		if errors.Is(err, common.ErrMissingConfig) {
			return common.NewUserError(
				"Google Sheets export is not configured. Run 'cxlic auth sheets' or set GOOGLE_SHEETS_* environment variables",
				common.ErrExportDisabled)
		}
		return fmt.Errorf("sheets configuration invalid: %w", err)
	}

	mapPath, _ := cmd.Flags().GetString("map")
	in, err := loadInputs(args[0], args[1], mapPath)
	if err != nil {
		return err
	}

	opts, err := engineOptions(cmd)
	if err != nil {
		return err
	}

	result, err := engine.New(in.aliases, opts...).Run(ctx, in.report, in.licenses)
	if err != nil {
		return err
	}

	var writer service.ReportWriter
	writer, err = sheets.NewWriter(ctx, *sheetsConfig, slog.Default())
	if err != nil {
		return fmt.Errorf("failed to create sheets writer: %w", err)
	}
	if err := writer.Write(ctx, result); err != nil {
		return fmt.Errorf("failed to export to Google Sheets: %w", err)
	}

	slog.Info("Exported reconciliation report",
		"rows", len(result.Rows),
		"accepted", result.Accepted(),
		"run", result.RunID)
	return nil
}
