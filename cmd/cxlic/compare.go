package main

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/daquezad/CX-Licensing-Automation/internal/cli"
	"github.com/daquezad/CX-Licensing-Automation/internal/common"
	"github.com/daquezad/CX-Licensing-Automation/internal/config"
	"github.com/daquezad/CX-Licensing-Automation/internal/engine"
	"github.com/daquezad/CX-Licensing-Automation/internal/xlsx"
)

func compareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare <pre-ea-report.xlsx> <cssm-export.xlsx>",
		Short: "Compare a PRE-EA report against a CSSM licensing export",
		Long: `Compare every row of a PRE-EA migration report against a CSSM
licensing export and write an annotated copy of the report.

The annotated workbook gains a Flag column with the outcome color, a
Logging Info column with the reason for each non-matching row, and a
background fill on every row. A per-run log file is written next to it.`,
		Args: cobra.ExactArgs(2),
		RunE: runCompare,
	}

	addRunFlags(cmd)
	cmd.Flags().String("output-dir", "output", "directory for the annotated workbook and run log (cleared each run)")

	return cmd
}

func runCompare(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	reportPath, cssmPath := args[0], args[1]

	outputDir, _ := cmd.Flags().GetString("output-dir")
	outputDir = config.ExpandPath(outputDir)
	if err := config.EnsureCleanDir(outputDir); err != nil {
		return fmt.Errorf("failed to prepare output directory: %w", err)
	}

	// Re-route logging so the run leaves an audit trail in the output dir.
	level := common.ParseLevel(viper.GetString("logging.level"))
	if err := common.SetupLogger(level, viper.GetString("logging.format"), filepath.Join(outputDir, "cxlic.log")); err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}

	mapPath, _ := cmd.Flags().GetString("map")
	in, err := loadInputs(reportPath, cssmPath, mapPath)
	if err != nil {
		return err
	}

	opts, err := engineOptions(cmd)
	if err != nil {
		return err
	}

	bar := progressbar.NewOptions(len(in.report),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("Comparing report rows..."),
		progressbar.OptionClearOnFinish(),
	)
	opts = append(opts, engine.WithObserver(func(engine.AuditEvent) {
		_ = bar.Add(1)
	}))

	result, err := engine.New(in.aliases, opts...).Run(ctx, in.report, in.licenses)
	if err != nil {
		return err
	}
	_ = bar.Finish()

	annotated, err := xlsx.Annotate(bytes.NewReader(in.reportData), result)
	if err != nil {
		return fmt.Errorf("failed to annotate report: %w", err)
	}

	outPath := filepath.Join(outputDir, comparedName(reportPath))
	if err := os.WriteFile(outPath, annotated, 0600); err != nil {
		return fmt.Errorf("failed to write annotated workbook: %w", err)
	}
	slog.Info("Wrote annotated workbook", "path", outPath, "rows", len(result.Rows))

	fmt.Fprintln(cmd.OutOrStdout(), cli.RenderSummary(result))
	return nil
}

// comparedName derives the output file name from the report path.
func comparedName(reportPath string) string {
	base := filepath.Base(reportPath)
	if strings.HasSuffix(base, ".xlsx") {
		return strings.TrimSuffix(base, ".xlsx") + "_compared.xlsx"
	}
	return base + "_compared.xlsx"
}
