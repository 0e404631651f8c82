package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/daquezad/CX-Licensing-Automation/internal/engine"
	"github.com/daquezad/CX-Licensing-Automation/internal/server"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the reconciliation web UI",
		Long: `Start a web server with an upload form for the PRE-EA report and
CSSM export. Uploaded workbooks are compared in-memory and the annotated
report is returned as a download; nothing is stored on disk.`,
		RunE: runServe,
	}

	cmd.Flags().String("listen", ":8080", "address to listen on")
	cmd.Flags().String("allocation", string(engine.PolicyExactRow), "default quantity allocation policy (exact, cumulative)")

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	allocation, _ := cmd.Flags().GetString("allocation")
	policy := engine.Policy(allocation)
	if policy != engine.PolicyExactRow && policy != engine.PolicyCumulative {
		return fmt.Errorf("invalid allocation policy %q (expected exact or cumulative)", allocation)
	}

	addr, _ := cmd.Flags().GetString("listen")
	srv := server.New(server.Config{Policy: policy})

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Starting reconciliation server", "addr", addr)
		errCh <- srv.Listen(addr)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
		slog.Info("Shutting down server")
		if err := srv.Shutdown(); err != nil {
			return fmt.Errorf("failed to shut down server: %w", err)
		}
		return nil
	}
}
