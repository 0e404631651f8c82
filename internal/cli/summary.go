package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/daquezad/CX-Licensing-Automation/internal/engine"
	"github.com/daquezad/CX-Licensing-Automation/internal/model"
)

// RenderSummary formats a run's per-outcome counts for the terminal, one
// colored line per outcome in precedence order, followed by totals.
func RenderSummary(result *engine.Result) string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("Reconciliation summary"))
	b.WriteString("\n")

	for _, outcome := range model.Outcomes() {
		count := result.Count(outcome)
		line := fmt.Sprintf("%-18s %d", outcome, count)
		b.WriteString(OutcomeStyle(outcome).Render(line))
		b.WriteString("\n")
	}

	b.WriteString(SubtleStyle.Render(fmt.Sprintf(
		"rows=%d claimed_licenses=%d policy=%s run=%s in %s",
		len(result.Rows), result.Claimed, result.Policy, result.RunID, result.Duration.Round(10*time.Millisecond))))
	b.WriteString("\n")

	return b.String()
}
