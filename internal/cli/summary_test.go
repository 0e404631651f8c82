package cli

import (
	"testing"

	"github.com/daquezad/CX-Licensing-Automation/internal/engine"
	"github.com/daquezad/CX-Licensing-Automation/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestRenderSummary(t *testing.T) {
	result := &engine.Result{
		RunID:  "run-1",
		Policy: engine.PolicyExactRow,
		Rows:   make([]model.RowResult, 3),
		Counts: map[model.Outcome]int{
			model.OutcomeAccepted:     2,
			model.OutcomeNoOrderMatch: 1,
		},
		Claimed: 2,
	}

	out := RenderSummary(result)

	assert.Contains(t, out, "Reconciliation summary")
	assert.Contains(t, out, string(model.OutcomeAccepted))
	assert.Contains(t, out, string(model.OutcomeNoOrderMatch))
	assert.Contains(t, out, "rows=3")
	assert.Contains(t, out, "claimed_licenses=2")
	assert.Contains(t, out, "run-1")
}
