package engine

import (
	"time"

	"github.com/daquezad/CX-Licensing-Automation/internal/model"
)

// Result is the ordered output of one reconciliation run.
type Result struct {
	Counts   map[model.Outcome]int
	RunID    string
	Policy   Policy
	Rows     []model.RowResult
	Claimed  int
	Duration time.Duration
}

// Count returns the number of rows that ended with the given outcome.
func (r *Result) Count(o model.Outcome) int {
	return r.Counts[o]
}

// Accepted reports how many rows matched fully.
func (r *Result) Accepted() int {
	return r.Counts[model.OutcomeAccepted]
}
