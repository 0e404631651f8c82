// Package engine implements the reconciliation core that classifies each
// PRE-EA report row against the CSSM licensing export.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/daquezad/CX-Licensing-Automation/internal/dates"
	"github.com/daquezad/CX-Licensing-Automation/internal/model"
	"github.com/google/uuid"
)

// ReportDateLayout is the expiration format of the PRE-EA report column.
const ReportDateLayout = "01/02/2006"

// Policy selects how available quantity is allocated to report rows.
type Policy string

// Allocation policies. A run uses exactly one; they are never blended.
const (
	// PolicyExactRow claims the first unclaimed license row whose
	// available quantity equals the requested quantity exactly.
	PolicyExactRow Policy = "exact"
	// PolicyCumulative claims every unclaimed candidate row and accepts
	// when their summed quantity covers the request, using the earliest
	// candidate expiration for the date rule.
	PolicyCumulative Policy = "cumulative"
)

// AuditEvent describes the terminal classification of one report row.
type AuditEvent struct {
	Row     int
	Outcome model.Outcome
	Detail  string
}

// Engine classifies report rows. It is safe to reuse across runs: all
// mutable claim state lives in per-run arenas.
type Engine struct {
	observe func(AuditEvent)
	aliases model.AliasMap
	today   time.Time
	policy  Policy
}

// Option customizes an Engine.
type Option func(*Engine)

// WithToday pins the already-expired cutoff, keeping runs reproducible.
func WithToday(t time.Time) Option {
	return func(e *Engine) { e.today = dates.Day(t) }
}

// WithPolicy selects the allocation policy.
func WithPolicy(p Policy) Option {
	return func(e *Engine) { e.policy = p }
}

// WithObserver installs an audit callback invoked once per classified row.
func WithObserver(fn func(AuditEvent)) Option {
	return func(e *Engine) { e.observe = fn }
}

// New creates an engine with the given alias map.
func New(aliases model.AliasMap, opts ...Option) *Engine {
	e := &Engine{
		aliases: aliases,
		today:   dates.Day(time.Now()),
		policy:  PolicyExactRow,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run classifies every report row against the licensing export, in input
// order. Inputs are never mutated; claim state is seeded fresh for each
// run. The only error condition is context cancellation — data-quality
// problems downgrade individual rows instead.
func (e *Engine) Run(ctx context.Context, report []model.ReportRecord, licenses []model.LicenseRecord) (*Result, error) {
	start := time.Now()
	result := &Result{
		RunID:  uuid.NewString(),
		Policy: e.policy,
		Counts: make(map[model.Outcome]int, 7),
		Rows:   make([]model.RowResult, 0, len(report)),
	}

	arena := newArena(licenses)

	slog.Info("Starting reconciliation",
		"run_id", result.RunID,
		"report_rows", len(report),
		"license_rows", len(licenses),
		"policy", e.policy,
		"today", e.today.Format("2006-01-02"))

	for _, rec := range report {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		rec.Normalize()
		outcome, detail := e.classify(rec, arena)

		result.Rows = append(result.Rows, model.RowResult{
			Record:  rec,
			Outcome: outcome,
			Detail:  detail,
		})
		result.Counts[outcome]++

		if e.observe != nil {
			e.observe(AuditEvent{Row: rec.Row, Outcome: outcome, Detail: detail})
		}
		slog.Debug("Classified row", "row", rec.Row, "outcome", outcome, "detail", detail)
	}

	result.Claimed = arena.claimedCount()
	result.Duration = time.Since(start)

	slog.Info("Reconciliation finished",
		"run_id", result.RunID,
		"rows", len(result.Rows),
		"claimed_licenses", result.Claimed,
		"duration", result.Duration)

	return result, nil
}

// classify runs one row through the decision cascade, short-circuiting at
// the first stage that produces a terminal outcome.
func (e *Engine) classify(rec model.ReportRecord, arena *licenseArena) (model.Outcome, string) {
	// Stage 1: rows that expired before today never reach the joins.
	if exp, ok := dates.ParseWith(rec.Expiration, ReportDateLayout); ok && exp.Before(e.today) {
		return model.OutcomeExpiredAlready,
			fmt.Sprintf("expiration %s has already passed", exp.Format("2006-01-02"))
	}

	// Stage 2: order-number join.
	candidates := arena.byOrder(rec.OrderNumber)
	if len(candidates) == 0 {
		return model.OutcomeNoOrderMatch,
			fmt.Sprintf("order number %q not found in licensing export", rec.OrderNumber)
	}

	// Stage 3: SKU join, direct first, exception map only on a miss.
	candidates = e.matchSKU(rec.PID, candidates, arena)
	if len(candidates) == 0 {
		return model.OutcomeNoSKUMatch,
			fmt.Sprintf("no SKU %q (or mapped exception) under order %q", rec.PID, rec.OrderNumber)
	}

	// Stage 4: quantity allocation against unclaimed license rows.
	claim, detail := e.allocate(rec, candidates, arena)
	if claim == nil {
		return model.OutcomeNoQuantityMatch, detail
	}

	// Stage 5: the claimed coverage must not end before the requested one.
	return e.acceptDates(rec, claim)
}

// matchSKU filters candidates to direct SKU matches, retrying with the
// alias-resolved set when the direct match comes up empty.
func (e *Engine) matchSKU(pid string, candidates []int, arena *licenseArena) []int {
	direct := arena.filterSKU(candidates, []string{pid})
	if len(direct) > 0 {
		return direct
	}
	return arena.filterSKU(candidates, e.aliases.Resolve(pid))
}

// acceptDates applies the date-range rule to an allocated claim.
func (e *Engine) acceptDates(rec model.ReportRecord, claim *claim) (model.Outcome, string) {
	repExp, repOK := dates.ParseWith(rec.Expiration, ReportDateLayout)
	if !repOK || !claim.expirationOK {
		return model.OutcomeDateInvalid,
			fmt.Sprintf("unparseable expiration date(s): report %q, license %q", rec.Expiration, claim.expirationRaw)
	}

	if repExp.After(claim.expiration) {
		return model.OutcomeDateOutOfRange,
			fmt.Sprintf("report expiration %s extends past license coverage %s",
				repExp.Format("2006-01-02"), claim.expiration.Format("2006-01-02"))
	}

	return model.OutcomeAccepted, claim.detail
}
