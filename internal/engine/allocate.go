package engine

import (
	"fmt"
	"strconv"

	"github.com/daquezad/CX-Licensing-Automation/internal/dates"
	"github.com/daquezad/CX-Licensing-Automation/internal/model"
)

// allocate claims license quantity for a report row under the engine's
// policy. A nil claim means no eligible candidate; the detail string then
// explains why.
func (e *Engine) allocate(rec model.ReportRecord, candidates []int, arena *licenseArena) (*claim, string) {
	requested, err := strconv.Atoi(rec.Quantity)
	if err != nil {
		return nil, fmt.Sprintf("requested quantity %q is not a whole number", rec.Quantity)
	}

	if e.policy == PolicyCumulative {
		return e.allocateCumulative(requested, candidates, arena)
	}
	return e.allocateExact(requested, candidates, arena)
}

// allocateExact claims the first unclaimed candidate whose available
// quantity equals the request exactly. First eligible match wins; there is
// no best-fit search, so input order decides ties.
func (e *Engine) allocateExact(requested int, candidates []int, arena *licenseArena) (*claim, string) {
	for _, i := range candidates {
		if arena.claimed[i] {
			continue
		}
		lic := arena.licenses[i]
		available, err := strconv.Atoi(lic.AvailableToUse)
		if err != nil {
			// Unparseable quantity makes the row ineligible, not fatal.
			continue
		}
		if available != requested {
			continue
		}

		arena.claimed[i] = true
		exp, expOK := dates.Parse(lic.SubscriptionEnd)
		return &claim{
			rows:          []int{i},
			expiration:    exp,
			expirationOK:  expOK,
			expirationRaw: lic.SubscriptionEnd,
			detail:        fmt.Sprintf("matched license row %d with quantity %d", lic.Row, requested),
		}, ""
	}

	return nil, fmt.Sprintf("no unclaimed license with available quantity %d", requested)
}

// allocateCumulative claims every eligible unclaimed candidate and accepts
// when their summed quantity covers the request. The earliest candidate
// expiration becomes the claim's coverage end, so one short-lived row
// caps the whole group. Rows with unparseable quantities or end dates are
// skipped without being claimed.
func (e *Engine) allocateCumulative(requested int, candidates []int, arena *licenseArena) (*claim, string) {
	var (
		eligible []int
		total    int
	)
	for _, i := range candidates {
		if arena.claimed[i] {
			continue
		}
		lic := arena.licenses[i]
		available, err := strconv.Atoi(lic.AvailableToUse)
		if err != nil {
			continue
		}
		if _, ok := dates.Parse(lic.SubscriptionEnd); !ok {
			continue
		}
		eligible = append(eligible, i)
		total += available
	}

	if total < requested {
		return nil, fmt.Sprintf("unclaimed quantity %d does not cover requested %d", total, requested)
	}

	c := &claim{rows: eligible, expirationOK: true}
	for _, i := range eligible {
		arena.claimed[i] = true
		lic := arena.licenses[i]
		exp, _ := dates.Parse(lic.SubscriptionEnd)
		if c.expiration.IsZero() || exp.Before(c.expiration) {
			c.expiration = exp
			c.expirationRaw = lic.SubscriptionEnd
		}
	}
	c.detail = fmt.Sprintf("claimed %d license rows totaling quantity %d", len(eligible), total)
	return c, ""
}
