package engine

import (
	"time"

	"github.com/daquezad/CX-Licensing-Automation/internal/model"
)

// licenseArena owns all mutable claim state for a single run. Licenses are
// copied and normalized up front; the claimed bitmap is the only thing
// that changes afterwards, and only the allocator flips it.
type licenseArena struct {
	orderIdx map[string][]int
	licenses []model.LicenseRecord
	claimed  []bool
}

func newArena(licenses []model.LicenseRecord) *licenseArena {
	a := &licenseArena{
		licenses: make([]model.LicenseRecord, len(licenses)),
		claimed:  make([]bool, len(licenses)),
		orderIdx: make(map[string][]int),
	}
	copy(a.licenses, licenses)
	for i := range a.licenses {
		a.licenses[i].Normalize()
		key := a.licenses[i].SourceID
		a.orderIdx[key] = append(a.orderIdx[key], i)
	}
	return a
}

// byOrder returns the indices of license rows under an order number, in
// input order.
func (a *licenseArena) byOrder(order string) []int {
	return a.orderIdx[order]
}

// filterSKU keeps the candidate indices whose SKU is in the accepted set,
// preserving order.
func (a *licenseArena) filterSKU(candidates []int, skus []string) []int {
	var matched []int
	for _, i := range candidates {
		for _, sku := range skus {
			if a.licenses[i].SKU == sku {
				matched = append(matched, i)
				break
			}
		}
	}
	return matched
}

func (a *licenseArena) claimedCount() int {
	n := 0
	for _, c := range a.claimed {
		if c {
			n++
		}
	}
	return n
}

// claim is the allocator's successful result: one or more license rows
// marked as consumed, plus the expiration the date rule compares against.
type claim struct {
	expiration    time.Time
	expirationRaw string
	detail        string
	rows          []int
	expirationOK  bool
}
