// Package model defines the core domain models used throughout the application.
package model

import "strings"

// ReportRecord is one row of the PRE-EA migration report. Quantity and
// Expiration hold the raw cell text; parsing happens inside the engine so
// that a bad cell downgrades a single row instead of failing the load.
type ReportRecord struct {
	OrderNumber string // ALC Order Number
	PID         string // Pre EA Migrated Pid
	Quantity    string
	Expiration  string
	Row         int // 1-based worksheet row, for audit messages
}

// LicenseRecord is one row of the CSSM licensing export ("License Detail").
type LicenseRecord struct {
	SourceID        string // Source Identifier
	SKU             string
	AvailableToUse  string
	SubscriptionEnd string
	Row             int
}

// Normalize trims the identifier fields. Matching is exact-string and
// case-sensitive after trimming.
func (r *ReportRecord) Normalize() {
	r.OrderNumber = strings.TrimSpace(r.OrderNumber)
	r.PID = strings.TrimSpace(r.PID)
	r.Quantity = strings.TrimSpace(r.Quantity)
	r.Expiration = strings.TrimSpace(r.Expiration)
}

// Normalize trims the identifier fields.
func (l *LicenseRecord) Normalize() {
	l.SourceID = strings.TrimSpace(l.SourceID)
	l.SKU = strings.TrimSpace(l.SKU)
	l.AvailableToUse = strings.TrimSpace(l.AvailableToUse)
	l.SubscriptionEnd = strings.TrimSpace(l.SubscriptionEnd)
}

// RowResult pairs a report row with its terminal outcome.
type RowResult struct {
	Record  ReportRecord
	Outcome Outcome
	Detail  string
}
