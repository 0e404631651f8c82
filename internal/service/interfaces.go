// Package service defines the interfaces at the application's boundaries.
package service

import (
	"context"
	"time"

	"github.com/daquezad/CX-Licensing-Automation/internal/engine"
)

// ReportWriter renders a reconciliation result to some external surface
// (a colored workbook, a Google Sheet).
type ReportWriter interface {
	Write(ctx context.Context, result *engine.Result) error
}

// RetryOptions configures retry behavior for flaky external calls.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
