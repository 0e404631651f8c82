package engine

import (
	"context"
	"testing"
	"time"

	"github.com/daquezad/CX-Licensing-Automation/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testToday = time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)

func rep(order, pid, qty, exp string) model.ReportRecord {
	return model.ReportRecord{OrderNumber: order, PID: pid, Quantity: qty, Expiration: exp}
}

func lic(source, sku, qty, end string) model.LicenseRecord {
	return model.LicenseRecord{SourceID: source, SKU: sku, AvailableToUse: qty, SubscriptionEnd: end}
}

func TestEngine_Classify(t *testing.T) {
	tests := []struct {
		name        string
		aliases     model.AliasMap
		report      []model.ReportRecord
		licenses    []model.LicenseRecord
		wantOutcome []model.Outcome
	}{
		{
			name:        "full match is accepted",
			report:      []model.ReportRecord{rep("100", "X", "5", "01/01/2030")},
			licenses:    []model.LicenseRecord{lic("100", "X", "5", "2031-01-01")},
			wantOutcome: []model.Outcome{model.OutcomeAccepted},
		},
		{
			name:        "quantity mismatch",
			report:      []model.ReportRecord{rep("100", "X", "5", "01/01/2030")},
			licenses:    []model.LicenseRecord{lic("100", "X", "7", "2031-01-01")},
			wantOutcome: []model.Outcome{model.OutcomeNoQuantityMatch},
		},
		{
			name:        "report expiration past license coverage",
			report:      []model.ReportRecord{rep("100", "X", "5", "01/01/2030")},
			licenses:    []model.LicenseRecord{lic("100", "X", "5", "2029-01-01")},
			wantOutcome: []model.Outcome{model.OutcomeDateOutOfRange},
		},
		{
			name:        "order number absent from export",
			report:      []model.ReportRecord{rep("999", "X", "5", "01/01/2030")},
			licenses:    []model.LicenseRecord{lic("100", "X", "5", "2031-01-01")},
			wantOutcome: []model.Outcome{model.OutcomeNoOrderMatch},
		},
		{
			name: "one license row cannot satisfy two report rows",
			report: []model.ReportRecord{
				rep("1", "Y", "3", "01/01/2030"),
				rep("1", "Y", "3", "01/01/2030"),
			},
			licenses:    []model.LicenseRecord{lic("1", "Y", "3", "2031-01-01")},
			wantOutcome: []model.Outcome{model.OutcomeAccepted, model.OutcomeNoQuantityMatch},
		},
		{
			name:        "already expired dominates a would-be match",
			report:      []model.ReportRecord{rep("100", "X", "5", "01/01/2020")},
			licenses:    []model.LicenseRecord{lic("100", "X", "5", "2031-01-01")},
			wantOutcome: []model.Outcome{model.OutcomeExpiredAlready},
		},
		{
			name:        "sku missing without an exception entry",
			report:      []model.ReportRecord{rep("100", "X", "5", "01/01/2030")},
			licenses:    []model.LicenseRecord{lic("100", "Z", "5", "2031-01-01")},
			wantOutcome: []model.Outcome{model.OutcomeNoSKUMatch},
		},
		{
			name:        "exception map rescues a direct sku miss",
			aliases:     model.AliasMap{"X": {"X-T"}},
			report:      []model.ReportRecord{rep("100", "X", "5", "01/01/2030")},
			licenses:    []model.LicenseRecord{lic("100", "X-T", "5", "2031-01-01")},
			wantOutcome: []model.Outcome{model.OutcomeAccepted},
		},
		{
			name:    "direct sku match wins over the exception map",
			aliases: model.AliasMap{"X": {"X-T"}},
			report:  []model.ReportRecord{rep("100", "X", "5", "01/01/2030")},
			licenses: []model.LicenseRecord{
				lic("100", "X-T", "7", "2031-01-01"),
				lic("100", "X", "5", "2031-01-01"),
			},
			wantOutcome: []model.Outcome{model.OutcomeAccepted},
		},
		{
			name:        "mapped set does not implicitly include the direct key",
			aliases:     model.AliasMap{"X": {"X-T"}},
			report:      []model.ReportRecord{rep("100", "X", "5", "01/01/2030")},
			licenses:    []model.LicenseRecord{lic("100", "Q", "5", "2031-01-01")},
			wantOutcome: []model.Outcome{model.OutcomeNoSKUMatch},
		},
		{
			name:        "unparseable license end date invalidates the claim",
			report:      []model.ReportRecord{rep("100", "X", "5", "01/01/2030")},
			licenses:    []model.LicenseRecord{lic("100", "X", "5", "sometime")},
			wantOutcome: []model.Outcome{model.OutcomeDateInvalid},
		},
		{
			name:        "unparseable report expiration invalidates the claim",
			report:      []model.ReportRecord{rep("100", "X", "5", "whenever")},
			licenses:    []model.LicenseRecord{lic("100", "X", "5", "2031-01-01")},
			wantOutcome: []model.Outcome{model.OutcomeDateInvalid},
		},
		{
			name:        "unparseable requested quantity",
			report:      []model.ReportRecord{rep("100", "X", "lots", "01/01/2030")},
			licenses:    []model.LicenseRecord{lic("100", "X", "5", "2031-01-01")},
			wantOutcome: []model.Outcome{model.OutcomeNoQuantityMatch},
		},
		{
			name:   "unparseable available quantity makes the row ineligible",
			report: []model.ReportRecord{rep("100", "X", "5", "01/01/2030")},
			licenses: []model.LicenseRecord{
				lic("100", "X", "n/a", "2031-01-01"),
				lic("100", "X", "5", "2031-01-01"),
			},
			wantOutcome: []model.Outcome{model.OutcomeAccepted},
		},
		{
			name:        "identifiers are trimmed before matching",
			report:      []model.ReportRecord{rep("  100 ", " X ", " 5 ", " 01/01/2030 ")},
			licenses:    []model.LicenseRecord{lic("100 ", " X", "5", "2031-01-01")},
			wantOutcome: []model.Outcome{model.OutcomeAccepted},
		},
		{
			name:   "first eligible row wins, not best fit",
			report: []model.ReportRecord{rep("100", "X", "5", "01/01/2030")},
			licenses: []model.LicenseRecord{
				lic("100", "X", "5", "2029-01-01"),
				lic("100", "X", "5", "2031-01-01"),
			},
			wantOutcome: []model.Outcome{model.OutcomeDateOutOfRange},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := New(tt.aliases, WithToday(testToday))
			result, err := e.Run(context.Background(), tt.report, tt.licenses)
			require.NoError(t, err)
			require.Len(t, result.Rows, len(tt.wantOutcome))

			for i, want := range tt.wantOutcome {
				assert.Equal(t, want, result.Rows[i].Outcome, "row %d: %s", i, result.Rows[i].Detail)
				assert.NotEmpty(t, result.Rows[i].Detail)
			}
		})
	}
}

func TestEngine_AtMostOneClaim(t *testing.T) {
	report := []model.ReportRecord{
		rep("1", "A", "3", "01/01/2030"),
		rep("1", "A", "3", "01/01/2030"),
		rep("1", "A", "2", "01/01/2030"),
		rep("1", "A", "4", "bad-date"),
		rep("2", "B", "1", "01/01/2030"),
	}
	licenses := []model.LicenseRecord{
		lic("1", "A", "3", "2031-01-01"),
		lic("1", "A", "2", "2029-01-01"),
		lic("1", "A", "4", "garbled"),
		lic("2", "B", "1", "2031-01-01"),
	}

	e := New(nil, WithToday(testToday))
	result, err := e.Run(context.Background(), report, licenses)
	require.NoError(t, err)

	// Every row that survived allocation holds exactly one claim,
	// whatever the date rule said afterwards.
	survived := result.Count(model.OutcomeAccepted) +
		result.Count(model.OutcomeDateInvalid) +
		result.Count(model.OutcomeDateOutOfRange)
	assert.Equal(t, survived, result.Claimed)
	assert.Equal(t, 1, result.Count(model.OutcomeNoQuantityMatch))
}

func TestEngine_Determinism(t *testing.T) {
	report := []model.ReportRecord{
		rep("1", "A", "3", "01/01/2030"),
		rep("1", "A", "3", "01/01/2030"),
		rep("2", "B", "7", "01/01/2030"),
		rep("3", "C", "2", "01/01/2020"),
	}
	licenses := []model.LicenseRecord{
		lic("1", "A", "3", "2031-01-01"),
		lic("2", "B", "5", "2031-01-01"),
	}

	e := New(model.AliasMap{"B": {"B-T"}}, WithToday(testToday))

	first, err := e.Run(context.Background(), report, licenses)
	require.NoError(t, err)
	second, err := e.Run(context.Background(), report, licenses)
	require.NoError(t, err)

	assert.Equal(t, first.Rows, second.Rows)
	assert.Equal(t, first.Counts, second.Counts)
	assert.Equal(t, first.Claimed, second.Claimed)
	assert.NotEqual(t, first.RunID, second.RunID)
}

func TestEngine_InputsNotMutated(t *testing.T) {
	report := []model.ReportRecord{rep("  100 ", "X", "5", "01/01/2030")}
	licenses := []model.LicenseRecord{lic(" 100", " X ", "5", "2031-01-01")}

	e := New(nil, WithToday(testToday))
	_, err := e.Run(context.Background(), report, licenses)
	require.NoError(t, err)

	assert.Equal(t, "  100 ", report[0].OrderNumber)
	assert.Equal(t, " 100", licenses[0].SourceID)

	// A second run over the same backing data must start unclaimed.
	result, err := e.Run(context.Background(), report, licenses)
	require.NoError(t, err)
	assert.Equal(t, model.OutcomeAccepted, result.Rows[0].Outcome)
}

func TestEngine_CumulativePolicy(t *testing.T) {
	tests := []struct {
		name        string
		report      []model.ReportRecord
		licenses    []model.LicenseRecord
		wantOutcome []model.Outcome
	}{
		{
			name:   "sum across rows covers the request",
			report: []model.ReportRecord{rep("1", "A", "5", "01/01/2030")},
			licenses: []model.LicenseRecord{
				lic("1", "A", "2", "2031-01-01"),
				lic("1", "A", "3", "2032-01-01"),
			},
			wantOutcome: []model.Outcome{model.OutcomeAccepted},
		},
		{
			name:   "sum falls short",
			report: []model.ReportRecord{rep("1", "A", "9", "01/01/2030")},
			licenses: []model.LicenseRecord{
				lic("1", "A", "2", "2031-01-01"),
				lic("1", "A", "3", "2032-01-01"),
			},
			wantOutcome: []model.Outcome{model.OutcomeNoQuantityMatch},
		},
		{
			name:   "earliest claimed expiration caps the group",
			report: []model.ReportRecord{rep("1", "A", "5", "01/01/2030")},
			licenses: []model.LicenseRecord{
				lic("1", "A", "2", "2029-01-01"),
				lic("1", "A", "3", "2032-01-01"),
			},
			wantOutcome: []model.Outcome{model.OutcomeDateOutOfRange},
		},
		{
			name: "a claimed group is consumed for later rows",
			report: []model.ReportRecord{
				rep("1", "A", "5", "01/01/2030"),
				rep("1", "A", "1", "01/01/2030"),
			},
			licenses: []model.LicenseRecord{
				lic("1", "A", "2", "2031-01-01"),
				lic("1", "A", "3", "2032-01-01"),
			},
			wantOutcome: []model.Outcome{model.OutcomeAccepted, model.OutcomeNoQuantityMatch},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := New(nil, WithToday(testToday), WithPolicy(PolicyCumulative))
			result, err := e.Run(context.Background(), tt.report, tt.licenses)
			require.NoError(t, err)
			require.Len(t, result.Rows, len(tt.wantOutcome))
			for i, want := range tt.wantOutcome {
				assert.Equal(t, want, result.Rows[i].Outcome, "row %d: %s", i, result.Rows[i].Detail)
			}
		})
	}
}

func TestEngine_Observer(t *testing.T) {
	var events []AuditEvent
	e := New(nil,
		WithToday(testToday),
		WithObserver(func(ev AuditEvent) { events = append(events, ev) }))

	report := []model.ReportRecord{
		{OrderNumber: "100", PID: "X", Quantity: "5", Expiration: "01/01/2030", Row: 2},
		{OrderNumber: "999", PID: "X", Quantity: "5", Expiration: "01/01/2030", Row: 3},
	}
	licenses := []model.LicenseRecord{lic("100", "X", "5", "2031-01-01")}

	_, err := e.Run(context.Background(), report, licenses)
	require.NoError(t, err)

	require.Len(t, events, 2)
	assert.Equal(t, 2, events[0].Row)
	assert.Equal(t, model.OutcomeAccepted, events[0].Outcome)
	assert.Equal(t, 3, events[1].Row)
	assert.Equal(t, model.OutcomeNoOrderMatch, events[1].Outcome)
}

func TestEngine_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	e := New(nil, WithToday(testToday))
	_, err := e.Run(ctx, []model.ReportRecord{rep("1", "A", "1", "01/01/2030")}, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEngine_Counts(t *testing.T) {
	report := []model.ReportRecord{
		rep("100", "X", "5", "01/01/2030"),
		rep("999", "X", "5", "01/01/2030"),
		rep("100", "X", "5", "01/01/2020"),
	}
	licenses := []model.LicenseRecord{lic("100", "X", "5", "2031-01-01")}

	e := New(nil, WithToday(testToday))
	result, err := e.Run(context.Background(), report, licenses)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Accepted())
	assert.Equal(t, 1, result.Count(model.OutcomeNoOrderMatch))
	assert.Equal(t, 1, result.Count(model.OutcomeExpiredAlready))
	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, PolicyExactRow, result.Policy)
}
