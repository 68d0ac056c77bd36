package payroll

import (
	"context"
)

// Actor identifies the acting user for attribution. The core never
// authenticates; the host resolves this from its identity layer.
type Actor struct {
	ID   string
	Name string
	Role string
}

// PayrollService defines the generation, finalization and lock
// operations on a payroll month.
type PayrollService interface {
	// Generate creates (or, while the month is draft, fully replaces)
	// the draft payroll records for a month.
	Generate(ctx context.Context, req GeneratePayrollRequest, actor Actor) (MonthResponse, error)

	// Finalize freezes a draft month: captures the rule snapshot,
	// stamps and locks every record, aggregates cost summaries.
	Finalize(ctx context.Context, month string, actor Actor) (MonthResponse, error)

	// Lock permanently freezes a finalized month.
	Lock(ctx context.Context, month string, actor Actor) (MonthResponse, error)

	GetMonth(ctx context.Context, month string) (MonthResponse, error)
	ListRecords(ctx context.Context, month string) ([]RecordResponse, error)
	ListCostSummaries(ctx context.Context, month string) ([]CostSummaryResponse, error)
}
