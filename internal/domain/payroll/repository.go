package payroll

import "context"

// PayrollRepository persists months, records and cost summaries. The
// generator writes records in bounded chunks; CreateRecords receives
// one chunk per call.
type PayrollRepository interface {
	// Months
	GetMonth(ctx context.Context, month string) (PayrollMonth, error)
	CreateMonth(ctx context.Context, m PayrollMonth) (PayrollMonth, error)
	UpdateMonth(ctx context.Context, m PayrollMonth) error

	// Records
	CreateRecords(ctx context.Context, records []PayrollRecord) error
	ListRecordsByMonth(ctx context.Context, monthID string) ([]PayrollRecord, error)
	DeleteRecordsByMonth(ctx context.Context, monthID string) error

	// LockRecords stamps the snapshot version and isLocked flag on the
	// given record ids. Used in bounded chunks by finalize and lock.
	LockRecords(ctx context.Context, recordIDs []string, snapshotVersion string) error

	// Cost summaries
	CreateCostSummaries(ctx context.Context, summaries []CostSummary) error
	ListCostSummariesByMonth(ctx context.Context, monthID string) ([]CostSummary, error)
}
