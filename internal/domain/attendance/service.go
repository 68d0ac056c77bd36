package attendance

import (
	"context"
)

// AttendanceService defines business logic for attendance batch
// processing and queries.
type AttendanceService interface {
	// ProcessBatch parses a raw punch CSV, normalizes it into
	// per-employee-day records and persists them. Parse and per-day
	// errors are accumulated, never aborting the whole batch.
	ProcessBatch(ctx context.Context, req ProcessBatchRequest) (BatchResponse, error)

	// ListByEmployee retrieves processed records for one employee in a
	// date range.
	ListByEmployee(ctx context.Context, employeeID, from, to string) ([]RecordResponse, error)
}
