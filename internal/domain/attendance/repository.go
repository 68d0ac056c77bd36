package attendance

import (
	"context"
	"time"
)

// AttendanceRepository persists processed attendance records. Raw
// punches are not stored; the batch engine is pure and the caller
// persists its output here.
type AttendanceRepository interface {
	CreateBatch(ctx context.Context, records []ProcessedAttendanceRecord) error
	ListByDateRange(ctx context.Context, from, to time.Time) ([]ProcessedAttendanceRecord, error)
	ListByEmployee(ctx context.Context, employeeID string, from, to time.Time) ([]ProcessedAttendanceRecord, error)
	DeleteByBatchID(ctx context.Context, batchID string) error
}
