package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/mitrakarya/workforce-backend-go/internal/domain/attendance"
)

type AttendanceRepository struct {
	mu      sync.RWMutex
	records []attendance.ProcessedAttendanceRecord
}

func NewAttendanceRepository() *AttendanceRepository {
	return &AttendanceRepository{}
}

func (r *AttendanceRepository) CreateBatch(_ context.Context, records []attendance.ProcessedAttendanceRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, records...)
	return nil
}

func (r *AttendanceRepository) ListByDateRange(_ context.Context, from, to time.Time) ([]attendance.ProcessedAttendanceRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []attendance.ProcessedAttendanceRecord
	for _, rec := range r.records {
		if !rec.WorkDate.Before(from) && !rec.WorkDate.After(to) {
			out = append(out, rec)
		}
	}
	sortRecords(out)
	return out, nil
}

func (r *AttendanceRepository) ListByEmployee(_ context.Context, employeeID string, from, to time.Time) ([]attendance.ProcessedAttendanceRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []attendance.ProcessedAttendanceRecord
	for _, rec := range r.records {
		if rec.EmployeeID == employeeID && !rec.WorkDate.Before(from) && !rec.WorkDate.After(to) {
			out = append(out, rec)
		}
	}
	sortRecords(out)
	return out, nil
}

func (r *AttendanceRepository) DeleteByBatchID(_ context.Context, batchID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.records[:0]
	for _, rec := range r.records {
		if rec.BatchID != batchID {
			kept = append(kept, rec)
		}
	}
	r.records = kept
	return nil
}

func sortRecords(records []attendance.ProcessedAttendanceRecord) {
	sort.Slice(records, func(i, j int) bool {
		if records[i].WorkDate.Equal(records[j].WorkDate) {
			return records[i].EmployeeID < records[j].EmployeeID
		}
		return records[i].WorkDate.Before(records[j].WorkDate)
	})
}
