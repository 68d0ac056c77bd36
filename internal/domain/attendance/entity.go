package attendance

import (
	"time"
)

// RawPunch is a single biometric device event, as parsed from a CSV
// upload. DeviceCode identifies the employee on the device, not in HR
// master data; mapping happens during batch processing.
type RawPunch struct {
	DeviceCode string
	PunchedAt  time.Time
}

// ProcessedAttendanceRecord is one employee-day of normalized
// attendance. Derived by the batch engine, never hand-edited.
type ProcessedAttendanceRecord struct {
	ID         string
	EmployeeID string
	WorkDate   time.Time // midnight, local

	CheckIn  *time.Time
	CheckOut *time.Time

	TotalMinutes      int
	LateMinutes       int
	EarlyLeaveMinutes int

	IsAbsent     bool
	IsIncomplete bool
	IsWeeklyOff  bool

	BatchID   string
	CreatedAt time.Time
}

// RowError records a single rejected input row. Invalid rows never
// abort a batch.
type RowError struct {
	Line    int
	Row     string
	Message string
}

// BatchResult is the pure output of ProcessBatch; persistence is the
// caller's responsibility.
type BatchResult struct {
	BatchID       string
	Records       []ProcessedAttendanceRecord
	Errors        []RowError
	UnmappedCodes []string
	ProcessedAt   time.Time
}
