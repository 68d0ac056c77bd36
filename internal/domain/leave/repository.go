package leave

import (
	"context"
	"time"
)

// LeaveRepository is the approved-leave provider for payroll
// generation.
type LeaveRepository interface {
	// ListApprovedOverlapping returns approved leave requests whose
	// window intersects [from, to].
	ListApprovedOverlapping(ctx context.Context, from, to time.Time) ([]LeaveRequest, error)

	Create(ctx context.Context, req LeaveRequest) (LeaveRequest, error)
	UpdateStatus(ctx context.Context, id string, status LeaveStatus) error
}
