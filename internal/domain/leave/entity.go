package leave

import (
	"time"

	"github.com/shopspring/decimal"
)

type LeaveStatus string

const (
	LeaveStatusApproved  LeaveStatus = "approved"
	LeaveStatusRejected  LeaveStatus = "rejected"
	LeaveStatusCancelled LeaveStatus = "cancelled"
	LeaveStatusPending   LeaveStatus = "pending"
)

// LeaveRequest as the payroll engine sees it: an approved absence
// window. Approval itself runs through the approval workflow engine;
// this entity is its settled output.
type LeaveRequest struct {
	ID         string
	EmployeeID string
	LeaveType  string
	StartDate  time.Time
	EndDate    time.Time

	// AffectsSalary marks unpaid leave types whose days are deducted
	// from pay.
	AffectsSalary bool

	Status    LeaveStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DaysWithin counts the leave days that fall inside [from, to]
// inclusive. Dates are compared at day granularity.
func (l LeaveRequest) DaysWithin(from, to time.Time) decimal.Decimal {
	start := l.StartDate
	if start.Before(from) {
		start = from
	}
	end := l.EndDate
	if end.After(to) {
		end = to
	}
	if end.Before(start) {
		return decimal.Zero
	}
	days := int(end.Sub(start).Hours()/24) + 1
	return decimal.NewFromInt(int64(days))
}
