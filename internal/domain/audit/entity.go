package audit

import (
	"time"
)

// Entry is one immutable audit-log record, written for every mutating
// action on a payroll month, payroll record or approval request. This
// is the org-wide trail; approval requests additionally keep their own
// per-request history and the two are never merged.
type Entry struct {
	ID         string
	EntityType string // "payroll_month", "payroll_record", "approval_request"
	EntityID   string
	Action     string
	ActorID    string
	ActorName  string
	Details    map[string]string
	CreatedAt  time.Time
}

// Entity types.
const (
	EntityPayrollMonth    = "payroll_month"
	EntityPayrollRecord   = "payroll_record"
	EntityApprovalRequest = "approval_request"
)
