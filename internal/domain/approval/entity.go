package approval

import (
	"time"

	"github.com/shopspring/decimal"
)

// RequestType enum
type RequestType string

const (
	RequestTypeOvertime RequestType = "overtime"
	RequestTypeLeave    RequestType = "leave"
	RequestTypeLoan     RequestType = "loan"
)

// RequestStatus enum
type RequestStatus string

const (
	StatusPending    RequestStatus = "pending"
	StatusInProgress RequestStatus = "in_progress"
	StatusApproved   RequestStatus = "approved"
	StatusRejected   RequestStatus = "rejected"
	StatusCancelled  RequestStatus = "cancelled"
	StatusEscalated  RequestStatus = "escalated"
)

// IsTerminal reports whether no further action may touch the request.
func (s RequestStatus) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected || s == StatusCancelled
}

// StepStatus enum
type StepStatus string

const (
	StepPending  StepStatus = "pending"
	StepApproved StepStatus = "approved"
	StepRejected StepStatus = "rejected"
	StepSkipped  StepStatus = "skipped"
)

// Step is one approver snapshot in the chain. Identity fields are
// captured at request creation and never change with later org-chart
// edits. ActionedBy differs from ApproverID when a delegate acted.
type Step struct {
	Level         int        `json:"level"`
	ApproverID    string     `json:"approver_id"`
	ApproverName  string     `json:"approver_name"`
	Department    string     `json:"department"`
	ApproverLevel int        `json:"approver_level"`
	IsHRStep      bool       `json:"is_hr_step"`
	Status        StepStatus `json:"status"`
	Notes         string     `json:"notes,omitempty"`
	ActionedBy    string     `json:"actioned_by,omitempty"`
	ActionedAt    *time.Time `json:"actioned_at,omitempty"`
}

// HistoryEntry is one append-only line of the per-request trail.
type HistoryEntry struct {
	Action         string        `json:"action"`
	ActorID        string        `json:"actor_id"`
	ActorName      string        `json:"actor_name"`
	PreviousStatus RequestStatus `json:"previous_status"`
	NewStatus      RequestStatus `json:"new_status"`
	Notes          string        `json:"notes,omitempty"`
	Timestamp      time.Time     `json:"timestamp"`
}

// History actions.
const (
	ActionSubmitted     = "submitted"
	ActionAutoApproved  = "auto_approved"
	ActionStepApproved  = "step_approved"
	ActionStepRejected  = "step_rejected"
	ActionCancelled     = "cancelled"
	ActionAdminOverride = "admin_override"
	ActionEscalated     = "escalated"
)

// Request is a compensation-adjacent request moving through a
// sequential approval chain. The chain is immutable once created; only
// step statuses, CurrentStep, Status and History advance. Version
// backs the optimistic-concurrency update in the repository.
type Request struct {
	ID   string
	Type RequestType

	RequesterID         string
	RequesterName       string
	RequesterDepartment string
	RequesterLevel      int

	// Amount is the threshold-checked magnitude: leave days, overtime
	// hours or loan amount depending on Type.
	Amount decimal.Decimal
	Reason string

	// Type-specific payload.
	StartDate     *time.Time
	EndDate       *time.Time
	LeaveType     string
	AffectsSalary bool

	Chain       []Step
	CurrentStep int
	Status      RequestStatus
	History     []HistoryEntry

	Version   int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Delegation redirects one approver's action rights to another for a
// bounded period, scoped by request type. The original approver's
// identity stays on the chain for audit.
type Delegation struct {
	ID           string
	DelegatorID  string
	DelegateID   string
	DelegateName string
	RequestTypes []RequestType
	StartDate    time.Time
	EndDate      time.Time
	IsActive     bool
	CreatedAt    time.Time
}

// Covers reports whether the delegation applies to the given type at
// the given time.
func (d Delegation) Covers(t RequestType, at time.Time) bool {
	if !d.IsActive || at.Before(d.StartDate) || at.After(d.EndDate) {
		return false
	}
	for _, rt := range d.RequestTypes {
		if rt == t {
			return true
		}
	}
	return false
}
