package approval

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mitrakarya/workforce-backend-go/internal/pkg/validator"
)

// CreateRequest submits a new overtime/leave/loan request.
type CreateRequest struct {
	Type        string          `json:"type"`
	RequesterID string          `json:"requester_id"`
	Amount      decimal.Decimal `json:"amount"`
	Reason      string          `json:"reason"`
	StartDate   *string         `json:"start_date,omitempty"`
	EndDate     *string         `json:"end_date,omitempty"`

	// Leave requests only.
	LeaveType     string `json:"leave_type,omitempty"`
	AffectsSalary bool   `json:"affects_salary,omitempty"`
}

func (r *CreateRequest) Validate() error {
	var errs validator.ValidationErrors

	switch RequestType(r.Type) {
	case RequestTypeOvertime, RequestTypeLeave, RequestTypeLoan:
	default:
		errs = append(errs, validator.ValidationError{
			Field:   "type",
			Message: "type must be one of: overtime, leave, loan",
		})
	}

	if validator.IsEmpty(r.RequesterID) {
		errs = append(errs, validator.ValidationError{
			Field:   "requester_id",
			Message: "requester_id is required",
		})
	}

	if r.Amount.IsNegative() || r.Amount.IsZero() {
		errs = append(errs, validator.ValidationError{
			Field:   "amount",
			Message: "amount must be positive",
		})
	}

	if r.StartDate != nil {
		if _, ok := validator.IsValidDate(*r.StartDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date must be in YYYY-MM-DD format",
			})
		}
	}
	if r.EndDate != nil {
		if _, ok := validator.IsValidDate(*r.EndDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be in YYYY-MM-DD format",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ActionRequest carries an approve/reject decision on the current
// step.
type ActionRequest struct {
	RequestID string `json:"request_id"`
	Notes     string `json:"notes,omitempty"`
}

func (r *ActionRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.RequestID) {
		errs = append(errs, validator.ValidationError{
			Field:   "request_id",
			Message: "request_id is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// OverrideRequest force-completes or force-rejects a request.
type OverrideRequest struct {
	RequestID string `json:"request_id"`
	Approve   bool   `json:"approve"`
	Notes     string `json:"notes,omitempty"`
}

// CreateDelegationRequest redirects an approver's rights for a period.
type CreateDelegationRequest struct {
	DelegatorID  string   `json:"delegator_id"`
	DelegateID   string   `json:"delegate_id"`
	RequestTypes []string `json:"request_types"`
	StartDate    string   `json:"start_date"`
	EndDate      string   `json:"end_date"`
}

func (r *CreateDelegationRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.DelegatorID) {
		errs = append(errs, validator.ValidationError{
			Field:   "delegator_id",
			Message: "delegator_id is required",
		})
	}
	if validator.IsEmpty(r.DelegateID) {
		errs = append(errs, validator.ValidationError{
			Field:   "delegate_id",
			Message: "delegate_id is required",
		})
	}
	if len(r.RequestTypes) == 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "request_types",
			Message: "at least one request type is required",
		})
	}

	start, okStart := validator.IsValidDate(r.StartDate)
	if !okStart {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must be in YYYY-MM-DD format",
		})
	}
	end, okEnd := validator.IsValidDate(r.EndDate)
	if !okEnd {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must be in YYYY-MM-DD format",
		})
	}
	if okStart && okEnd && end.Before(start) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must not be before start_date",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// StepVM is the API view of one chain step.
type StepVM struct {
	Level        int     `json:"level"`
	ApproverID   string  `json:"approver_id"`
	ApproverName string  `json:"approver_name"`
	Department   string  `json:"department"`
	IsHRStep     bool    `json:"is_hr_step"`
	Status       string  `json:"status"`
	Notes        string  `json:"notes,omitempty"`
	ActionedBy   string  `json:"actioned_by,omitempty"`
	ActionedAt   *string `json:"actioned_at,omitempty"`
}

// RequestResponse is the API view of an approval request.
type RequestResponse struct {
	ID            string   `json:"id"`
	Type          string   `json:"type"`
	RequesterID   string   `json:"requester_id"`
	RequesterName string   `json:"requester_name"`
	Amount        string   `json:"amount"`
	Reason        string   `json:"reason,omitempty"`
	Status        string   `json:"status"`
	CurrentStep   int      `json:"current_step"`
	Chain         []StepVM `json:"chain"`
	CreatedAt     string   `json:"created_at"`
	UpdatedAt     string   `json:"updated_at"`
}

func parseDatePtr(s *string) *time.Time {
	if s == nil {
		return nil
	}
	t, err := time.Parse("2006-01-02", *s)
	if err != nil {
		return nil
	}
	return &t
}

// ParseDates resolves the optional date window of a CreateRequest.
func (r *CreateRequest) ParseDates() (start, end *time.Time) {
	return parseDatePtr(r.StartDate), parseDatePtr(r.EndDate)
}
