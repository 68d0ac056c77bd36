package response

import (
	"errors"
	"net/http"

	"github.com/mitrakarya/workforce-backend-go/internal/domain/approval"
	"github.com/mitrakarya/workforce-backend-go/internal/domain/attendance"
	"github.com/mitrakarya/workforce-backend-go/internal/domain/employee"
	"github.com/mitrakarya/workforce-backend-go/internal/domain/hrconfig"
	"github.com/mitrakarya/workforce-backend-go/internal/domain/leave"
	"github.com/mitrakarya/workforce-backend-go/internal/domain/loan"
	"github.com/mitrakarya/workforce-backend-go/internal/domain/payroll"
	"github.com/mitrakarya/workforce-backend-go/internal/domain/shift"
	"github.com/mitrakarya/workforce-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Employee / shift / config
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, shift.ErrShiftNotFound):
		NotFound(w, "Shift not found")
	case errors.Is(err, hrconfig.ErrSettingsNotFound):
		NotFound(w, "HR settings not found")

	// Attendance
	case errors.Is(err, attendance.ErrEmptyBatch):
		BadRequest(w, "Batch contains no valid punch rows", nil)

	// Payroll
	case errors.Is(err, payroll.ErrMonthNotFound):
		NotFound(w, "Payroll month not found")
	case errors.Is(err, payroll.ErrRecordNotFound):
		NotFound(w, "Payroll record not found")
	case errors.Is(err, payroll.ErrInvalidMonth):
		BadRequest(w, "Month must use YYYY-MM format", nil)
	case errors.Is(err, payroll.ErrMonthFinalized):
		Conflict(w, "Payroll month is finalized and cannot be recalculated")
	case errors.Is(err, payroll.ErrMonthLocked):
		Conflict(w, "Payroll month is locked")
	case errors.Is(err, payroll.ErrMonthNotDraft):
		Conflict(w, "Payroll month is not in draft status")
	case errors.Is(err, payroll.ErrMonthNotFinalized):
		Conflict(w, "Payroll month must be finalized before locking")
	case errors.Is(err, payroll.ErrMonthAlreadyLocked):
		Conflict(w, "Payroll month is already locked")
	case errors.Is(err, payroll.ErrNoEmployees):
		BadRequest(w, "No employees to process", nil)

	// Leave / loan
	case errors.Is(err, leave.ErrLeaveRequestNotFound):
		NotFound(w, "Leave request not found")
	case errors.Is(err, loan.ErrLoanNotFound):
		NotFound(w, "Loan not found")
	case errors.Is(err, loan.ErrLoanClosed):
		Conflict(w, "Loan is already closed")

	// Approval workflow
	case errors.Is(err, approval.ErrRequestNotFound):
		NotFound(w, "Approval request not found")
	case errors.Is(err, approval.ErrRequestTerminal):
		Conflict(w, "Approval request is already settled")
	case errors.Is(err, approval.ErrRequestRejected):
		Conflict(w, "Approval request was rejected")
	case errors.Is(err, approval.ErrStepNotPending):
		Conflict(w, "Current approval step is not pending")
	case errors.Is(err, approval.ErrStepOutOfOrder):
		Conflict(w, "Approval steps must be actioned in order")
	case errors.Is(err, approval.ErrCannotCancel):
		Conflict(w, "Approval request can no longer be cancelled")
	case errors.Is(err, approval.ErrEmptyChain):
		BadRequest(w, "No approvers available for this request", nil)
	case errors.Is(err, approval.ErrNotStepApprover):
		Forbidden(w, "Not the approver for the current step")
	case errors.Is(err, approval.ErrNotRequester):
		Forbidden(w, "Only the requester may cancel")
	case errors.Is(err, approval.ErrNotAdmin):
		Forbidden(w, "Admin role required")
	case errors.Is(err, approval.ErrDelegationDisabled):
		Forbidden(w, "Delegation is disabled")
	case errors.Is(err, approval.ErrStaleRequest):
		Conflict(w, "Request was modified concurrently, reload and retry")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
