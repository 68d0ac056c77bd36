package attendance

import (
	"github.com/mitrakarya/workforce-backend-go/internal/pkg/validator"
)

// ProcessBatchRequest carries a raw CSV upload from a biometric
// device export.
type ProcessBatchRequest struct {
	CSV     string `json:"csv"`
	ShiftID string `json:"shift_id"`
}

func (r *ProcessBatchRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.CSV) {
		errs = append(errs, validator.ValidationError{
			Field:   "csv",
			Message: "csv content is required",
		})
	}

	if validator.IsEmpty(r.ShiftID) {
		errs = append(errs, validator.ValidationError{
			Field:   "shift_id",
			Message: "shift_id is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// BatchResponse summarizes a processed batch for the caller.
type BatchResponse struct {
	BatchID       string       `json:"batch_id"`
	RecordCount   int          `json:"record_count"`
	ErrorCount    int          `json:"error_count"`
	Errors        []RowErrorVM `json:"errors,omitempty"`
	UnmappedCodes []string     `json:"unmapped_codes,omitempty"`
}

type RowErrorVM struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

// RecordResponse is the API view of one processed employee-day.
type RecordResponse struct {
	ID                string  `json:"id"`
	EmployeeID        string  `json:"employee_id"`
	WorkDate          string  `json:"work_date"`
	CheckIn           *string `json:"check_in"`
	CheckOut          *string `json:"check_out"`
	TotalMinutes      int     `json:"total_minutes"`
	LateMinutes       int     `json:"late_minutes"`
	EarlyLeaveMinutes int     `json:"early_leave_minutes"`
	IsAbsent          bool    `json:"is_absent"`
	IsIncomplete      bool    `json:"is_incomplete"`
	IsWeeklyOff       bool    `json:"is_weekly_off"`
	BatchID           string  `json:"batch_id"`
}
