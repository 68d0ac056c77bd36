package payroll

import (
	"time"

	"github.com/mitrakarya/workforce-backend-go/internal/pkg/validator"
)

// GeneratePayrollRequest starts or re-runs draft generation for a
// month.
type GeneratePayrollRequest struct {
	Month       string   `json:"month"` // "2006-01"
	EmployeeIDs []string `json:"employee_ids,omitempty"`
	BatchSize   int      `json:"batch_size,omitempty"`
}

func (r *GeneratePayrollRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Month) {
		errs = append(errs, validator.ValidationError{
			Field:   "month",
			Message: "month is required",
		})
	} else if _, err := time.Parse("2006-01", r.Month); err != nil {
		errs = append(errs, validator.ValidationError{
			Field:   "month",
			Message: "month must be in YYYY-MM format",
		})
	}

	if r.BatchSize < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "batch_size",
			Message: "batch_size must not be negative",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// MonthResponse is the API view of a payroll month.
type MonthResponse struct {
	ID              string `json:"id"`
	Month           string `json:"month"`
	Status          string `json:"status"`
	TotalGross      string `json:"total_gross"`
	TotalDeductions string `json:"total_deductions"`
	TotalNet        string `json:"total_net"`
	EmployeeCount   int    `json:"employee_count"`
	SnapshotVersion string `json:"snapshot_version,omitempty"`
	GeneratedBy     string `json:"generated_by"`
	GeneratedAt     string `json:"generated_at"`
}

// RecordResponse is the API view of one employee's payroll record.
type RecordResponse struct {
	ID                   string `json:"id"`
	EmployeeID           string `json:"employee_id"`
	Month                string `json:"month"`
	EmploymentType       string `json:"employment_type"`
	WorkingDays          int    `json:"working_days"`
	PresentDays          int    `json:"present_days"`
	AbsentDays           int    `json:"absent_days"`
	LateDays             int    `json:"late_days"`
	OvertimeHours        string `json:"overtime_hours"`
	BaseSalary           string `json:"base_salary"`
	OvertimePay          string `json:"overtime_pay"`
	Allowances           string `json:"allowances"`
	GrossSalary          string `json:"gross_salary"`
	AbsenceDeduction     string `json:"absence_deduction"`
	LatePenalty          string `json:"late_penalty"`
	OtherPenalties       string `json:"other_penalties"`
	LoanDeduction        string `json:"loan_deduction"`
	TransportDeduction   string `json:"transport_deduction"`
	UnpaidLeaveDeduction string `json:"unpaid_leave_deduction"`
	TotalDeductions      string `json:"total_deductions"`
	NetSalary            string `json:"net_salary"`
	IsLocked             bool   `json:"is_locked"`
	SnapshotVersion      string `json:"snapshot_version,omitempty"`
}

// CostSummaryResponse is the API view of one cost aggregation row.
type CostSummaryResponse struct {
	Department     string `json:"department"`
	CostCenter     string `json:"cost_center"`
	ProductionLine string `json:"production_line"`
	TotalGross     string `json:"total_gross"`
	TotalNet       string `json:"total_net"`
	EmployeeCount  int    `json:"employee_count"`
}
