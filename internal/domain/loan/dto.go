package loan

import (
	"github.com/shopspring/decimal"

	"github.com/mitrakarya/workforce-backend-go/internal/pkg/validator"
)

// CreateLoanRequest opens a salary advance repaid in equal monthly
// installments starting from StartMonth.
type CreateLoanRequest struct {
	EmployeeID   string          `json:"employee_id"`
	Amount       decimal.Decimal `json:"amount"`
	Installments int             `json:"installments"`
	StartMonth   string          `json:"start_month"`
}

func (r *CreateLoanRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if !r.Amount.IsPositive() {
		errs = append(errs, validator.ValidationError{
			Field:   "amount",
			Message: "amount must be greater than zero",
		})
	}

	if r.Installments <= 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "installments",
			Message: "installments must be greater than zero",
		})
	}

	if _, ok := validator.IsValidMonth(r.StartMonth); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "start_month",
			Message: "start_month must use YYYY-MM format",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// LoanResponse is the API view of a loan.
type LoanResponse struct {
	ID                    string `json:"id"`
	EmployeeID            string `json:"employee_id"`
	Amount                string `json:"amount"`
	Installments          int    `json:"installments"`
	InstallmentAmount     string `json:"installment_amount"`
	RemainingInstallments int    `json:"remaining_installments"`
	Status                string `json:"status"`
	StartMonth            string `json:"start_month"`
	CreatedAt             string `json:"created_at"`
	UpdatedAt             string `json:"updated_at"`
}
