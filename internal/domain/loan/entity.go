package loan

import (
	"time"

	"github.com/shopspring/decimal"
)

type LoanStatus string

const (
	LoanStatusActive LoanStatus = "active"
	LoanStatusClosed LoanStatus = "closed"
)

// Loan is an employee salary advance repaid in equal monthly
// installments deducted during payroll generation.
type Loan struct {
	ID                    string
	EmployeeID            string
	Amount                decimal.Decimal
	Installments          int
	InstallmentAmount     decimal.Decimal
	RemainingInstallments int
	Status                LoanStatus
	StartMonth            string // "2006-01"
	// LastInstallmentMonth is the latest payroll month that consumed an
	// installment. Re-finalizing the same month is a no-op on the loan.
	LastInstallmentMonth string
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// NewLoan builds a loan with the per-installment amount rounded to 2
// decimals.
func NewLoan(employeeID string, amount decimal.Decimal, installments int, startMonth string) Loan {
	installment := decimal.Zero
	if installments > 0 {
		installment = amount.Div(decimal.NewFromInt(int64(installments))).Round(2)
	}
	return Loan{
		EmployeeID:            employeeID,
		Amount:                amount,
		Installments:          installments,
		InstallmentAmount:     installment,
		RemainingInstallments: installments,
		Status:                LoanStatusActive,
		StartMonth:            startMonth,
	}
}

// ProcessInstallment consumes one installment. The loan closes when
// the last installment is taken; further calls are no-ops returning a
// zero deduction.
func (l *Loan) ProcessInstallment() decimal.Decimal {
	if l.Status != LoanStatusActive || l.RemainingInstallments <= 0 {
		return decimal.Zero
	}
	l.RemainingInstallments--
	if l.RemainingInstallments == 0 {
		l.Status = LoanStatusClosed
	}
	return l.InstallmentAmount
}
