package loan

import "context"

// LoanRepository is the active-loan provider for payroll generation.
type LoanRepository interface {
	Create(ctx context.Context, l Loan) (Loan, error)
	GetByID(ctx context.Context, id string) (Loan, error)
	ListActiveByEmployee(ctx context.Context, employeeID string) ([]Loan, error)
	Update(ctx context.Context, l Loan) error
}
