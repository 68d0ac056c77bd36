package loan

import "context"

// LoanService manages the loan lifecycle. Installment consumption is
// driven by payroll finalization, not by this service.
type LoanService interface {
	Create(ctx context.Context, req CreateLoanRequest) (LoanResponse, error)
	Get(ctx context.Context, id string) (LoanResponse, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]LoanResponse, error)
}
