package loan

import (
	"context"
	"fmt"
	"time"

	"github.com/mitrakarya/workforce-backend-go/internal/domain/employee"
	"github.com/mitrakarya/workforce-backend-go/internal/domain/loan"
)

type LoanServiceImpl struct {
	loan.LoanRepository
	employee.EmployeeRepository
}

func NewLoanService(
	loanRepo loan.LoanRepository,
	employeeRepo employee.EmployeeRepository,
) loan.LoanService {
	return &LoanServiceImpl{
		LoanRepository:     loanRepo,
		EmployeeRepository: employeeRepo,
	}
}

func (s *LoanServiceImpl) Create(ctx context.Context, req loan.CreateLoanRequest) (loan.LoanResponse, error) {
	if err := req.Validate(); err != nil {
		return loan.LoanResponse{}, err
	}

	if _, err := s.EmployeeRepository.GetByID(ctx, req.EmployeeID); err != nil {
		return loan.LoanResponse{}, fmt.Errorf("failed to verify employee: %w", err)
	}

	l := loan.NewLoan(req.EmployeeID, req.Amount, req.Installments, req.StartMonth)

	created, err := s.LoanRepository.Create(ctx, l)
	if err != nil {
		return loan.LoanResponse{}, fmt.Errorf("failed to create loan: %w", err)
	}
	return toLoanResponse(created), nil
}

func (s *LoanServiceImpl) Get(ctx context.Context, id string) (loan.LoanResponse, error) {
	l, err := s.LoanRepository.GetByID(ctx, id)
	if err != nil {
		return loan.LoanResponse{}, err
	}
	return toLoanResponse(l), nil
}

func (s *LoanServiceImpl) ListByEmployee(ctx context.Context, employeeID string) ([]loan.LoanResponse, error) {
	if _, err := s.EmployeeRepository.GetByID(ctx, employeeID); err != nil {
		return nil, fmt.Errorf("failed to verify employee: %w", err)
	}

	loans, err := s.LoanRepository.ListActiveByEmployee(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list loans: %w", err)
	}

	out := make([]loan.LoanResponse, 0, len(loans))
	for _, l := range loans {
		out = append(out, toLoanResponse(l))
	}
	return out, nil
}

func toLoanResponse(l loan.Loan) loan.LoanResponse {
	return loan.LoanResponse{
		ID:                    l.ID,
		EmployeeID:            l.EmployeeID,
		Amount:                l.Amount.StringFixed(2),
		Installments:          l.Installments,
		InstallmentAmount:     l.InstallmentAmount.StringFixed(2),
		RemainingInstallments: l.RemainingInstallments,
		Status:                string(l.Status),
		StartMonth:            l.StartMonth,
		CreatedAt:             l.CreatedAt.Format(time.RFC3339),
		UpdatedAt:             l.UpdatedAt.Format(time.RFC3339),
	}
}
