package loan

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitrakarya/workforce-backend-go/internal/domain/loan"

	"github.com/mitrakarya/workforce-backend-go/internal/domain/employee"
	"github.com/mitrakarya/workforce-backend-go/internal/pkg/validator"
	"github.com/mitrakarya/workforce-backend-go/internal/repository/memory"
)

func loanFixture(t *testing.T) loan.LoanService {
	t.Helper()

	employeeRepo := memory.NewEmployeeRepository()
	employeeRepo.Seed(employee.Employee{
		ID:       "emp-1",
		Code:     "1001",
		Name:     "Budi",
		IsActive: true,
	})

	return NewLoanService(memory.NewLoanRepository(), employeeRepo)
}

func TestCreateLoan_InstallmentAmountRounded(t *testing.T) {
	t.Parallel()
	svc := loanFixture(t)

	resp, err := svc.Create(context.Background(), loan.CreateLoanRequest{
		EmployeeID:   "emp-1",
		Amount:       decimal.NewFromInt(1000),
		Installments: 3,
		StartMonth:   "2024-02",
	})
	require.NoError(t, err)

	assert.Equal(t, "1000.00", resp.Amount)
	assert.Equal(t, "333.33", resp.InstallmentAmount)
	assert.Equal(t, 3, resp.RemainingInstallments)
	assert.Equal(t, string(loan.LoanStatusActive), resp.Status)
	assert.Equal(t, "2024-02", resp.StartMonth)
}

func TestCreateLoan_Validation(t *testing.T) {
	t.Parallel()
	svc := loanFixture(t)

	_, err := svc.Create(context.Background(), loan.CreateLoanRequest{
		Amount:       decimal.Zero,
		Installments: 0,
		StartMonth:   "02-2024",
	})
	require.Error(t, err)

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	fields := verrs.ToMap()
	assert.Contains(t, fields, "employee_id")
	assert.Contains(t, fields, "amount")
	assert.Contains(t, fields, "installments")
	assert.Contains(t, fields, "start_month")
}

func TestCreateLoan_UnknownEmployee(t *testing.T) {
	t.Parallel()
	svc := loanFixture(t)

	_, err := svc.Create(context.Background(), loan.CreateLoanRequest{
		EmployeeID:   "ghost",
		Amount:       decimal.NewFromInt(500),
		Installments: 5,
		StartMonth:   "2024-01",
	})
	require.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestGetLoan_NotFound(t *testing.T) {
	t.Parallel()
	svc := loanFixture(t)

	_, err := svc.Get(context.Background(), "missing")
	require.ErrorIs(t, err, loan.ErrLoanNotFound)
}

func TestListLoansByEmployee(t *testing.T) {
	t.Parallel()
	svc := loanFixture(t)

	for i := 0; i < 2; i++ {
		_, err := svc.Create(context.Background(), loan.CreateLoanRequest{
			EmployeeID:   "emp-1",
			Amount:       decimal.NewFromInt(600),
			Installments: 6,
			StartMonth:   "2024-03",
		})
		require.NoError(t, err)
	}

	loans, err := svc.ListByEmployee(context.Background(), "emp-1")
	require.NoError(t, err)
	assert.Len(t, loans, 2)
	for _, l := range loans {
		assert.Equal(t, "100.00", l.InstallmentAmount)
	}
}
