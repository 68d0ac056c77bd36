package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/mitrakarya/workforce-backend-go/internal/domain/loan"
	"github.com/mitrakarya/workforce-backend-go/internal/pkg/database"
)

type loanRepository struct {
	db *database.DB
}

func NewLoanRepository(db *database.DB) loan.LoanRepository {
	return &loanRepository{db: db}
}

const loanColumns = `
	id, employee_id, amount, installments, installment_amount,
	remaining_installments, status, start_month, last_installment_month,
	created_at, updated_at
`

func scanLoan(row pgx.Row) (loan.Loan, error) {
	var l loan.Loan
	err := row.Scan(
		&l.ID, &l.EmployeeID, &l.Amount, &l.Installments, &l.InstallmentAmount,
		&l.RemainingInstallments, &l.Status, &l.StartMonth, &l.LastInstallmentMonth,
		&l.CreatedAt, &l.UpdatedAt,
	)
	return l, err
}

func (r *loanRepository) Create(ctx context.Context, l loan.Loan) (loan.Loan, error) {
	q := GetQuerier(ctx, r.db)

	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	now := time.Now()
	l.CreatedAt = now
	l.UpdatedAt = now

	query := `
		INSERT INTO loans (
			id, employee_id, amount, installments, installment_amount,
			remaining_installments, status, start_month, last_installment_month,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := q.Exec(ctx, query,
		l.ID, l.EmployeeID, l.Amount, l.Installments, l.InstallmentAmount,
		l.RemainingInstallments, l.Status, l.StartMonth, l.LastInstallmentMonth,
		l.CreatedAt, l.UpdatedAt,
	)
	if err != nil {
		return loan.Loan{}, fmt.Errorf("failed to create loan: %w", err)
	}
	return l, nil
}

func (r *loanRepository) GetByID(ctx context.Context, id string) (loan.Loan, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + loanColumns + ` FROM loans WHERE id = $1`

	l, err := scanLoan(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return loan.Loan{}, loan.ErrLoanNotFound
		}
		return loan.Loan{}, fmt.Errorf("failed to get loan: %w", err)
	}
	return l, nil
}

func (r *loanRepository) ListActiveByEmployee(ctx context.Context, employeeID string) ([]loan.Loan, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + loanColumns + `
		FROM loans
		WHERE employee_id = $1 AND status = $2
		ORDER BY created_at ASC`

	rows, err := q.Query(ctx, query, employeeID, loan.LoanStatusActive)
	if err != nil {
		return nil, fmt.Errorf("failed to list active loans: %w", err)
	}
	defer rows.Close()

	var out []loan.Loan
	for rows.Next() {
		l, err := scanLoan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan loan: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *loanRepository) Update(ctx context.Context, l loan.Loan) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE loans SET
			remaining_installments = $1,
			status = $2,
			last_installment_month = $3,
			updated_at = $4
		WHERE id = $5`

	tag, err := q.Exec(ctx, query, l.RemainingInstallments, l.Status, l.LastInstallmentMonth, time.Now(), l.ID)
	if err != nil {
		return fmt.Errorf("failed to update loan: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return loan.ErrLoanNotFound
	}
	return nil
}
