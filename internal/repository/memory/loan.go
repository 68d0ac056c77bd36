package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mitrakarya/workforce-backend-go/internal/domain/loan"
)

type LoanRepository struct {
	mu    sync.RWMutex
	loans map[string]loan.Loan
}

func NewLoanRepository() *LoanRepository {
	return &LoanRepository{loans: make(map[string]loan.Loan)}
}

func (r *LoanRepository) Create(_ context.Context, l loan.Loan) (loan.Loan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	l.CreatedAt = time.Now()
	l.UpdatedAt = l.CreatedAt
	r.loans[l.ID] = l
	return l, nil
}

func (r *LoanRepository) GetByID(_ context.Context, id string) (loan.Loan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	l, ok := r.loans[id]
	if !ok {
		return loan.Loan{}, loan.ErrLoanNotFound
	}
	return l, nil
}

func (r *LoanRepository) ListActiveByEmployee(_ context.Context, employeeID string) ([]loan.Loan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []loan.Loan
	for _, l := range r.loans {
		if l.EmployeeID == employeeID && l.Status == loan.LoanStatusActive {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *LoanRepository) Update(_ context.Context, l loan.Loan) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.loans[l.ID]; !ok {
		return loan.ErrLoanNotFound
	}
	l.UpdatedAt = time.Now()
	r.loans[l.ID] = l
	return nil
}
