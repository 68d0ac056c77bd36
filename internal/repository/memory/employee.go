// Package memory provides in-memory repository implementations backing
// the service test suites and local development without PostgreSQL.
package memory

import (
	"context"
	"sync"

	"github.com/mitrakarya/workforce-backend-go/internal/domain/employee"
)

type EmployeeRepository struct {
	mu        sync.RWMutex
	employees map[string]employee.Employee
}

func NewEmployeeRepository() *EmployeeRepository {
	return &EmployeeRepository{employees: make(map[string]employee.Employee)}
}

// Seed inserts or replaces employees directly, bypassing validation.
func (r *EmployeeRepository) Seed(emps ...employee.Employee) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range emps {
		r.employees[e.ID] = e
	}
}

func (r *EmployeeRepository) GetByID(_ context.Context, id string) (employee.Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func (r *EmployeeRepository) ListActive(_ context.Context) ([]employee.Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []employee.Employee
	for _, e := range r.employees {
		if e.IsActive {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *EmployeeRepository) DeviceCodeMap(_ context.Context) (map[string]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m := make(map[string]string)
	for _, e := range r.employees {
		if e.IsActive && e.DeviceCode != "" {
			m[e.DeviceCode] = e.ID
		}
	}
	return m, nil
}
