package memory

import (
	"context"
	"sync"

	"github.com/mitrakarya/workforce-backend-go/internal/domain/shift"
)

type ShiftRepository struct {
	mu     sync.RWMutex
	shifts map[string]shift.Shift
}

func NewShiftRepository() *ShiftRepository {
	return &ShiftRepository{shifts: make(map[string]shift.Shift)}
}

func (r *ShiftRepository) Seed(shifts ...shift.Shift) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range shifts {
		r.shifts[s.ID] = s
	}
}

func (r *ShiftRepository) GetByID(_ context.Context, id string) (shift.Shift, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.shifts[id]
	if !ok {
		return shift.Shift{}, shift.ErrShiftNotFound
	}
	return s, nil
}

func (r *ShiftRepository) ListActive(_ context.Context) ([]shift.Shift, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []shift.Shift
	for _, s := range r.shifts {
		if s.IsActive {
			out = append(out, s)
		}
	}
	return out, nil
}
