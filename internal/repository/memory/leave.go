package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mitrakarya/workforce-backend-go/internal/domain/leave"
)

type LeaveRepository struct {
	mu     sync.RWMutex
	leaves map[string]leave.LeaveRequest
}

func NewLeaveRepository() *LeaveRepository {
	return &LeaveRepository{leaves: make(map[string]leave.LeaveRequest)}
}

func (r *LeaveRepository) Create(_ context.Context, req leave.LeaveRequest) (leave.LeaveRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	req.CreatedAt = time.Now()
	req.UpdatedAt = req.CreatedAt
	r.leaves[req.ID] = req
	return req, nil
}

func (r *LeaveRepository) UpdateStatus(_ context.Context, id string, status leave.LeaveStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.leaves[id]
	if !ok {
		return leave.ErrLeaveRequestNotFound
	}
	l.Status = status
	l.UpdatedAt = time.Now()
	r.leaves[id] = l
	return nil
}

func (r *LeaveRepository) ListApprovedOverlapping(_ context.Context, from, to time.Time) ([]leave.LeaveRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []leave.LeaveRequest
	for _, l := range r.leaves {
		if l.Status != leave.LeaveStatusApproved {
			continue
		}
		if l.EndDate.Before(from) || l.StartDate.After(to) {
			continue
		}
		out = append(out, l)
	}
	return out, nil
}
