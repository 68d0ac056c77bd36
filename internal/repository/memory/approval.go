package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mitrakarya/workforce-backend-go/internal/domain/approval"
)

type ApprovalRepository struct {
	mu          sync.RWMutex
	requests    map[string]approval.Request
	delegations map[string]approval.Delegation
}

func NewApprovalRepository() *ApprovalRepository {
	return &ApprovalRepository{
		requests:    make(map[string]approval.Request),
		delegations: make(map[string]approval.Delegation),
	}
}

func (r *ApprovalRepository) Create(_ context.Context, req approval.Request) (approval.Request, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	req.Version = 1
	req.CreatedAt = time.Now()
	req.UpdatedAt = req.CreatedAt
	r.requests[req.ID] = req
	return req, nil
}

func (r *ApprovalRepository) GetByID(_ context.Context, id string) (approval.Request, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	req, ok := r.requests[id]
	if !ok {
		return approval.Request{}, approval.ErrRequestNotFound
	}
	return req, nil
}

func (r *ApprovalRepository) UpdateCAS(_ context.Context, req approval.Request, expectedVersion int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.requests[req.ID]
	if !ok {
		return approval.ErrRequestNotFound
	}
	if stored.Version != expectedVersion {
		return approval.ErrStaleRequest
	}
	req.Version = expectedVersion + 1
	req.UpdatedAt = time.Now()
	r.requests[req.ID] = req
	return nil
}

func (r *ApprovalRepository) ListByRequester(_ context.Context, requesterID string) ([]approval.Request, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []approval.Request
	for _, req := range r.requests {
		if req.RequesterID == requesterID {
			out = append(out, req)
		}
	}
	return out, nil
}

func (r *ApprovalRepository) ListPendingForApprover(_ context.Context, approverID string) ([]approval.Request, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []approval.Request
	for _, req := range r.requests {
		if req.Status.IsTerminal() {
			continue
		}
		if req.CurrentStep < len(req.Chain) && req.Chain[req.CurrentStep].ApproverID == approverID {
			out = append(out, req)
		}
	}
	return out, nil
}

func (r *ApprovalRepository) CreateDelegation(_ context.Context, d approval.Delegation) (approval.Delegation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	d.CreatedAt = time.Now()
	r.delegations[d.ID] = d
	return d, nil
}

func (r *ApprovalRepository) ActiveDelegation(_ context.Context, delegatorID string, t approval.RequestType, at time.Time) (approval.Delegation, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, d := range r.delegations {
		if d.DelegatorID == delegatorID && d.Covers(t, at) {
			return d, true, nil
		}
	}
	return approval.Delegation{}, false, nil
}
