package approval

import (
	"context"
	"time"
)

// ApprovalRepository persists requests and delegations.
//
// UpdateCAS is the concurrency guard for approval actions: it applies
// the update only if the stored Version equals expectedVersion,
// returning ErrStaleRequest otherwise. Callers must not retry a
// state-transition write; the conflict is reported to the caller.
type ApprovalRepository interface {
	Create(ctx context.Context, req Request) (Request, error)
	GetByID(ctx context.Context, id string) (Request, error)
	UpdateCAS(ctx context.Context, req Request, expectedVersion int) error
	ListByRequester(ctx context.Context, requesterID string) ([]Request, error)
	ListPendingForApprover(ctx context.Context, approverID string) ([]Request, error)

	CreateDelegation(ctx context.Context, d Delegation) (Delegation, error)
	// ActiveDelegation returns the delegation covering the approver for
	// the given type at the given instant, or ok=false.
	ActiveDelegation(ctx context.Context, delegatorID string, t RequestType, at time.Time) (Delegation, bool, error)
}
