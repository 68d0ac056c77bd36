package approval

import (
	"context"
)

// Actor identifies the acting user for attribution and step matching.
type Actor struct {
	ID   string
	Name string
	Role string
}

// ApprovalService defines the request lifecycle. Every mutating action
// appends to the request's own history and writes a separate audit-log
// record; the two trails are never merged.
type ApprovalService interface {
	// Create submits a request. If an auto-approval threshold matches,
	// the chain is skipped entirely and the request is created already
	// approved with an auto_approved history action.
	Create(ctx context.Context, req CreateRequest, actor Actor) (RequestResponse, error)

	// Approve actions the current pending step. Steps are strictly
	// sequential: step k may be actioned only while every earlier step
	// is approved or skipped.
	Approve(ctx context.Context, req ActionRequest, actor Actor) (RequestResponse, error)

	// Reject actions the current pending step and terminates the
	// request; later steps can never act.
	Reject(ctx context.Context, req ActionRequest, actor Actor) (RequestResponse, error)

	// Cancel withdraws a non-terminal request. Requester only.
	Cancel(ctx context.Context, req ActionRequest, actor Actor) (RequestResponse, error)

	// AdminOverride force-completes remaining pending steps as approved
	// or forces rejection. Admin role required.
	AdminOverride(ctx context.Context, req OverrideRequest, actor Actor) (RequestResponse, error)

	// Escalate skips the current pending step past an unresponsive
	// approver and hands the request to the next one; skipping the last
	// step completes the request as approved. Admin role required.
	Escalate(ctx context.Context, req ActionRequest, actor Actor) (RequestResponse, error)

	// CreateDelegation installs a time-bounded redirection of approval
	// rights.
	CreateDelegation(ctx context.Context, req CreateDelegationRequest, actor Actor) (Delegation, error)

	Get(ctx context.Context, id string) (RequestResponse, error)
	ListByRequester(ctx context.Context, requesterID string) ([]RequestResponse, error)
	ListPendingForApprover(ctx context.Context, approverID string) ([]RequestResponse, error)
}
