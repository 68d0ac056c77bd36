package approval

import "errors"

var (
	ErrRequestNotFound = errors.New("approval request not found")

	// State errors: wrong request/step state for the attempted action.
	ErrRequestTerminal = errors.New("request already reached a terminal status")
	ErrRequestRejected = errors.New("request was rejected at an earlier step")
	ErrStepNotPending  = errors.New("step is not pending")
	ErrStepOutOfOrder  = errors.New("earlier steps have not been approved yet")
	ErrCannotCancel    = errors.New("request cannot be cancelled from a terminal status")
	ErrEmptyChain      = errors.New("approval chain could not be constructed: no eligible approvers")

	// Authorization errors: actor not entitled to act on the step.
	ErrNotStepApprover = errors.New("actor is not the approver for this step")
	ErrNotRequester    = errors.New("only the requester may cancel the request")
	ErrNotAdmin        = errors.New("admin role required for override")

	ErrDelegationDisabled = errors.New("delegation is disabled in HR settings")

	// Concurrency: a stale read-modify-write was rejected.
	ErrStaleRequest = errors.New("approval request was modified concurrently, retry with fresh state")
)
