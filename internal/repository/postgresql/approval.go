package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/mitrakarya/workforce-backend-go/internal/domain/approval"
	"github.com/mitrakarya/workforce-backend-go/internal/pkg/database"
)

type approvalRepository struct {
	db *database.DB
}

func NewApprovalRepository(db *database.DB) approval.ApprovalRepository {
	return &approvalRepository{db: db}
}

const approvalRequestColumns = `
	id, type, requester_id, requester_name, requester_department,
	requester_level, amount, reason, start_date, end_date, leave_type,
	affects_salary, chain, current_step, status, history, version,
	created_at, updated_at
`

func scanApprovalRequest(row pgx.Row) (approval.Request, error) {
	var r approval.Request
	var chain, history []byte
	err := row.Scan(
		&r.ID, &r.Type, &r.RequesterID, &r.RequesterName, &r.RequesterDepartment,
		&r.RequesterLevel, &r.Amount, &r.Reason, &r.StartDate, &r.EndDate, &r.LeaveType,
		&r.AffectsSalary, &chain, &r.CurrentStep, &r.Status, &history, &r.Version,
		&r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return approval.Request{}, err
	}
	if err := json.Unmarshal(chain, &r.Chain); err != nil {
		return approval.Request{}, fmt.Errorf("failed to decode approval chain: %w", err)
	}
	if err := json.Unmarshal(history, &r.History); err != nil {
		return approval.Request{}, fmt.Errorf("failed to decode approval history: %w", err)
	}
	return r, nil
}

func (r *approvalRepository) Create(ctx context.Context, req approval.Request) (approval.Request, error) {
	q := GetQuerier(ctx, r.db)

	if req.ID == "" {
		req.ID = uuid.New().String()
	}
	now := time.Now()
	req.Version = 1
	req.CreatedAt = now
	req.UpdatedAt = now

	chain, err := json.Marshal(req.Chain)
	if err != nil {
		return approval.Request{}, fmt.Errorf("failed to encode approval chain: %w", err)
	}
	history, err := json.Marshal(req.History)
	if err != nil {
		return approval.Request{}, fmt.Errorf("failed to encode approval history: %w", err)
	}

	query := `
		INSERT INTO approval_requests (
			id, type, requester_id, requester_name, requester_department,
			requester_level, amount, reason, start_date, end_date, leave_type,
			affects_salary, chain, current_step, status, history, version,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
			$16, $17, $18, $19
		)`

	_, err = q.Exec(ctx, query,
		req.ID, req.Type, req.RequesterID, req.RequesterName, req.RequesterDepartment,
		req.RequesterLevel, req.Amount, req.Reason, req.StartDate, req.EndDate, req.LeaveType,
		req.AffectsSalary, chain, req.CurrentStep, req.Status, history, req.Version,
		req.CreatedAt, req.UpdatedAt,
	)
	if err != nil {
		return approval.Request{}, fmt.Errorf("failed to create approval request: %w", err)
	}
	return req, nil
}

func (r *approvalRepository) GetByID(ctx context.Context, id string) (approval.Request, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + approvalRequestColumns + ` FROM approval_requests WHERE id = $1`

	req, err := scanApprovalRequest(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return approval.Request{}, approval.ErrRequestNotFound
		}
		return approval.Request{}, fmt.Errorf("failed to get approval request: %w", err)
	}
	return req, nil
}

// UpdateCAS persists the request only when the stored version still
// matches expectedVersion. A zero-row update means a concurrent writer
// won; the caller surfaces that as a conflict, never retries.
func (r *approvalRepository) UpdateCAS(ctx context.Context, req approval.Request, expectedVersion int) error {
	q := GetQuerier(ctx, r.db)

	chain, err := json.Marshal(req.Chain)
	if err != nil {
		return fmt.Errorf("failed to encode approval chain: %w", err)
	}
	history, err := json.Marshal(req.History)
	if err != nil {
		return fmt.Errorf("failed to encode approval history: %w", err)
	}

	query := `
		UPDATE approval_requests SET
			chain = $1,
			current_step = $2,
			status = $3,
			history = $4,
			version = version + 1,
			updated_at = $5
		WHERE id = $6 AND version = $7`

	tag, err := q.Exec(ctx, query,
		chain, req.CurrentStep, req.Status, history, time.Now(), req.ID, expectedVersion,
	)
	if err != nil {
		return fmt.Errorf("failed to update approval request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return approval.ErrStaleRequest
	}
	return nil
}

func (r *approvalRepository) ListByRequester(ctx context.Context, requesterID string) ([]approval.Request, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + approvalRequestColumns + `
		FROM approval_requests
		WHERE requester_id = $1
		ORDER BY created_at DESC`

	rows, err := q.Query(ctx, query, requesterID)
	if err != nil {
		return nil, fmt.Errorf("failed to list requests by requester: %w", err)
	}
	defer rows.Close()

	return collectApprovalRequests(rows)
}

func (r *approvalRepository) ListPendingForApprover(ctx context.Context, approverID string) ([]approval.Request, error) {
	q := GetQuerier(ctx, r.db)

	// The current step's approver lives inside the chain JSON document.
	query := `SELECT ` + approvalRequestColumns + `
		FROM approval_requests
		WHERE status IN ($1, $2, $3)
		  AND chain -> current_step ->> 'approver_id' = $4
		ORDER BY created_at ASC`

	rows, err := q.Query(ctx, query, approval.StatusPending, approval.StatusInProgress, approval.StatusEscalated, approverID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending requests: %w", err)
	}
	defer rows.Close()

	return collectApprovalRequests(rows)
}

func (r *approvalRepository) CreateDelegation(ctx context.Context, d approval.Delegation) (approval.Delegation, error) {
	q := GetQuerier(ctx, r.db)

	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	d.CreatedAt = time.Now()

	types, err := json.Marshal(d.RequestTypes)
	if err != nil {
		return approval.Delegation{}, fmt.Errorf("failed to encode delegation types: %w", err)
	}

	query := `
		INSERT INTO approval_delegations (
			id, delegator_id, delegate_id, delegate_name, request_types,
			start_date, end_date, is_active, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err = q.Exec(ctx, query,
		d.ID, d.DelegatorID, d.DelegateID, d.DelegateName, types,
		d.StartDate, d.EndDate, d.IsActive, d.CreatedAt,
	)
	if err != nil {
		return approval.Delegation{}, fmt.Errorf("failed to create delegation: %w", err)
	}
	return d, nil
}

func (r *approvalRepository) ActiveDelegation(ctx context.Context, delegatorID string, t approval.RequestType, at time.Time) (approval.Delegation, bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, delegator_id, delegate_id, delegate_name, request_types,
		       start_date, end_date, is_active, created_at
		FROM approval_delegations
		WHERE delegator_id = $1 AND is_active = TRUE
		  AND start_date <= $2 AND end_date >= $2
		ORDER BY created_at DESC`

	rows, err := q.Query(ctx, query, delegatorID, at)
	if err != nil {
		return approval.Delegation{}, false, fmt.Errorf("failed to query delegations: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var d approval.Delegation
		var types []byte
		err := rows.Scan(
			&d.ID, &d.DelegatorID, &d.DelegateID, &d.DelegateName, &types,
			&d.StartDate, &d.EndDate, &d.IsActive, &d.CreatedAt,
		)
		if err != nil {
			return approval.Delegation{}, false, fmt.Errorf("failed to scan delegation: %w", err)
		}
		if err := json.Unmarshal(types, &d.RequestTypes); err != nil {
			return approval.Delegation{}, false, fmt.Errorf("failed to decode delegation types: %w", err)
		}
		if d.Covers(t, at) {
			return d, true, nil
		}
	}
	return approval.Delegation{}, false, rows.Err()
}

func collectApprovalRequests(rows pgx.Rows) ([]approval.Request, error) {
	var out []approval.Request
	for rows.Next() {
		req, err := scanApprovalRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan approval request: %w", err)
		}
		out = append(out, req)
	}
	return out, rows.Err()
}
