package approval

import (
	"context"
	"fmt"
	"time"

	"github.com/mitrakarya/workforce-backend-go/internal/domain/approval"
	"github.com/mitrakarya/workforce-backend-go/internal/domain/audit"
	"github.com/mitrakarya/workforce-backend-go/internal/domain/employee"
	"github.com/mitrakarya/workforce-backend-go/internal/domain/hrconfig"
	"github.com/mitrakarya/workforce-backend-go/internal/domain/leave"
	"github.com/mitrakarya/workforce-backend-go/internal/pkg/validator"
)

const adminRole = "admin"

type ApprovalServiceImpl struct {
	approval.ApprovalRepository
	employee.EmployeeRepository
	hrconfig.ConfigRepository
	leaveRepo leave.LeaveRepository
	auditRepo audit.AuditRepository
}

func NewApprovalService(
	approvalRepo approval.ApprovalRepository,
	employeeRepo employee.EmployeeRepository,
	configRepo hrconfig.ConfigRepository,
	leaveRepo leave.LeaveRepository,
	auditRepo audit.AuditRepository,
) approval.ApprovalService {
	return &ApprovalServiceImpl{
		ApprovalRepository: approvalRepo,
		EmployeeRepository: employeeRepo,
		ConfigRepository:   configRepo,
		leaveRepo:          leaveRepo,
		auditRepo:          auditRepo,
	}
}

// Create implements approval.ApprovalService.
func (s *ApprovalServiceImpl) Create(ctx context.Context, req approval.CreateRequest, actor approval.Actor) (approval.RequestResponse, error) {
	if err := req.Validate(); err != nil {
		return approval.RequestResponse{}, err
	}

	requester, err := s.EmployeeRepository.GetByID(ctx, req.RequesterID)
	if err != nil {
		return approval.RequestResponse{}, err
	}
	settings, err := s.ConfigRepository.GetSettings(ctx)
	if err != nil {
		return approval.RequestResponse{}, fmt.Errorf("failed to get settings: %w", err)
	}

	start, end := req.ParseDates()
	now := time.Now()

	r := approval.Request{
		Type:                approval.RequestType(req.Type),
		RequesterID:         requester.ID,
		RequesterName:       requester.Name,
		RequesterDepartment: requester.Department,
		RequesterLevel:      requester.Level,
		Amount:              req.Amount,
		Reason:              req.Reason,
		StartDate:           start,
		EndDate:             end,
		LeaveType:           req.LeaveType,
		AffectsSalary:       req.AffectsSalary,
	}

	action := approval.ActionSubmitted
	if autoApproveMatches(settings, r.Type, r.Amount) {
		// Threshold matched: the chain is skipped entirely.
		action = approval.ActionAutoApproved
		r.Status = approval.StatusApproved
		r.History = append(r.History, approval.HistoryEntry{
			Action:         approval.ActionAutoApproved,
			ActorID:        actor.ID,
			ActorName:      actor.Name,
			PreviousStatus: approval.StatusPending,
			NewStatus:      approval.StatusApproved,
			Timestamp:      now,
		})
	} else {
		chain, err := s.buildChain(ctx, requester, settings)
		if err != nil {
			return approval.RequestResponse{}, err
		}
		r.Chain = chain
		r.Status = approval.StatusPending
		r.History = append(r.History, approval.HistoryEntry{
			Action:         approval.ActionSubmitted,
			ActorID:        actor.ID,
			ActorName:      actor.Name,
			PreviousStatus: approval.StatusPending,
			NewStatus:      approval.StatusPending,
			Timestamp:      now,
		})
	}

	created, err := s.ApprovalRepository.Create(ctx, r)
	if err != nil {
		return approval.RequestResponse{}, fmt.Errorf("failed to create approval request: %w", err)
	}

	if created.Status == approval.StatusApproved {
		if err := s.settleApproved(ctx, created); err != nil {
			return approval.RequestResponse{}, err
		}
	}

	if err := s.writeAudit(ctx, created.ID, action, actor, map[string]string{
		"type":   string(created.Type),
		"amount": created.Amount.String(),
	}); err != nil {
		return approval.RequestResponse{}, err
	}

	return toRequestResponse(created), nil
}

// Approve implements approval.ApprovalService.
func (s *ApprovalServiceImpl) Approve(ctx context.Context, req approval.ActionRequest, actor approval.Actor) (approval.RequestResponse, error) {
	return s.act(ctx, req, actor, true)
}

// Reject implements approval.ApprovalService.
func (s *ApprovalServiceImpl) Reject(ctx context.Context, req approval.ActionRequest, actor approval.Actor) (approval.RequestResponse, error) {
	return s.act(ctx, req, actor, false)
}

// act applies one step decision under the sequential-approval
// invariant. The final write is version-checked; a concurrent update
// surfaces as ErrStaleRequest and is never retried.
func (s *ApprovalServiceImpl) act(ctx context.Context, req approval.ActionRequest, actor approval.Actor, approve bool) (approval.RequestResponse, error) {
	if err := req.Validate(); err != nil {
		return approval.RequestResponse{}, err
	}

	r, err := s.ApprovalRepository.GetByID(ctx, req.RequestID)
	if err != nil {
		return approval.RequestResponse{}, err
	}

	if r.Status.IsTerminal() {
		if r.Status == approval.StatusRejected {
			return approval.RequestResponse{}, approval.ErrRequestRejected
		}
		return approval.RequestResponse{}, approval.ErrRequestTerminal
	}
	if r.CurrentStep >= len(r.Chain) {
		return approval.RequestResponse{}, approval.ErrStepNotPending
	}
	for i := 0; i < r.CurrentStep; i++ {
		if st := r.Chain[i].Status; st != approval.StepApproved && st != approval.StepSkipped {
			return approval.RequestResponse{}, approval.ErrStepOutOfOrder
		}
	}

	step := &r.Chain[r.CurrentStep]
	if step.Status != approval.StepPending {
		return approval.RequestResponse{}, approval.ErrStepNotPending
	}

	if err := s.authorizeStep(ctx, r, *step, actor); err != nil {
		return approval.RequestResponse{}, err
	}

	now := time.Now()
	prev := r.Status
	step.Notes = req.Notes
	step.ActionedBy = actor.ID
	step.ActionedAt = &now

	var action string
	if approve {
		step.Status = approval.StepApproved
		r.CurrentStep++
		if r.CurrentStep >= len(r.Chain) {
			r.Status = approval.StatusApproved
		} else {
			r.Status = approval.StatusInProgress
		}
		action = approval.ActionStepApproved
	} else {
		step.Status = approval.StepRejected
		r.Status = approval.StatusRejected
		action = approval.ActionStepRejected
	}

	r.History = append(r.History, approval.HistoryEntry{
		Action:         action,
		ActorID:        actor.ID,
		ActorName:      actor.Name,
		PreviousStatus: prev,
		NewStatus:      r.Status,
		Notes:          req.Notes,
		Timestamp:      now,
	})

	if err := s.ApprovalRepository.UpdateCAS(ctx, r, r.Version); err != nil {
		return approval.RequestResponse{}, err
	}

	if r.Status == approval.StatusApproved {
		if err := s.settleApproved(ctx, r); err != nil {
			return approval.RequestResponse{}, err
		}
	}

	if err := s.writeAudit(ctx, r.ID, action, actor, map[string]string{
		"step":     fmt.Sprintf("%d", step.Level),
		"approver": step.ApproverID,
	}); err != nil {
		return approval.RequestResponse{}, err
	}

	return toRequestResponse(r), nil
}

// authorizeStep checks that the actor is the step's approver or, when
// delegation is enabled, holds an active delegation from them. The
// original approver identity stays on the chain either way.
func (s *ApprovalServiceImpl) authorizeStep(ctx context.Context, r approval.Request, step approval.Step, actor approval.Actor) error {
	if actor.ID == step.ApproverID {
		return nil
	}

	settings, err := s.ConfigRepository.GetSettings(ctx)
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	if settings.DelegationEnabled {
		d, ok, err := s.ApprovalRepository.ActiveDelegation(ctx, step.ApproverID, r.Type, time.Now())
		if err != nil {
			return fmt.Errorf("failed to resolve delegation: %w", err)
		}
		if ok && d.DelegateID == actor.ID {
			return nil
		}
	}
	return approval.ErrNotStepApprover
}

// Cancel implements approval.ApprovalService.
func (s *ApprovalServiceImpl) Cancel(ctx context.Context, req approval.ActionRequest, actor approval.Actor) (approval.RequestResponse, error) {
	if err := req.Validate(); err != nil {
		return approval.RequestResponse{}, err
	}

	r, err := s.ApprovalRepository.GetByID(ctx, req.RequestID)
	if err != nil {
		return approval.RequestResponse{}, err
	}
	if actor.ID != r.RequesterID {
		return approval.RequestResponse{}, approval.ErrNotRequester
	}
	if r.Status.IsTerminal() {
		return approval.RequestResponse{}, approval.ErrCannotCancel
	}

	now := time.Now()
	prev := r.Status
	r.Status = approval.StatusCancelled
	r.History = append(r.History, approval.HistoryEntry{
		Action:         approval.ActionCancelled,
		ActorID:        actor.ID,
		ActorName:      actor.Name,
		PreviousStatus: prev,
		NewStatus:      r.Status,
		Notes:          req.Notes,
		Timestamp:      now,
	})

	if err := s.ApprovalRepository.UpdateCAS(ctx, r, r.Version); err != nil {
		return approval.RequestResponse{}, err
	}

	if err := s.writeAudit(ctx, r.ID, approval.ActionCancelled, actor, nil); err != nil {
		return approval.RequestResponse{}, err
	}

	return toRequestResponse(r), nil
}

// AdminOverride implements approval.ApprovalService.
func (s *ApprovalServiceImpl) AdminOverride(ctx context.Context, req approval.OverrideRequest, actor approval.Actor) (approval.RequestResponse, error) {
	if actor.Role != adminRole {
		return approval.RequestResponse{}, approval.ErrNotAdmin
	}
	if validator.IsEmpty(req.RequestID) {
		return approval.RequestResponse{}, validator.ValidationErrors{{Field: "request_id", Message: "request_id is required"}}
	}

	r, err := s.ApprovalRepository.GetByID(ctx, req.RequestID)
	if err != nil {
		return approval.RequestResponse{}, err
	}
	if r.Status.IsTerminal() {
		return approval.RequestResponse{}, approval.ErrRequestTerminal
	}

	now := time.Now()
	prev := r.Status

	if req.Approve {
		for i := range r.Chain {
			if r.Chain[i].Status == approval.StepPending {
				r.Chain[i].Status = approval.StepApproved
				r.Chain[i].ActionedBy = actor.ID
				r.Chain[i].ActionedAt = &now
				r.Chain[i].Notes = req.Notes
			}
		}
		r.CurrentStep = len(r.Chain)
		r.Status = approval.StatusApproved
	} else {
		if r.CurrentStep < len(r.Chain) && r.Chain[r.CurrentStep].Status == approval.StepPending {
			r.Chain[r.CurrentStep].Status = approval.StepRejected
			r.Chain[r.CurrentStep].ActionedBy = actor.ID
			r.Chain[r.CurrentStep].ActionedAt = &now
			r.Chain[r.CurrentStep].Notes = req.Notes
		}
		r.Status = approval.StatusRejected
	}

	r.History = append(r.History, approval.HistoryEntry{
		Action:         approval.ActionAdminOverride,
		ActorID:        actor.ID,
		ActorName:      actor.Name,
		PreviousStatus: prev,
		NewStatus:      r.Status,
		Notes:          req.Notes,
		Timestamp:      now,
	})

	if err := s.ApprovalRepository.UpdateCAS(ctx, r, r.Version); err != nil {
		return approval.RequestResponse{}, err
	}

	if r.Status == approval.StatusApproved {
		if err := s.settleApproved(ctx, r); err != nil {
			return approval.RequestResponse{}, err
		}
	}

	if err := s.writeAudit(ctx, r.ID, approval.ActionAdminOverride, actor, map[string]string{
		"approve": fmt.Sprintf("%t", req.Approve),
	}); err != nil {
		return approval.RequestResponse{}, err
	}

	return toRequestResponse(r), nil
}

// Escalate implements approval.ApprovalService. The current pending
// step is skipped past its approver; the request stays actionable by
// the next step under the same sequential rules.
func (s *ApprovalServiceImpl) Escalate(ctx context.Context, req approval.ActionRequest, actor approval.Actor) (approval.RequestResponse, error) {
	if actor.Role != adminRole {
		return approval.RequestResponse{}, approval.ErrNotAdmin
	}
	if err := req.Validate(); err != nil {
		return approval.RequestResponse{}, err
	}

	r, err := s.ApprovalRepository.GetByID(ctx, req.RequestID)
	if err != nil {
		return approval.RequestResponse{}, err
	}
	if r.Status.IsTerminal() {
		if r.Status == approval.StatusRejected {
			return approval.RequestResponse{}, approval.ErrRequestRejected
		}
		return approval.RequestResponse{}, approval.ErrRequestTerminal
	}
	if r.CurrentStep >= len(r.Chain) {
		return approval.RequestResponse{}, approval.ErrStepNotPending
	}

	step := &r.Chain[r.CurrentStep]
	if step.Status != approval.StepPending {
		return approval.RequestResponse{}, approval.ErrStepNotPending
	}

	now := time.Now()
	prev := r.Status
	step.Status = approval.StepSkipped
	step.ActionedBy = actor.ID
	step.ActionedAt = &now
	step.Notes = req.Notes

	r.CurrentStep++
	if r.CurrentStep >= len(r.Chain) {
		// The skipped step was the last one; nothing is left to act.
		r.Status = approval.StatusApproved
	} else {
		r.Status = approval.StatusEscalated
	}

	r.History = append(r.History, approval.HistoryEntry{
		Action:         approval.ActionEscalated,
		ActorID:        actor.ID,
		ActorName:      actor.Name,
		PreviousStatus: prev,
		NewStatus:      r.Status,
		Notes:          req.Notes,
		Timestamp:      now,
	})

	if err := s.ApprovalRepository.UpdateCAS(ctx, r, r.Version); err != nil {
		return approval.RequestResponse{}, err
	}

	if r.Status == approval.StatusApproved {
		if err := s.settleApproved(ctx, r); err != nil {
			return approval.RequestResponse{}, err
		}
	}

	if err := s.writeAudit(ctx, r.ID, approval.ActionEscalated, actor, map[string]string{
		"step":     fmt.Sprintf("%d", step.Level),
		"approver": step.ApproverID,
	}); err != nil {
		return approval.RequestResponse{}, err
	}

	return toRequestResponse(r), nil
}

// CreateDelegation implements approval.ApprovalService.
func (s *ApprovalServiceImpl) CreateDelegation(ctx context.Context, req approval.CreateDelegationRequest, actor approval.Actor) (approval.Delegation, error) {
	if err := req.Validate(); err != nil {
		return approval.Delegation{}, err
	}

	settings, err := s.ConfigRepository.GetSettings(ctx)
	if err != nil {
		return approval.Delegation{}, fmt.Errorf("failed to get settings: %w", err)
	}
	if !settings.DelegationEnabled {
		return approval.Delegation{}, approval.ErrDelegationDisabled
	}

	delegate, err := s.EmployeeRepository.GetByID(ctx, req.DelegateID)
	if err != nil {
		return approval.Delegation{}, err
	}
	if _, err := s.EmployeeRepository.GetByID(ctx, req.DelegatorID); err != nil {
		return approval.Delegation{}, err
	}

	types := make([]approval.RequestType, 0, len(req.RequestTypes))
	for _, t := range req.RequestTypes {
		switch rt := approval.RequestType(t); rt {
		case approval.RequestTypeOvertime, approval.RequestTypeLeave, approval.RequestTypeLoan:
			types = append(types, rt)
		default:
			return approval.Delegation{}, validator.ValidationErrors{{
				Field:   "request_types",
				Message: "unknown request type: " + t,
			}}
		}
	}

	start, _ := validator.IsValidDate(req.StartDate)
	end, _ := validator.IsValidDate(req.EndDate)

	d, err := s.ApprovalRepository.CreateDelegation(ctx, approval.Delegation{
		DelegatorID:  req.DelegatorID,
		DelegateID:   req.DelegateID,
		DelegateName: delegate.Name,
		RequestTypes: types,
		StartDate:    start,
		EndDate:      end.Add(24*time.Hour - time.Second),
		IsActive:     true,
	})
	if err != nil {
		return approval.Delegation{}, fmt.Errorf("failed to create delegation: %w", err)
	}
	return d, nil
}

// Get implements approval.ApprovalService.
func (s *ApprovalServiceImpl) Get(ctx context.Context, id string) (approval.RequestResponse, error) {
	r, err := s.ApprovalRepository.GetByID(ctx, id)
	if err != nil {
		return approval.RequestResponse{}, err
	}
	return toRequestResponse(r), nil
}

// ListByRequester implements approval.ApprovalService.
func (s *ApprovalServiceImpl) ListByRequester(ctx context.Context, requesterID string) ([]approval.RequestResponse, error) {
	rs, err := s.ApprovalRepository.ListByRequester(ctx, requesterID)
	if err != nil {
		return nil, fmt.Errorf("failed to list approval requests: %w", err)
	}
	return toRequestResponses(rs), nil
}

// ListPendingForApprover implements approval.ApprovalService.
func (s *ApprovalServiceImpl) ListPendingForApprover(ctx context.Context, approverID string) ([]approval.RequestResponse, error) {
	rs, err := s.ApprovalRepository.ListPendingForApprover(ctx, approverID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending approvals: %w", err)
	}
	return toRequestResponses(rs), nil
}

// settleApproved records the settled output of a fully approved leave
// request so the payroll engine can consume it.
func (s *ApprovalServiceImpl) settleApproved(ctx context.Context, r approval.Request) error {
	if r.Type != approval.RequestTypeLeave || r.StartDate == nil || r.EndDate == nil {
		return nil
	}
	_, err := s.leaveRepo.Create(ctx, leave.LeaveRequest{
		EmployeeID:    r.RequesterID,
		LeaveType:     r.LeaveType,
		StartDate:     *r.StartDate,
		EndDate:       *r.EndDate,
		AffectsSalary: r.AffectsSalary,
		Status:        leave.LeaveStatusApproved,
	})
	if err != nil {
		return fmt.Errorf("failed to record settled leave: %w", err)
	}
	return nil
}

// writeAudit records the action in the audit trail. Every mutating
// approval action must leave exactly one entry, so a failed write
// fails the action.
func (s *ApprovalServiceImpl) writeAudit(ctx context.Context, requestID, action string, actor approval.Actor, details map[string]string) error {
	_, err := s.auditRepo.Create(ctx, audit.Entry{
		EntityType: audit.EntityApprovalRequest,
		EntityID:   requestID,
		Action:     action,
		ActorID:    actor.ID,
		ActorName:  actor.Name,
		Details:    details,
	})
	if err != nil {
		return fmt.Errorf("failed to write audit entry: %w", err)
	}
	return nil
}

func toRequestResponses(rs []approval.Request) []approval.RequestResponse {
	out := make([]approval.RequestResponse, 0, len(rs))
	for _, r := range rs {
		out = append(out, toRequestResponse(r))
	}
	return out
}

func toRequestResponse(r approval.Request) approval.RequestResponse {
	chain := make([]approval.StepVM, 0, len(r.Chain))
	for _, st := range r.Chain {
		vm := approval.StepVM{
			Level:        st.Level,
			ApproverID:   st.ApproverID,
			ApproverName: st.ApproverName,
			Department:   st.Department,
			IsHRStep:     st.IsHRStep,
			Status:       string(st.Status),
			Notes:        st.Notes,
			ActionedBy:   st.ActionedBy,
		}
		if st.ActionedAt != nil {
			at := st.ActionedAt.Format(time.RFC3339)
			vm.ActionedAt = &at
		}
		chain = append(chain, vm)
	}

	return approval.RequestResponse{
		ID:            r.ID,
		Type:          string(r.Type),
		RequesterID:   r.RequesterID,
		RequesterName: r.RequesterName,
		Amount:        r.Amount.String(),
		Reason:        r.Reason,
		Status:        string(r.Status),
		CurrentStep:   r.CurrentStep,
		Chain:         chain,
		CreatedAt:     r.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     r.UpdatedAt.Format(time.RFC3339),
	}
}
