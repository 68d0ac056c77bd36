package approval

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitrakarya/workforce-backend-go/internal/domain/approval"
	"github.com/mitrakarya/workforce-backend-go/internal/domain/audit"
	"github.com/mitrakarya/workforce-backend-go/internal/domain/employee"
	"github.com/mitrakarya/workforce-backend-go/internal/domain/hrconfig"
	"github.com/mitrakarya/workforce-backend-go/internal/repository/memory"
)

type approvalFixture struct {
	service      approval.ApprovalService
	approvalRepo *memory.ApprovalRepository
	employeeRepo *memory.EmployeeRepository
	leaveRepo    *memory.LeaveRepository
	configRepo   *memory.ConfigRepository
	auditRepo    *memory.AuditRepository
}

func newApprovalFixture(settings hrconfig.HRSettings) approvalFixture {
	f := approvalFixture{
		approvalRepo: memory.NewApprovalRepository(),
		employeeRepo: memory.NewEmployeeRepository(),
		leaveRepo:    memory.NewLeaveRepository(),
		configRepo:   memory.NewConfigRepository(settings),
		auditRepo:    memory.NewAuditRepository(),
	}
	f.service = NewApprovalService(f.approvalRepo, f.employeeRepo, f.configRepo, f.leaveRepo, f.auditRepo)
	return f
}

func approvalSettings() hrconfig.HRSettings {
	return hrconfig.HRSettings{
		MaxChainDepth:     3,
		DelegationEnabled: true,
	}
}

// seedHierarchy installs worker -> supervisor -> plant manager, plus an
// HR officer outside the chain.
func (f approvalFixture) seedHierarchy() {
	mgr2 := "mgr-2"
	mgr1 := "mgr-1"
	f.employeeRepo.Seed(
		employee.Employee{ID: "worker", Name: "Worker", Department: "assembly", Level: 1, ManagerID: &mgr1, IsActive: true},
		employee.Employee{ID: "mgr-1", Name: "Supervisor", Department: "assembly", Level: 2, ManagerID: &mgr2, IsActive: true},
		employee.Employee{ID: "mgr-2", Name: "Plant Manager", Department: "plant", Level: 3, IsActive: true},
		employee.Employee{ID: "hr-1", Name: "HR Officer", Department: "hr", Level: 2, IsActive: true},
		employee.Employee{ID: "deleg-1", Name: "Delegate", Department: "assembly", Level: 2, IsActive: true},
	)
}

func submitOvertime(t *testing.T, f approvalFixture, hours int64) approval.RequestResponse {
	t.Helper()
	resp, err := f.service.Create(context.Background(), approval.CreateRequest{
		Type:        string(approval.RequestTypeOvertime),
		RequesterID: "worker",
		Amount:      decimal.NewFromInt(hours),
		Reason:      "line maintenance",
	}, approval.Actor{ID: "worker", Name: "Worker"})
	require.NoError(t, err)
	return resp
}

func TestApprovalService_Create_ChainSnapshot(t *testing.T) {
	t.Parallel()

	f := newApprovalFixture(approvalSettings())
	f.seedHierarchy()

	resp := submitOvertime(t, f, 8)

	assert.Equal(t, "pending", resp.Status)
	require.Len(t, resp.Chain, 2)
	assert.Equal(t, "mgr-1", resp.Chain[0].ApproverID)
	assert.Equal(t, "mgr-2", resp.Chain[1].ApproverID)
	assert.Equal(t, "pending", resp.Chain[0].Status)
}

func TestApprovalService_Create_HRStepAppended(t *testing.T) {
	t.Parallel()

	settings := approvalSettings()
	settings.RequireHRApproval = true
	settings.HRApproverID = "hr-1"

	f := newApprovalFixture(settings)
	f.seedHierarchy()

	resp := submitOvertime(t, f, 8)

	require.Len(t, resp.Chain, 3)
	assert.True(t, resp.Chain[2].IsHRStep)
	assert.Equal(t, "hr-1", resp.Chain[2].ApproverID)
}

func TestApprovalService_Create_EmptyChain(t *testing.T) {
	t.Parallel()

	f := newApprovalFixture(approvalSettings())
	// Top of the hierarchy: no manager, no HR step configured.
	f.employeeRepo.Seed(employee.Employee{ID: "ceo", Name: "CEO", Level: 9, IsActive: true})

	_, err := f.service.Create(context.Background(), approval.CreateRequest{
		Type:        string(approval.RequestTypeOvertime),
		RequesterID: "ceo",
		Amount:      decimal.NewFromInt(8),
	}, approval.Actor{ID: "ceo", Name: "CEO"})

	assert.ErrorIs(t, err, approval.ErrEmptyChain)
}

func TestApprovalService_SequentialApproval(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := newApprovalFixture(approvalSettings())
	f.seedHierarchy()
	resp := submitOvertime(t, f, 8)

	// The second-level approver cannot act before the first.
	_, err := f.service.Approve(ctx, approval.ActionRequest{RequestID: resp.ID}, approval.Actor{ID: "mgr-2", Name: "Plant Manager"})
	assert.ErrorIs(t, err, approval.ErrNotStepApprover)

	mid, err := f.service.Approve(ctx, approval.ActionRequest{RequestID: resp.ID}, approval.Actor{ID: "mgr-1", Name: "Supervisor"})
	require.NoError(t, err)
	assert.Equal(t, "in_progress", mid.Status)
	assert.Equal(t, 1, mid.CurrentStep)

	final, err := f.service.Approve(ctx, approval.ActionRequest{RequestID: resp.ID}, approval.Actor{ID: "mgr-2", Name: "Plant Manager"})
	require.NoError(t, err)
	assert.Equal(t, "approved", final.Status)
}

func TestApprovalService_RejectionIsTerminal(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := newApprovalFixture(approvalSettings())
	f.seedHierarchy()
	resp := submitOvertime(t, f, 8)

	rejected, err := f.service.Reject(ctx, approval.ActionRequest{RequestID: resp.ID, Notes: "over budget"}, approval.Actor{ID: "mgr-1", Name: "Supervisor"})
	require.NoError(t, err)
	assert.Equal(t, "rejected", rejected.Status)

	_, err = f.service.Approve(ctx, approval.ActionRequest{RequestID: resp.ID}, approval.Actor{ID: "mgr-2", Name: "Plant Manager"})
	assert.ErrorIs(t, err, approval.ErrRequestRejected)
}

func TestApprovalService_Cancel(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := newApprovalFixture(approvalSettings())
	f.seedHierarchy()
	resp := submitOvertime(t, f, 8)

	_, err := f.service.Cancel(ctx, approval.ActionRequest{RequestID: resp.ID}, approval.Actor{ID: "mgr-1"})
	assert.ErrorIs(t, err, approval.ErrNotRequester)

	cancelled, err := f.service.Cancel(ctx, approval.ActionRequest{RequestID: resp.ID}, approval.Actor{ID: "worker", Name: "Worker"})
	require.NoError(t, err)
	assert.Equal(t, "cancelled", cancelled.Status)

	_, err = f.service.Cancel(ctx, approval.ActionRequest{RequestID: resp.ID}, approval.Actor{ID: "worker", Name: "Worker"})
	assert.ErrorIs(t, err, approval.ErrCannotCancel)
}

func TestApprovalService_AutoApproval(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	settings := approvalSettings()
	settings.AutoApproveOvertimeHoursBelow = decimal.NewFromInt(5)

	f := newApprovalFixture(settings)
	f.seedHierarchy()

	resp := submitOvertime(t, f, 4)

	assert.Equal(t, "approved", resp.Status)
	assert.Empty(t, resp.Chain)

	r, err := f.approvalRepo.GetByID(ctx, resp.ID)
	require.NoError(t, err)
	require.Len(t, r.History, 1)
	assert.Equal(t, approval.ActionAutoApproved, r.History[0].Action)

	// At or above the threshold the chain is built normally.
	over := submitOvertime(t, f, 5)
	assert.Equal(t, "pending", over.Status)
	assert.NotEmpty(t, over.Chain)
}

func TestApprovalService_DelegationResolvesActor(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := newApprovalFixture(approvalSettings())
	f.seedHierarchy()

	today := time.Now().Format("2006-01-02")
	_, err := f.service.CreateDelegation(ctx, approval.CreateDelegationRequest{
		DelegatorID:  "mgr-1",
		DelegateID:   "deleg-1",
		RequestTypes: []string{"overtime"},
		StartDate:    today,
		EndDate:      today,
	}, approval.Actor{ID: "mgr-1", Name: "Supervisor"})
	require.NoError(t, err)

	resp := submitOvertime(t, f, 8)

	acted, err := f.service.Approve(ctx, approval.ActionRequest{RequestID: resp.ID}, approval.Actor{ID: "deleg-1", Name: "Delegate"})
	require.NoError(t, err)

	// The delegate acted, but the original approver stays on the chain.
	assert.Equal(t, "mgr-1", acted.Chain[0].ApproverID)
	assert.Equal(t, "deleg-1", acted.Chain[0].ActionedBy)
	assert.Equal(t, "approved", acted.Chain[0].Status)
}

func TestApprovalService_CreateDelegation_Disabled(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	settings := approvalSettings()
	settings.DelegationEnabled = false

	f := newApprovalFixture(settings)
	f.seedHierarchy()

	today := time.Now().Format("2006-01-02")
	_, err := f.service.CreateDelegation(ctx, approval.CreateDelegationRequest{
		DelegatorID:  "mgr-1",
		DelegateID:   "deleg-1",
		RequestTypes: []string{"overtime"},
		StartDate:    today,
		EndDate:      today,
	}, approval.Actor{ID: "mgr-1"})
	assert.ErrorIs(t, err, approval.ErrDelegationDisabled)
}

func TestApprovalService_AdminOverride(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := newApprovalFixture(approvalSettings())
	f.seedHierarchy()
	resp := submitOvertime(t, f, 8)

	_, err := f.service.AdminOverride(ctx, approval.OverrideRequest{RequestID: resp.ID, Approve: true}, approval.Actor{ID: "mgr-1", Role: "manager"})
	assert.ErrorIs(t, err, approval.ErrNotAdmin)

	forced, err := f.service.AdminOverride(ctx, approval.OverrideRequest{RequestID: resp.ID, Approve: true, Notes: "emergency"}, approval.Actor{ID: "admin-1", Name: "Admin", Role: "admin"})
	require.NoError(t, err)
	assert.Equal(t, "approved", forced.Status)
	for _, step := range forced.Chain {
		assert.Equal(t, "approved", step.Status)
	}

	_, err = f.service.AdminOverride(ctx, approval.OverrideRequest{RequestID: resp.ID, Approve: false}, approval.Actor{ID: "admin-1", Role: "admin"})
	assert.ErrorIs(t, err, approval.ErrRequestTerminal)
}

func TestApprovalService_Escalate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := newApprovalFixture(approvalSettings())
	f.seedHierarchy()
	resp := submitOvertime(t, f, 8)

	_, err := f.service.Escalate(ctx, approval.ActionRequest{RequestID: resp.ID}, approval.Actor{ID: "mgr-1", Role: "manager"})
	assert.ErrorIs(t, err, approval.ErrNotAdmin)

	escalated, err := f.service.Escalate(ctx, approval.ActionRequest{RequestID: resp.ID, Notes: "supervisor unreachable"}, approval.Actor{ID: "admin-1", Name: "Admin", Role: "admin"})
	require.NoError(t, err)
	assert.Equal(t, "escalated", escalated.Status)
	assert.Equal(t, 1, escalated.CurrentStep)
	assert.Equal(t, "skipped", escalated.Chain[0].Status)
	assert.Equal(t, "admin-1", escalated.Chain[0].ActionedBy)

	// The next approver still sees and actions the request as usual.
	pending, err := f.service.ListPendingForApprover(ctx, "mgr-2")
	require.NoError(t, err)
	require.Len(t, pending, 1)

	final, err := f.service.Approve(ctx, approval.ActionRequest{RequestID: resp.ID}, approval.Actor{ID: "mgr-2", Name: "Plant Manager"})
	require.NoError(t, err)
	assert.Equal(t, "approved", final.Status)
}

func TestApprovalService_Escalate_LastStepCompletesRequest(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := newApprovalFixture(approvalSettings())
	f.seedHierarchy()
	resp := submitOvertime(t, f, 8)

	_, err := f.service.Approve(ctx, approval.ActionRequest{RequestID: resp.ID}, approval.Actor{ID: "mgr-1", Name: "Supervisor"})
	require.NoError(t, err)

	final, err := f.service.Escalate(ctx, approval.ActionRequest{RequestID: resp.ID}, approval.Actor{ID: "admin-1", Name: "Admin", Role: "admin"})
	require.NoError(t, err)
	assert.Equal(t, "approved", final.Status)
	assert.Equal(t, "skipped", final.Chain[1].Status)

	_, err = f.service.Escalate(ctx, approval.ActionRequest{RequestID: resp.ID}, approval.Actor{ID: "admin-1", Role: "admin"})
	assert.ErrorIs(t, err, approval.ErrRequestTerminal)
}

type failingAuditRepo struct{ *memory.AuditRepository }

func (failingAuditRepo) Create(context.Context, audit.Entry) (audit.Entry, error) {
	return audit.Entry{}, errors.New("audit store unavailable")
}

func TestApprovalService_AuditWriteFailureFailsAction(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := newApprovalFixture(approvalSettings())
	f.seedHierarchy()
	svc := NewApprovalService(f.approvalRepo, f.employeeRepo, f.configRepo, f.leaveRepo, failingAuditRepo{})

	_, err := svc.Create(ctx, approval.CreateRequest{
		Type:        string(approval.RequestTypeOvertime),
		RequesterID: "worker",
		Amount:      decimal.NewFromInt(8),
	}, approval.Actor{ID: "worker", Name: "Worker"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "audit")
}

func TestApprovalService_SettlesApprovedLeave(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	settings := approvalSettings()
	settings.AutoApproveLeaveDaysBelow = decimal.NewFromInt(3)

	f := newApprovalFixture(settings)
	f.seedHierarchy()

	start := "2024-02-05"
	end := "2024-02-06"
	resp, err := f.service.Create(ctx, approval.CreateRequest{
		Type:          string(approval.RequestTypeLeave),
		RequesterID:   "worker",
		Amount:        decimal.NewFromInt(2),
		StartDate:     &start,
		EndDate:       &end,
		LeaveType:     "unpaid",
		AffectsSalary: true,
	}, approval.Actor{ID: "worker", Name: "Worker"})
	require.NoError(t, err)
	assert.Equal(t, "approved", resp.Status)

	settled, err := f.leaveRepo.ListApprovedOverlapping(ctx,
		time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, settled, 1)
	assert.Equal(t, "worker", settled[0].EmployeeID)
	assert.True(t, settled[0].AffectsSalary)
}

func TestApprovalRepository_StaleWriteRejected(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := newApprovalFixture(approvalSettings())
	f.seedHierarchy()
	resp := submitOvertime(t, f, 8)

	r, err := f.approvalRepo.GetByID(ctx, resp.ID)
	require.NoError(t, err)

	// First writer wins; the stale second write is rejected outright.
	require.NoError(t, f.approvalRepo.UpdateCAS(ctx, r, r.Version))
	err = f.approvalRepo.UpdateCAS(ctx, r, r.Version)
	assert.ErrorIs(t, err, approval.ErrStaleRequest)
}
