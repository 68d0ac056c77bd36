package approval

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mitrakarya/workforce-backend-go/internal/domain/approval"
	"github.com/mitrakarya/workforce-backend-go/internal/domain/employee"
	"github.com/mitrakarya/workforce-backend-go/internal/domain/hrconfig"
)

// buildChain walks the requester's manager hierarchy upward, including
// each manager whose level exceeds the requester's, capped at the
// configured max depth, optionally appending a mandatory HR step. The
// returned steps are point-in-time snapshots; later org-chart edits
// never alter an existing chain.
func (s *ApprovalServiceImpl) buildChain(ctx context.Context, requester employee.Employee, settings hrconfig.HRSettings) ([]approval.Step, error) {
	var steps []approval.Step
	visited := map[string]struct{}{requester.ID: {}}

	managerID := requester.ManagerID
	for managerID != nil && len(steps) < settings.MaxChainDepth {
		if _, seen := visited[*managerID]; seen {
			break
		}
		visited[*managerID] = struct{}{}

		mgr, err := s.EmployeeRepository.GetByID(ctx, *managerID)
		if err != nil {
			if errors.Is(err, employee.ErrEmployeeNotFound) {
				break
			}
			return nil, fmt.Errorf("failed to get manager %s: %w", *managerID, err)
		}

		if mgr.Level > requester.Level {
			steps = append(steps, approval.Step{
				Level:         len(steps),
				ApproverID:    mgr.ID,
				ApproverName:  mgr.Name,
				Department:    mgr.Department,
				ApproverLevel: mgr.Level,
				Status:        approval.StepPending,
			})
		}
		managerID = mgr.ManagerID
	}

	if settings.RequireHRApproval && settings.HRApproverID != "" {
		hr, err := s.EmployeeRepository.GetByID(ctx, settings.HRApproverID)
		if err != nil {
			return nil, fmt.Errorf("failed to get HR approver: %w", err)
		}
		steps = append(steps, approval.Step{
			Level:         len(steps),
			ApproverID:    hr.ID,
			ApproverName:  hr.Name,
			Department:    hr.Department,
			ApproverLevel: hr.Level,
			IsHRStep:      true,
			Status:        approval.StepPending,
		})
	}

	if len(steps) == 0 {
		return nil, approval.ErrEmptyChain
	}
	return steps, nil
}

// autoApproveMatches checks the request magnitude against the
// configured threshold for its type. A zero threshold disables
// auto-approval for that type.
func autoApproveMatches(settings hrconfig.HRSettings, t approval.RequestType, amount decimal.Decimal) bool {
	var threshold decimal.Decimal
	switch t {
	case approval.RequestTypeLeave:
		threshold = settings.AutoApproveLeaveDaysBelow
	case approval.RequestTypeOvertime:
		threshold = settings.AutoApproveOvertimeHoursBelow
	case approval.RequestTypeLoan:
		threshold = settings.AutoApproveLoanAmountBelow
	default:
		return false
	}
	return threshold.IsPositive() && amount.LessThan(threshold)
}
