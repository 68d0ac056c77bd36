package payroll

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/mitrakarya/workforce-backend-go/internal/domain/audit"
	"github.com/mitrakarya/workforce-backend-go/internal/domain/payroll"
)

// Finalize implements payroll.PayrollService.
//
// The rule snapshot is persisted on the month before any record is
// locked, so a crash mid-finalize is recoverable: re-running skips
// already-locked records and reuses the stored snapshot version instead
// of capturing a new one.
func (s *PayrollServiceImpl) Finalize(ctx context.Context, month string, actor payroll.Actor) (payroll.MonthResponse, error) {
	unlock := s.locks.lock(month)
	defer unlock()

	m, err := s.PayrollRepository.GetMonth(ctx, month)
	if err != nil {
		return payroll.MonthResponse{}, err
	}
	switch m.Status {
	case payroll.MonthStatusLocked:
		return payroll.MonthResponse{}, payroll.ErrMonthLocked
	case payroll.MonthStatusFinalized:
		return payroll.MonthResponse{}, payroll.ErrMonthNotDraft
	}

	if m.RuleSnapshot == nil {
		snap, err := s.captureSnapshot(ctx)
		if err != nil {
			return payroll.MonthResponse{}, err
		}
		m.RuleSnapshot = &snap
		m.SnapshotVersion = snap.Version
		if err := s.PayrollRepository.UpdateMonth(ctx, m); err != nil {
			return payroll.MonthResponse{}, fmt.Errorf("failed to persist rule snapshot: %w", err)
		}
	}

	records, err := s.PayrollRepository.ListRecordsByMonth(ctx, m.ID)
	if err != nil {
		return payroll.MonthResponse{}, fmt.Errorf("failed to list payroll records: %w", err)
	}
	if len(records) == 0 {
		return payroll.MonthResponse{}, payroll.ErrNoEmployees
	}

	var toLock []string
	for _, r := range records {
		if !r.IsLocked {
			toLock = append(toLock, r.ID)
		}
	}
	for start := 0; start < len(toLock); start += s.batchSize {
		end := start + s.batchSize
		if end > len(toLock) {
			end = len(toLock)
		}
		if err := s.PayrollRepository.LockRecords(ctx, toLock[start:end], m.SnapshotVersion); err != nil {
			return payroll.MonthResponse{}, fmt.Errorf("failed to lock payroll records: %w", err)
		}
	}

	// Installments are consumed at finalize, not at draft generation,
	// so regeneration never double-deducts. Each loan carries the month
	// it last paid, so resuming an interrupted finalize cannot consume
	// twice and cannot skip consumption for records locked before the
	// interruption.
	if err := s.consumeInstallments(ctx, m, records); err != nil {
		return payroll.MonthResponse{}, err
	}

	if err := s.writeCostSummaries(ctx, m, records); err != nil {
		return payroll.MonthResponse{}, err
	}

	now := time.Now()
	m.Status = payroll.MonthStatusFinalized
	m.FinalizedBy = &actor.ID
	m.FinalizedAt = &now
	if err := s.PayrollRepository.UpdateMonth(ctx, m); err != nil {
		return payroll.MonthResponse{}, fmt.Errorf("failed to update payroll month: %w", err)
	}

	if err := s.writeAudit(ctx, audit.EntityPayrollMonth, m.ID, "finalize", actor, map[string]string{
		"month":            m.Month,
		"snapshot_version": m.SnapshotVersion,
	}); err != nil {
		return payroll.MonthResponse{}, err
	}

	return toMonthResponse(m), nil
}

func (s *PayrollServiceImpl) captureSnapshot(ctx context.Context) (payroll.RuleSnapshot, error) {
	settings, err := s.ConfigRepository.GetSettings(ctx)
	if err != nil {
		return payroll.RuleSnapshot{}, fmt.Errorf("failed to get settings: %w", err)
	}
	lateRules, err := s.ConfigRepository.ListLateRules(ctx)
	if err != nil {
		return payroll.RuleSnapshot{}, fmt.Errorf("failed to list late rules: %w", err)
	}
	penaltyRules, err := s.ConfigRepository.ListPenaltyRules(ctx)
	if err != nil {
		return payroll.RuleSnapshot{}, fmt.Errorf("failed to list penalty rules: %w", err)
	}
	allowanceTypes, err := s.ConfigRepository.ListAllowanceTypes(ctx)
	if err != nil {
		return payroll.RuleSnapshot{}, fmt.Errorf("failed to list allowance types: %w", err)
	}
	versions, err := s.ConfigRepository.GetConfigVersions(ctx)
	if err != nil {
		return payroll.RuleSnapshot{}, fmt.Errorf("failed to get config versions: %w", err)
	}

	return payroll.RuleSnapshot{
		Version:        uuid.NewString(),
		LateRules:      lateRules,
		PenaltyRules:   penaltyRules,
		AllowanceTypes: allowanceTypes,
		Settings:       settings,
		ConfigVersions: versions,
		CapturedAt:     time.Now(),
	}, nil
}

func (s *PayrollServiceImpl) consumeInstallments(ctx context.Context, m payroll.PayrollMonth, records []payroll.PayrollRecord) error {
	for _, r := range records {
		if !r.LoanDeduction.IsPositive() {
			continue
		}
		loans, err := s.LoanRepository.ListActiveByEmployee(ctx, r.EmployeeID)
		if err != nil {
			return fmt.Errorf("failed to list loans for employee %s: %w", r.EmployeeID, err)
		}
		for _, l := range loans {
			if l.StartMonth != "" && l.StartMonth > m.Month {
				continue
			}
			// Already paid for this month by an earlier finalize attempt.
			if l.LastInstallmentMonth >= m.Month && l.LastInstallmentMonth != "" {
				continue
			}
			l.ProcessInstallment()
			l.LastInstallmentMonth = m.Month
			if err := s.LoanRepository.Update(ctx, l); err != nil {
				return fmt.Errorf("failed to update loan %s: %w", l.ID, err)
			}
		}
	}
	return nil
}

func (s *PayrollServiceImpl) writeCostSummaries(ctx context.Context, m payroll.PayrollMonth, records []payroll.PayrollRecord) error {
	existing, err := s.PayrollRepository.ListCostSummariesByMonth(ctx, m.ID)
	if err != nil {
		return fmt.Errorf("failed to list cost summaries: %w", err)
	}
	// A crashed prior finalize may have written them already.
	if len(existing) > 0 {
		return nil
	}

	type key struct{ dept, cc, line string }
	agg := make(map[key]*payroll.CostSummary)
	for _, r := range records {
		k := key{r.Department, r.CostCenter, r.ProductionLine}
		cs, ok := agg[k]
		if !ok {
			cs = &payroll.CostSummary{
				MonthID:        m.ID,
				Month:          m.Month,
				Department:     r.Department,
				CostCenter:     r.CostCenter,
				ProductionLine: r.ProductionLine,
			}
			agg[k] = cs
		}
		cs.TotalGross = cs.TotalGross.Add(r.GrossSalary).Round(2)
		cs.TotalNet = cs.TotalNet.Add(r.NetSalary).Round(2)
		cs.EmployeeCount++
	}

	summaries := make([]payroll.CostSummary, 0, len(agg))
	for _, cs := range agg {
		summaries = append(summaries, *cs)
	}
	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].Department != summaries[j].Department {
			return summaries[i].Department < summaries[j].Department
		}
		if summaries[i].CostCenter != summaries[j].CostCenter {
			return summaries[i].CostCenter < summaries[j].CostCenter
		}
		return summaries[i].ProductionLine < summaries[j].ProductionLine
	})

	if err := s.PayrollRepository.CreateCostSummaries(ctx, summaries); err != nil {
		return fmt.Errorf("failed to create cost summaries: %w", err)
	}
	return nil
}

// Lock implements payroll.PayrollService.
func (s *PayrollServiceImpl) Lock(ctx context.Context, month string, actor payroll.Actor) (payroll.MonthResponse, error) {
	unlock := s.locks.lock(month)
	defer unlock()

	m, err := s.PayrollRepository.GetMonth(ctx, month)
	if err != nil {
		return payroll.MonthResponse{}, err
	}
	switch m.Status {
	case payroll.MonthStatusLocked:
		return payroll.MonthResponse{}, payroll.ErrMonthAlreadyLocked
	case payroll.MonthStatusDraft:
		return payroll.MonthResponse{}, payroll.ErrMonthNotFinalized
	}

	records, err := s.PayrollRepository.ListRecordsByMonth(ctx, m.ID)
	if err != nil {
		return payroll.MonthResponse{}, fmt.Errorf("failed to list payroll records: %w", err)
	}
	var toLock []string
	for _, r := range records {
		if !r.IsLocked {
			toLock = append(toLock, r.ID)
		}
	}
	for start := 0; start < len(toLock); start += s.batchSize {
		end := start + s.batchSize
		if end > len(toLock) {
			end = len(toLock)
		}
		if err := s.PayrollRepository.LockRecords(ctx, toLock[start:end], m.SnapshotVersion); err != nil {
			return payroll.MonthResponse{}, fmt.Errorf("failed to lock payroll records: %w", err)
		}
	}

	now := time.Now()
	m.Status = payroll.MonthStatusLocked
	m.LockedBy = &actor.ID
	m.LockedAt = &now
	if err := s.PayrollRepository.UpdateMonth(ctx, m); err != nil {
		return payroll.MonthResponse{}, fmt.Errorf("failed to update payroll month: %w", err)
	}

	if err := s.writeAudit(ctx, audit.EntityPayrollMonth, m.ID, "lock", actor, map[string]string{"month": m.Month}); err != nil {
		return payroll.MonthResponse{}, err
	}

	return toMonthResponse(m), nil
}
