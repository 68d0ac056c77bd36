package payroll

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mitrakarya/workforce-backend-go/internal/domain/attendance"
	"github.com/mitrakarya/workforce-backend-go/internal/domain/audit"
	"github.com/mitrakarya/workforce-backend-go/internal/domain/employee"
	"github.com/mitrakarya/workforce-backend-go/internal/domain/hrconfig"
	"github.com/mitrakarya/workforce-backend-go/internal/domain/leave"
	"github.com/mitrakarya/workforce-backend-go/internal/domain/loan"
	"github.com/mitrakarya/workforce-backend-go/internal/domain/payroll"
	"github.com/mitrakarya/workforce-backend-go/internal/domain/salary"
)

const (
	monthLayout = "2006-01"

	// maxBatchSize bounds every persisted write chunk.
	maxBatchSize = 500
)

type PayrollServiceImpl struct {
	payroll.PayrollRepository
	attendance.AttendanceRepository
	employee.EmployeeRepository
	leave.LeaveRepository
	loan.LoanRepository
	hrconfig.ConfigRepository
	auditRepo audit.AuditRepository

	locks     *monthLocks
	batchSize int
}

func NewPayrollService(
	payrollRepo payroll.PayrollRepository,
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	leaveRepo leave.LeaveRepository,
	loanRepo loan.LoanRepository,
	configRepo hrconfig.ConfigRepository,
	auditRepo audit.AuditRepository,
	batchSize int,
) payroll.PayrollService {
	if batchSize <= 0 || batchSize > maxBatchSize {
		batchSize = maxBatchSize
	}
	return &PayrollServiceImpl{
		PayrollRepository:    payrollRepo,
		AttendanceRepository: attendanceRepo,
		EmployeeRepository:   employeeRepo,
		LeaveRepository:      leaveRepo,
		LoanRepository:       loanRepo,
		ConfigRepository:     configRepo,
		auditRepo:            auditRepo,
		locks:                newMonthLocks(),
		batchSize:            batchSize,
	}
}

// Generate implements payroll.PayrollService.
//
// Regeneration while the month is draft deletes every existing record
// first, so re-running the same input is idempotent. The per-month
// lock makes the delete-then-recreate single-writer.
func (s *PayrollServiceImpl) Generate(ctx context.Context, req payroll.GeneratePayrollRequest, actor payroll.Actor) (payroll.MonthResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.MonthResponse{}, err
	}

	monthStart, err := time.Parse(monthLayout, req.Month)
	if err != nil {
		return payroll.MonthResponse{}, payroll.ErrInvalidMonth
	}
	monthEnd := monthStart.AddDate(0, 1, 0).AddDate(0, 0, -1)

	unlock := s.locks.lock(req.Month)
	defer unlock()

	existing, err := s.PayrollRepository.GetMonth(ctx, req.Month)
	monthExists := err == nil
	if err != nil && !errors.Is(err, payroll.ErrMonthNotFound) {
		return payroll.MonthResponse{}, fmt.Errorf("failed to get payroll month: %w", err)
	}
	if monthExists {
		switch existing.Status {
		case payroll.MonthStatusFinalized:
			return payroll.MonthResponse{}, payroll.ErrMonthFinalized
		case payroll.MonthStatusLocked:
			return payroll.MonthResponse{}, payroll.ErrMonthLocked
		}
	}

	settings, err := s.ConfigRepository.GetSettings(ctx)
	if err != nil {
		return payroll.MonthResponse{}, fmt.Errorf("failed to get settings: %w", err)
	}
	lateRules, err := s.ConfigRepository.ListLateRules(ctx)
	if err != nil {
		return payroll.MonthResponse{}, fmt.Errorf("failed to list late rules: %w", err)
	}
	penaltyRules, err := s.ConfigRepository.ListPenaltyRules(ctx)
	if err != nil {
		return payroll.MonthResponse{}, fmt.Errorf("failed to list penalty rules: %w", err)
	}
	penaltyRuleByID := make(map[string]hrconfig.PenaltyRule, len(penaltyRules))
	for _, pr := range penaltyRules {
		if pr.IsActive {
			penaltyRuleByID[pr.ID] = pr
		}
	}
	allowanceTypes, err := s.ConfigRepository.ListAllowanceTypes(ctx)
	if err != nil {
		return payroll.MonthResponse{}, fmt.Errorf("failed to list allowance types: %w", err)
	}

	emps, err := s.resolveEmployees(ctx, req.EmployeeIDs)
	if err != nil {
		return payroll.MonthResponse{}, err
	}
	if len(emps) == 0 {
		return payroll.MonthResponse{}, payroll.ErrNoEmployees
	}

	logs, err := s.AttendanceRepository.ListByDateRange(ctx, monthStart, monthEnd)
	if err != nil {
		return payroll.MonthResponse{}, fmt.Errorf("failed to list attendance logs: %w", err)
	}
	summaries := buildAttendanceSummaries(logs, settings.WorkingHoursPerDay*60)

	leaves, err := s.LeaveRepository.ListApprovedOverlapping(ctx, monthStart, monthEnd)
	if err != nil {
		return payroll.MonthResponse{}, fmt.Errorf("failed to list approved leaves: %w", err)
	}
	leavesByEmployee := make(map[string][]leave.LeaveRequest)
	for _, l := range leaves {
		leavesByEmployee[l.EmployeeID] = append(leavesByEmployee[l.EmployeeID], l)
	}

	assignments, err := s.ConfigRepository.ListPenaltyAssignments(ctx, req.Month)
	if err != nil {
		return payroll.MonthResponse{}, fmt.Errorf("failed to list penalty assignments: %w", err)
	}
	penaltiesByEmployee := make(map[string][]hrconfig.PenaltyAssignment)
	for _, a := range assignments {
		penaltiesByEmployee[a.EmployeeID] = append(penaltiesByEmployee[a.EmployeeID], a)
	}

	allowances := allowanceTotal(allowanceTypes)

	now := time.Now()
	action := "generate"
	var month payroll.PayrollMonth
	if monthExists {
		action = "recalculate"
		month = existing
		if err := s.PayrollRepository.DeleteRecordsByMonth(ctx, month.ID); err != nil {
			return payroll.MonthResponse{}, fmt.Errorf("failed to delete draft records: %w", err)
		}
	} else {
		month, err = s.PayrollRepository.CreateMonth(ctx, payroll.PayrollMonth{
			Month:       req.Month,
			Status:      payroll.MonthStatusDraft,
			GeneratedBy: actor.ID,
			GeneratedAt: now,
		})
		if err != nil {
			return payroll.MonthResponse{}, fmt.Errorf("failed to create payroll month: %w", err)
		}
	}

	batchSize := req.BatchSize
	if batchSize <= 0 || batchSize > maxBatchSize {
		batchSize = s.batchSize
	}

	totalGross, totalDeductions, totalNet := decimal.Zero, decimal.Zero, decimal.Zero
	chunk := make([]payroll.PayrollRecord, 0, batchSize)
	for _, emp := range emps {
		activeLoans, err := s.LoanRepository.ListActiveByEmployee(ctx, emp.ID)
		if err != nil {
			return payroll.MonthResponse{}, fmt.Errorf("failed to list loans for employee %s: %w", emp.ID, err)
		}

		rec := buildPayrollRecord(emp, month, summaries[emp.ID], leavesByEmployee[emp.ID], activeLoans, penaltiesByEmployee[emp.ID], penaltyRuleByID, settings, lateRules, allowances, monthStart, monthEnd, now)
		totalGross = totalGross.Add(rec.GrossSalary).Round(2)
		totalDeductions = totalDeductions.Add(rec.TotalDeductions).Round(2)
		totalNet = totalNet.Add(rec.NetSalary).Round(2)

		chunk = append(chunk, rec)
		if len(chunk) == batchSize {
			if err := s.PayrollRepository.CreateRecords(ctx, chunk); err != nil {
				return payroll.MonthResponse{}, fmt.Errorf("failed to create payroll records: %w", err)
			}
			chunk = chunk[:0]
		}
	}
	if len(chunk) > 0 {
		if err := s.PayrollRepository.CreateRecords(ctx, chunk); err != nil {
			return payroll.MonthResponse{}, fmt.Errorf("failed to create payroll records: %w", err)
		}
	}

	month.Status = payroll.MonthStatusDraft
	month.TotalGross = totalGross
	month.TotalDeductions = totalDeductions
	month.TotalNet = totalNet
	month.EmployeeCount = len(emps)
	month.GeneratedBy = actor.ID
	month.GeneratedAt = now
	if err := s.PayrollRepository.UpdateMonth(ctx, month); err != nil {
		return payroll.MonthResponse{}, fmt.Errorf("failed to update payroll month: %w", err)
	}

	if err := s.writeAudit(ctx, audit.EntityPayrollMonth, month.ID, action, actor, map[string]string{
		"month":     req.Month,
		"employees": strconv.Itoa(len(emps)),
	}); err != nil {
		return payroll.MonthResponse{}, err
	}

	return toMonthResponse(month), nil
}

func (s *PayrollServiceImpl) resolveEmployees(ctx context.Context, ids []string) ([]employee.Employee, error) {
	if len(ids) == 0 {
		emps, err := s.EmployeeRepository.ListActive(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list active employees: %w", err)
		}
		return emps, nil
	}

	emps := make([]employee.Employee, 0, len(ids))
	for _, id := range ids {
		emp, err := s.EmployeeRepository.GetByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to get employee %s: %w", id, err)
		}
		emps = append(emps, emp)
	}
	return emps, nil
}

func buildPayrollRecord(
	emp employee.Employee,
	month payroll.PayrollMonth,
	sum payroll.AttendanceSummary,
	empLeaves []leave.LeaveRequest,
	activeLoans []loan.Loan,
	penalties []hrconfig.PenaltyAssignment,
	penaltyRules map[string]hrconfig.PenaltyRule,
	settings hrconfig.HRSettings,
	lateRules []hrconfig.LateRule,
	allowances decimal.Decimal,
	from, to time.Time,
	now time.Time,
) payroll.PayrollRecord {
	strat := salary.ForEmploymentType(emp.EmploymentType)

	base := strat.CalculateBase(emp, sum.WorkingDays, sum.PresentDays)
	absenceDed := strat.CalculateAbsenceDeduction(emp, sum.AbsentDays, sum.WorkingDays)
	overtimePay := strat.CalculateOvertime(emp, sum.OvertimeHours, settings.OvertimeMultiplier)

	unpaidDays := decimal.Zero
	for _, l := range empLeaves {
		if l.AffectsSalary {
			unpaidDays = unpaidDays.Add(l.DaysWithin(from, to))
		}
	}
	unpaidDed := strat.DailyRate(emp, sum.WorkingDays).Mul(unpaidDays).Round(2)

	loanDed := decimal.Zero
	for _, l := range activeLoans {
		if l.StartMonth != "" && l.StartMonth > month.Month {
			continue
		}
		loanDed = loanDed.Add(l.InstallmentAmount)
	}
	loanDed = loanDed.Round(2)

	latePen := latePenalty(sum, lateRules)
	transport := emp.TransportDeduction.Round(2)

	// Disciplinary penalties assigned for this month, resolved against
	// the active rule table. An assignment whose rule is gone or
	// inactive charges nothing.
	otherPen := decimal.Zero
	for _, a := range penalties {
		rule, ok := penaltyRules[a.RuleID]
		if !ok {
			continue
		}
		otherPen = otherPen.Add(penaltyAmount(rule, base))
	}
	otherPen = otherPen.Round(2)

	gross := base.Add(overtimePay).Add(allowances).Round(2)
	totalDed := absenceDed.Add(latePen).Add(otherPen).Add(loanDed).Add(transport).Add(unpaidDed).Round(2)

	net := gross.Sub(totalDed)
	if net.IsNegative() && !settings.AllowNegativeSalary {
		net = decimal.Zero
	}

	return payroll.PayrollRecord{
		MonthID:    month.ID,
		Month:      month.Month,
		EmployeeID: emp.ID,

		EmploymentType: emp.EmploymentType,
		Department:     emp.Department,
		CostCenter:     emp.CostCenter,
		ProductionLine: emp.ProductionLine,

		WorkingDays:   sum.WorkingDays,
		PresentDays:   sum.PresentDays,
		AbsentDays:    sum.AbsentDays,
		LateDays:      sum.LateDays,
		OvertimeHours: sum.OvertimeHours,

		BaseSalary:  base,
		OvertimePay: overtimePay,
		Allowances:  allowances,
		GrossSalary: gross,

		AbsenceDeduction:     absenceDed,
		LatePenalty:          latePen,
		OtherPenalties:       otherPen,
		LoanDeduction:        loanDed,
		TransportDeduction:   transport,
		UnpaidLeaveDeduction: unpaidDed,
		TotalDeductions:      totalDed,

		NetSalary: net,

		CreatedAt: now,
		UpdatedAt: now,
	}
}

// writeAudit records the action in the audit trail. Every mutating
// payroll operation must leave exactly one entry, so a failed write
// fails the operation.
func (s *PayrollServiceImpl) writeAudit(ctx context.Context, entityType, entityID, action string, actor payroll.Actor, details map[string]string) error {
	_, err := s.auditRepo.Create(ctx, audit.Entry{
		EntityType: entityType,
		EntityID:   entityID,
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

// GetMonth implements payroll.PayrollService.
func (s *PayrollServiceImpl) GetMonth(ctx context.Context, month string) (payroll.MonthResponse, error) {
	m, err := s.PayrollRepository.GetMonth(ctx, month)
	if err != nil {
		return payroll.MonthResponse{}, err
	}
	return toMonthResponse(m), nil
}

// ListRecords implements payroll.PayrollService.
func (s *PayrollServiceImpl) ListRecords(ctx context.Context, month string) ([]payroll.RecordResponse, error) {
	m, err := s.PayrollRepository.GetMonth(ctx, month)
	if err != nil {
		return nil, err
	}
	records, err := s.PayrollRepository.ListRecordsByMonth(ctx, m.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll records: %w", err)
	}

	out := make([]payroll.RecordResponse, 0, len(records))
	for _, r := range records {
		out = append(out, toRecordResponse(r))
	}
	return out, nil
}

// ListCostSummaries implements payroll.PayrollService.
func (s *PayrollServiceImpl) ListCostSummaries(ctx context.Context, month string) ([]payroll.CostSummaryResponse, error) {
	m, err := s.PayrollRepository.GetMonth(ctx, month)
	if err != nil {
		return nil, err
	}
	summaries, err := s.PayrollRepository.ListCostSummariesByMonth(ctx, m.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cost summaries: %w", err)
	}

	out := make([]payroll.CostSummaryResponse, 0, len(summaries))
	for _, cs := range summaries {
		out = append(out, payroll.CostSummaryResponse{
			Department:     cs.Department,
			CostCenter:     cs.CostCenter,
			ProductionLine: cs.ProductionLine,
			TotalGross:     cs.TotalGross.StringFixed(2),
			TotalNet:       cs.TotalNet.StringFixed(2),
			EmployeeCount:  cs.EmployeeCount,
		})
	}
	return out, nil
}

func toMonthResponse(m payroll.PayrollMonth) payroll.MonthResponse {
	return payroll.MonthResponse{
		ID:              m.ID,
		Month:           m.Month,
		Status:          string(m.Status),
		TotalGross:      m.TotalGross.StringFixed(2),
		TotalDeductions: m.TotalDeductions.StringFixed(2),
		TotalNet:        m.TotalNet.StringFixed(2),
		EmployeeCount:   m.EmployeeCount,
		SnapshotVersion: m.SnapshotVersion,
		GeneratedBy:     m.GeneratedBy,
		GeneratedAt:     m.GeneratedAt.Format(time.RFC3339),
	}
}

func toRecordResponse(r payroll.PayrollRecord) payroll.RecordResponse {
	return payroll.RecordResponse{
		ID:                   r.ID,
		EmployeeID:           r.EmployeeID,
		Month:                r.Month,
		EmploymentType:       string(r.EmploymentType),
		WorkingDays:          r.WorkingDays,
		PresentDays:          r.PresentDays,
		AbsentDays:           r.AbsentDays,
		LateDays:             r.LateDays,
		OvertimeHours:        r.OvertimeHours.StringFixed(2),
		BaseSalary:           r.BaseSalary.StringFixed(2),
		OvertimePay:          r.OvertimePay.StringFixed(2),
		Allowances:           r.Allowances.StringFixed(2),
		GrossSalary:          r.GrossSalary.StringFixed(2),
		AbsenceDeduction:     r.AbsenceDeduction.StringFixed(2),
		LatePenalty:          r.LatePenalty.StringFixed(2),
		OtherPenalties:       r.OtherPenalties.StringFixed(2),
		LoanDeduction:        r.LoanDeduction.StringFixed(2),
		TransportDeduction:   r.TransportDeduction.StringFixed(2),
		UnpaidLeaveDeduction: r.UnpaidLeaveDeduction.StringFixed(2),
		TotalDeductions:      r.TotalDeductions.StringFixed(2),
		NetSalary:            r.NetSalary.StringFixed(2),
		IsLocked:             r.IsLocked,
		SnapshotVersion:      r.CalculationSnapshotVersion,
	}
}
