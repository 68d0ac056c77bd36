package payroll

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitrakarya/workforce-backend-go/internal/domain/attendance"
	"github.com/mitrakarya/workforce-backend-go/internal/domain/audit"
	"github.com/mitrakarya/workforce-backend-go/internal/domain/employee"
	"github.com/mitrakarya/workforce-backend-go/internal/domain/hrconfig"
	"github.com/mitrakarya/workforce-backend-go/internal/domain/leave"
	"github.com/mitrakarya/workforce-backend-go/internal/domain/loan"
	"github.com/mitrakarya/workforce-backend-go/internal/domain/payroll"
	"github.com/mitrakarya/workforce-backend-go/internal/repository/memory"
)

var hrActor = payroll.Actor{ID: "hr-1", Name: "HR Admin", Role: "hr"}

type payrollFixture struct {
	service        payroll.PayrollService
	payrollRepo    *memory.PayrollRepository
	attendanceRepo *memory.AttendanceRepository
	employeeRepo   *memory.EmployeeRepository
	leaveRepo      *memory.LeaveRepository
	loanRepo       *memory.LoanRepository
	configRepo     *memory.ConfigRepository
	auditRepo      *memory.AuditRepository
}

func newPayrollFixture(settings hrconfig.HRSettings) payrollFixture {
	f := payrollFixture{
		payrollRepo:    memory.NewPayrollRepository(),
		attendanceRepo: memory.NewAttendanceRepository(),
		employeeRepo:   memory.NewEmployeeRepository(),
		leaveRepo:      memory.NewLeaveRepository(),
		loanRepo:       memory.NewLoanRepository(),
		configRepo:     memory.NewConfigRepository(settings),
		auditRepo:      memory.NewAuditRepository(),
	}
	f.service = NewPayrollService(f.payrollRepo, f.attendanceRepo, f.employeeRepo, f.leaveRepo, f.loanRepo, f.configRepo, f.auditRepo, 200)
	return f
}

func defaultSettings() hrconfig.HRSettings {
	return hrconfig.HRSettings{
		WorkingHoursPerDay: 8,
		OvertimeMultiplier: decimal.NewFromFloat(1.5),
	}
}

func monthlyEmployee(id string) employee.Employee {
	return employee.Employee{
		ID:             id,
		Name:           "Monthly " + id,
		Department:     "assembly",
		CostCenter:     "cc-01",
		ProductionLine: "line-1",
		EmploymentType: employee.EmploymentMonthly,
		BaseSalary:     decimal.NewFromInt(6000),
		IsActive:       true,
	}
}

// seedJanuary writes presentDays present and absentDays absent records
// for January 2024, starting on the 1st.
func (f payrollFixture) seedJanuary(t *testing.T, employeeID string, presentDays, absentDays int, lateMinutes []int) {
	t.Helper()
	var records []attendance.ProcessedAttendanceRecord
	day := 1
	for i := 0; i < presentDays; i++ {
		checkIn := time.Date(2024, 1, day, 8, 0, 0, 0, time.UTC)
		rec := attendance.ProcessedAttendanceRecord{
			EmployeeID:   employeeID,
			WorkDate:     time.Date(2024, 1, day, 0, 0, 0, 0, time.UTC),
			CheckIn:      &checkIn,
			TotalMinutes: 480,
		}
		if i < len(lateMinutes) {
			rec.LateMinutes = lateMinutes[i]
		}
		records = append(records, rec)
		day++
	}
	for i := 0; i < absentDays; i++ {
		records = append(records, attendance.ProcessedAttendanceRecord{
			EmployeeID: employeeID,
			WorkDate:   time.Date(2024, 1, day, 0, 0, 0, 0, time.UTC),
			IsAbsent:   true,
		})
		day++
	}
	require.NoError(t, f.attendanceRepo.CreateBatch(context.Background(), records))
}

func TestPayrollService_Generate_MonthlyAbsenceDeduction(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := newPayrollFixture(defaultSettings())
	f.employeeRepo.Seed(monthlyEmployee("emp-m"))
	f.seedJanuary(t, "emp-m", 22, 2, nil)

	resp, err := f.service.Generate(ctx, payroll.GeneratePayrollRequest{Month: "2024-01"}, hrActor)
	require.NoError(t, err)

	assert.Equal(t, "draft", resp.Status)
	assert.Equal(t, 1, resp.EmployeeCount)

	records, err := f.service.ListRecords(ctx, "2024-01")
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, 24, rec.WorkingDays)
	assert.Equal(t, 22, rec.PresentDays)
	assert.Equal(t, 2, rec.AbsentDays)
	assert.Equal(t, "6000.00", rec.BaseSalary)
	assert.Equal(t, "500.00", rec.AbsenceDeduction)
	assert.Equal(t, "5500.00", rec.NetSalary)
	assert.False(t, rec.IsLocked)
}

func TestPayrollService_Generate_RegenerationIsIdempotent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := newPayrollFixture(defaultSettings())
	f.employeeRepo.Seed(monthlyEmployee("emp-m"))
	f.seedJanuary(t, "emp-m", 22, 2, nil)

	first, err := f.service.Generate(ctx, payroll.GeneratePayrollRequest{Month: "2024-01"}, hrActor)
	require.NoError(t, err)
	second, err := f.service.Generate(ctx, payroll.GeneratePayrollRequest{Month: "2024-01"}, hrActor)
	require.NoError(t, err)

	assert.Equal(t, first.TotalNet, second.TotalNet)
	assert.Equal(t, first.ID, second.ID)

	// Old draft records are fully replaced, never duplicated.
	records, err := f.service.ListRecords(ctx, "2024-01")
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestPayrollService_StateTransitions(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := newPayrollFixture(defaultSettings())
	f.employeeRepo.Seed(monthlyEmployee("emp-m"))
	f.seedJanuary(t, "emp-m", 24, 0, nil)

	_, err := f.service.Generate(ctx, payroll.GeneratePayrollRequest{Month: "2024-01"}, hrActor)
	require.NoError(t, err)

	// draft -> finalized
	finalized, err := f.service.Finalize(ctx, "2024-01", hrActor)
	require.NoError(t, err)
	assert.Equal(t, "finalized", finalized.Status)
	assert.NotEmpty(t, finalized.SnapshotVersion)

	records, err := f.service.ListRecords(ctx, "2024-01")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.True(t, records[0].IsLocked)
	assert.Equal(t, finalized.SnapshotVersion, records[0].SnapshotVersion)

	_, err = f.service.Generate(ctx, payroll.GeneratePayrollRequest{Month: "2024-01"}, hrActor)
	assert.ErrorIs(t, err, payroll.ErrMonthFinalized)
	_, err = f.service.Finalize(ctx, "2024-01", hrActor)
	assert.ErrorIs(t, err, payroll.ErrMonthNotDraft)

	// finalized -> locked
	locked, err := f.service.Lock(ctx, "2024-01", hrActor)
	require.NoError(t, err)
	assert.Equal(t, "locked", locked.Status)

	_, err = f.service.Lock(ctx, "2024-01", hrActor)
	assert.ErrorIs(t, err, payroll.ErrMonthAlreadyLocked)
	_, err = f.service.Generate(ctx, payroll.GeneratePayrollRequest{Month: "2024-01"}, hrActor)
	assert.ErrorIs(t, err, payroll.ErrMonthLocked)
	_, err = f.service.Finalize(ctx, "2024-01", hrActor)
	assert.ErrorIs(t, err, payroll.ErrMonthLocked)
}

func TestPayrollService_Lock_RequiresFinalized(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := newPayrollFixture(defaultSettings())
	f.employeeRepo.Seed(monthlyEmployee("emp-m"))
	f.seedJanuary(t, "emp-m", 24, 0, nil)

	_, err := f.service.Lock(ctx, "2024-01", hrActor)
	assert.ErrorIs(t, err, payroll.ErrMonthNotFound)

	_, err = f.service.Generate(ctx, payroll.GeneratePayrollRequest{Month: "2024-01"}, hrActor)
	require.NoError(t, err)

	_, err = f.service.Lock(ctx, "2024-01", hrActor)
	assert.ErrorIs(t, err, payroll.ErrMonthNotFinalized)
}

func TestPayrollService_NetSalaryClamp(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	emp := monthlyEmployee("emp-m")
	emp.TransportDeduction = decimal.NewFromInt(10000)

	f := newPayrollFixture(defaultSettings())
	f.employeeRepo.Seed(emp)
	f.seedJanuary(t, "emp-m", 24, 0, nil)

	_, err := f.service.Generate(ctx, payroll.GeneratePayrollRequest{Month: "2024-01"}, hrActor)
	require.NoError(t, err)

	records, err := f.service.ListRecords(ctx, "2024-01")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "0.00", records[0].NetSalary)

	// With negative salaries allowed, the clamp is off.
	settings := defaultSettings()
	settings.AllowNegativeSalary = true
	g := newPayrollFixture(settings)
	g.employeeRepo.Seed(emp)
	g.seedJanuary(t, "emp-m", 24, 0, nil)

	_, err = g.service.Generate(ctx, payroll.GeneratePayrollRequest{Month: "2024-01"}, hrActor)
	require.NoError(t, err)

	records, err = g.service.ListRecords(ctx, "2024-01")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "-4000.00", records[0].NetSalary)
}

func TestPayrollService_LoanDeductionAndInstallment(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := newPayrollFixture(defaultSettings())
	f.employeeRepo.Seed(monthlyEmployee("emp-m"))
	f.seedJanuary(t, "emp-m", 24, 0, nil)

	l := loan.NewLoan("emp-m", decimal.NewFromInt(6000), 12, "2024-01")
	created, err := f.loanRepo.Create(ctx, l)
	require.NoError(t, err)
	assert.Equal(t, "500.00", created.InstallmentAmount.StringFixed(2))

	_, err = f.service.Generate(ctx, payroll.GeneratePayrollRequest{Month: "2024-01"}, hrActor)
	require.NoError(t, err)

	records, err := f.service.ListRecords(ctx, "2024-01")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "500.00", records[0].LoanDeduction)
	assert.Equal(t, "5500.00", records[0].NetSalary)

	// Installments are consumed at finalize, not while drafting.
	afterDraft, err := f.loanRepo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 12, afterDraft.RemainingInstallments)

	_, err = f.service.Finalize(ctx, "2024-01", hrActor)
	require.NoError(t, err)

	afterFinalize, err := f.loanRepo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 11, afterFinalize.RemainingInstallments)
	assert.Equal(t, loan.LoanStatusActive, afterFinalize.Status)
}

func TestPayrollService_Finalize_ResumesInstallmentAfterInterruption(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := newPayrollFixture(defaultSettings())
	f.employeeRepo.Seed(monthlyEmployee("emp-m"))
	f.seedJanuary(t, "emp-m", 24, 0, nil)

	created, err := f.loanRepo.Create(ctx, loan.NewLoan("emp-m", decimal.NewFromInt(6000), 12, "2024-01"))
	require.NoError(t, err)

	_, err = f.service.Generate(ctx, payroll.GeneratePayrollRequest{Month: "2024-01"}, hrActor)
	require.NoError(t, err)

	// An earlier finalize attempt locked every record and died before
	// touching the loans. The re-run must still consume the installment.
	m, err := f.payrollRepo.GetMonth(ctx, "2024-01")
	require.NoError(t, err)
	records, err := f.payrollRepo.ListRecordsByMonth(ctx, m.ID)
	require.NoError(t, err)
	ids := make([]string, 0, len(records))
	for _, r := range records {
		ids = append(ids, r.ID)
	}
	require.NoError(t, f.payrollRepo.LockRecords(ctx, ids, "snap-interrupted"))

	_, err = f.service.Finalize(ctx, "2024-01", hrActor)
	require.NoError(t, err)

	l, err := f.loanRepo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 11, l.RemainingInstallments)
	assert.Equal(t, "2024-01", l.LastInstallmentMonth)
}

func TestPayrollService_LatePenalty(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := newPayrollFixture(defaultSettings())
	f.configRepo.SetLateRules([]hrconfig.LateRule{
		{ID: "lr-1", MinutesFrom: 1, MinutesTo: 15, PenaltyAmount: decimal.NewFromInt(5), IsActive: true},
		{ID: "lr-2", MinutesFrom: 16, MinutesTo: 60, PenaltyAmount: decimal.NewFromInt(10), IsActive: true},
	})
	f.employeeRepo.Seed(monthlyEmployee("emp-m"))
	f.seedJanuary(t, "emp-m", 24, 0, []int{20, 40})

	_, err := f.service.Generate(ctx, payroll.GeneratePayrollRequest{Month: "2024-01"}, hrActor)
	require.NoError(t, err)

	records, err := f.service.ListRecords(ctx, "2024-01")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 2, records[0].LateDays)
	assert.Equal(t, "20.00", records[0].LatePenalty)
}

func TestPayrollService_Generate_DisciplinaryPenalties(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := newPayrollFixture(defaultSettings())
	f.configRepo.SetPenaltyRules([]hrconfig.PenaltyRule{
		{ID: "pr-warn", Name: "written warning", Kind: hrconfig.PenaltyFixed, Amount: decimal.NewFromInt(100), IsActive: true},
		{ID: "pr-dmg", Name: "equipment damage", Kind: hrconfig.PenaltyPercentage, Amount: decimal.NewFromInt(5), IsActive: true},
		{ID: "pr-old", Name: "retired", Kind: hrconfig.PenaltyFixed, Amount: decimal.NewFromInt(999), IsActive: false},
	})
	f.employeeRepo.Seed(monthlyEmployee("emp-m"))
	f.seedJanuary(t, "emp-m", 24, 0, nil)

	for _, ruleID := range []string{"pr-warn", "pr-dmg", "pr-old"} {
		_, err := f.configRepo.CreatePenaltyAssignment(ctx, hrconfig.PenaltyAssignment{
			EmployeeID: "emp-m",
			RuleID:     ruleID,
			Month:      "2024-01",
		})
		require.NoError(t, err)
	}

	_, err := f.service.Generate(ctx, payroll.GeneratePayrollRequest{Month: "2024-01"}, hrActor)
	require.NoError(t, err)

	records, err := f.service.ListRecords(ctx, "2024-01")
	require.NoError(t, err)
	require.Len(t, records, 1)

	// 100 fixed plus 5% of the 6000 base; the inactive rule charges
	// nothing despite being assigned.
	rec := records[0]
	assert.Equal(t, "400.00", rec.OtherPenalties)
	assert.Equal(t, "400.00", rec.TotalDeductions)
	assert.Equal(t, "5600.00", rec.NetSalary)
}

func TestPayrollService_UnpaidLeaveDeduction(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := newPayrollFixture(defaultSettings())
	f.employeeRepo.Seed(monthlyEmployee("emp-m"))
	f.seedJanuary(t, "emp-m", 24, 0, nil)

	_, err := f.leaveRepo.Create(ctx, leave.LeaveRequest{
		EmployeeID:    "emp-m",
		LeaveType:     "unpaid",
		StartDate:     time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		EndDate:       time.Date(2024, 1, 14, 0, 0, 0, 0, time.UTC),
		AffectsSalary: true,
		Status:        leave.LeaveStatusApproved,
	})
	require.NoError(t, err)

	_, err = f.service.Generate(ctx, payroll.GeneratePayrollRequest{Month: "2024-01"}, hrActor)
	require.NoError(t, err)

	records, err := f.service.ListRecords(ctx, "2024-01")
	require.NoError(t, err)
	require.Len(t, records, 1)

	// 5 unpaid days at 6000/24 = 250 per day.
	assert.Equal(t, "1250.00", records[0].UnpaidLeaveDeduction)
}

func TestPayrollService_Finalize_WritesCostSummaries(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	empA := monthlyEmployee("emp-a")
	empB := monthlyEmployee("emp-b")
	empB.Department = "packing"

	f := newPayrollFixture(defaultSettings())
	f.employeeRepo.Seed(empA, empB)
	f.seedJanuary(t, "emp-a", 24, 0, nil)
	f.seedJanuary(t, "emp-b", 24, 0, nil)

	_, err := f.service.Generate(ctx, payroll.GeneratePayrollRequest{Month: "2024-01"}, hrActor)
	require.NoError(t, err)
	_, err = f.service.Finalize(ctx, "2024-01", hrActor)
	require.NoError(t, err)

	summaries, err := f.service.ListCostSummaries(ctx, "2024-01")
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, "assembly", summaries[0].Department)
	assert.Equal(t, "6000.00", summaries[0].TotalNet)
	assert.Equal(t, 1, summaries[0].EmployeeCount)
}

type failingAuditRepo struct{ *memory.AuditRepository }

func (failingAuditRepo) Create(context.Context, audit.Entry) (audit.Entry, error) {
	return audit.Entry{}, errors.New("audit store unavailable")
}

func TestPayrollService_AuditWriteFailureFailsGenerate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := newPayrollFixture(defaultSettings())
	f.employeeRepo.Seed(monthlyEmployee("emp-m"))
	f.seedJanuary(t, "emp-m", 24, 0, nil)
	svc := NewPayrollService(f.payrollRepo, f.attendanceRepo, f.employeeRepo, f.leaveRepo, f.loanRepo, f.configRepo, failingAuditRepo{}, 200)

	_, err := svc.Generate(ctx, payroll.GeneratePayrollRequest{Month: "2024-01"}, hrActor)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "audit")
}

func TestPayrollService_Generate_NoEmployees(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := newPayrollFixture(defaultSettings())

	_, err := f.service.Generate(ctx, payroll.GeneratePayrollRequest{Month: "2024-01"}, hrActor)
	assert.ErrorIs(t, err, payroll.ErrNoEmployees)
}
