package payroll

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/mitrakarya/workforce-backend-go/internal/domain/attendance"
	"github.com/mitrakarya/workforce-backend-go/internal/domain/hrconfig"
	"github.com/mitrakarya/workforce-backend-go/internal/domain/payroll"
)

func TestBuildAttendanceSummaries(t *testing.T) {
	t.Parallel()

	checkIn := time.Date(2024, 1, 8, 8, 0, 0, 0, time.UTC)
	records := []attendance.ProcessedAttendanceRecord{
		{EmployeeID: "e1", CheckIn: &checkIn, TotalMinutes: 480},
		{EmployeeID: "e1", CheckIn: &checkIn, TotalMinutes: 540, LateMinutes: 20},
		{EmployeeID: "e1", IsAbsent: true},
		{EmployeeID: "e1", IsWeeklyOff: true},
	}

	summaries := buildAttendanceSummaries(records, 480)
	sum := summaries["e1"]

	assert.Equal(t, 3, sum.WorkingDays)
	assert.Equal(t, 2, sum.PresentDays)
	assert.Equal(t, 1, sum.AbsentDays)
	assert.Equal(t, 1, sum.LateDays)
	assert.Equal(t, 20, sum.TotalLateMinutes)
	assert.True(t, sum.OvertimeHours.Equal(decimal.NewFromInt(1)), "got %s", sum.OvertimeHours)
}

func TestLatePenalty_AveragesAcrossLateDays(t *testing.T) {
	t.Parallel()

	rules := []hrconfig.LateRule{
		{MinutesFrom: 1, MinutesTo: 15, PenaltyAmount: decimal.NewFromInt(5), IsActive: true},
		{MinutesFrom: 16, MinutesTo: 60, PenaltyAmount: decimal.NewFromInt(10), IsActive: true},
	}

	// 20 and 40 late minutes over 2 late days: average 30 matches the
	// second tier, charged once per late day.
	sum := payroll.AttendanceSummary{LateDays: 2, TotalLateMinutes: 60}
	got := latePenalty(sum, rules)
	assert.Equal(t, "20.00", got.StringFixed(2))

	assert.True(t, latePenalty(payroll.AttendanceSummary{}, rules).IsZero())
}

func TestLatePenalty_IgnoresInactiveRules(t *testing.T) {
	t.Parallel()

	rules := []hrconfig.LateRule{
		{MinutesFrom: 1, MinutesTo: 60, PenaltyAmount: decimal.NewFromInt(5), IsActive: false},
	}
	sum := payroll.AttendanceSummary{LateDays: 1, TotalLateMinutes: 30}
	assert.True(t, latePenalty(sum, rules).IsZero())
}

func TestPenaltyAmount(t *testing.T) {
	t.Parallel()

	base := decimal.NewFromInt(6000)

	fixed := hrconfig.PenaltyRule{Kind: hrconfig.PenaltyFixed, Amount: decimal.NewFromInt(100)}
	assert.Equal(t, "100.00", penaltyAmount(fixed, base).StringFixed(2))

	pct := hrconfig.PenaltyRule{Kind: hrconfig.PenaltyPercentage, Amount: decimal.NewFromInt(5)}
	assert.Equal(t, "300.00", penaltyAmount(pct, base).StringFixed(2))
}

func TestAllowanceTotal(t *testing.T) {
	t.Parallel()

	types := []hrconfig.AllowanceType{
		{Name: "meal", Amount: decimal.NewFromFloat(100.50), IsActive: true},
		{Name: "shift", Amount: decimal.NewFromFloat(50.25), IsActive: true},
		{Name: "legacy", Amount: decimal.NewFromInt(999), IsActive: false},
	}

	assert.Equal(t, "150.75", allowanceTotal(types).StringFixed(2))
}
