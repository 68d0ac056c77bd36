package payroll

import (
	"github.com/shopspring/decimal"

	"github.com/mitrakarya/workforce-backend-go/internal/domain/attendance"
	"github.com/mitrakarya/workforce-backend-go/internal/domain/hrconfig"
	"github.com/mitrakarya/workforce-backend-go/internal/domain/payroll"
)

var sixty = decimal.NewFromInt(60)

// buildAttendanceSummaries aggregates processed attendance records into
// per-employee month summaries. Day counters only span non-weekly-off
// days. Overtime hours are whatever exceeds the expected daily minutes;
// the attendance engine clamps its own output, so overtime only enters
// through corrected or imported logs.
func buildAttendanceSummaries(records []attendance.ProcessedAttendanceRecord, expectedDailyMinutes int) map[string]payroll.AttendanceSummary {
	summaries := make(map[string]payroll.AttendanceSummary)

	for _, rec := range records {
		sum := summaries[rec.EmployeeID]
		sum.EmployeeID = rec.EmployeeID

		if !rec.IsWeeklyOff {
			sum.WorkingDays++
			switch {
			case rec.IsAbsent:
				sum.AbsentDays++
			case rec.CheckIn != nil:
				sum.PresentDays++
			}
			if rec.LateMinutes > 0 {
				sum.LateDays++
				sum.TotalLateMinutes += rec.LateMinutes
			}
		}

		if over := rec.TotalMinutes - expectedDailyMinutes; over > 0 {
			sum.OvertimeHours = sum.OvertimeHours.Add(decimal.NewFromInt(int64(over)).Div(sixty)).Round(2)
		}

		summaries[rec.EmployeeID] = sum
	}

	return summaries
}

// latePenalty matches the average lateness across late days against the
// tiered rule table and charges the matched tier once per late day.
// Averaging rather than summing per-incident penalties is deliberate
// and pending product confirmation.
func latePenalty(sum payroll.AttendanceSummary, rules []hrconfig.LateRule) decimal.Decimal {
	if sum.LateDays == 0 {
		return decimal.Zero
	}
	avg := sum.TotalLateMinutes / sum.LateDays
	for _, r := range rules {
		if !r.IsActive {
			continue
		}
		if r.Matches(avg) {
			return r.PenaltyAmount.Mul(decimal.NewFromInt(int64(sum.LateDays))).Round(2)
		}
	}
	return decimal.Zero
}

// penaltyAmount resolves a disciplinary penalty rule against a base
// salary: fixed rules charge their amount as-is, percentage rules a
// share of base.
func penaltyAmount(rule hrconfig.PenaltyRule, base decimal.Decimal) decimal.Decimal {
	if rule.Kind == hrconfig.PenaltyPercentage {
		return base.Mul(rule.Amount).Div(decimal.NewFromInt(100)).Round(2)
	}
	return rule.Amount.Round(2)
}

// allowanceTotal sums active allowance items, each independently
// rounded to 2 decimals, then rounds the sum again.
func allowanceTotal(types []hrconfig.AllowanceType) decimal.Decimal {
	total := decimal.Zero
	for _, a := range types {
		if !a.IsActive {
			continue
		}
		total = total.Add(a.Amount.Round(2))
	}
	return total.Round(2)
}
