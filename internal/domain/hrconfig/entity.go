package hrconfig

import (
	"time"

	"github.com/shopspring/decimal"
)

// HRSettings - company-wide payroll and approval configuration
type HRSettings struct {
	ID                  string
	WorkingHoursPerDay  int
	WeeklyOffDays       []time.Weekday
	AllowNegativeSalary bool
	OvertimeMultiplier  decimal.Decimal

	// Approval workflow
	MaxChainDepth     int
	RequireHRApproval bool
	HRApproverID      string
	DelegationEnabled bool

	// Auto-approval thresholds; a zero value disables the threshold.
	AutoApproveLeaveDaysBelow     decimal.Decimal
	AutoApproveOvertimeHoursBelow decimal.Decimal
	AutoApproveLoanAmountBelow    decimal.Decimal

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsWeeklyOff reports whether d falls on a configured weekly-off day.
func (s HRSettings) IsWeeklyOff(d time.Time) bool {
	for _, wd := range s.WeeklyOffDays {
		if d.Weekday() == wd {
			return true
		}
	}
	return false
}

// LateRule - one tier of the lateness penalty table. A check-in with
// lateMinutes inside [MinutesFrom, MinutesTo] matches the tier.
type LateRule struct {
	ID            string
	MinutesFrom   int
	MinutesTo     int
	PenaltyAmount decimal.Decimal
	IsActive      bool
}

// Matches reports whether lateMinutes falls inside this tier.
func (r LateRule) Matches(lateMinutes int) bool {
	return lateMinutes >= r.MinutesFrom && lateMinutes <= r.MinutesTo
}

// PenaltyKind enum
type PenaltyKind string

const (
	PenaltyFixed      PenaltyKind = "fixed"
	PenaltyPercentage PenaltyKind = "percentage"
)

// PenaltyRule - disciplinary penalty, fixed amount or percentage of
// base salary.
type PenaltyRule struct {
	ID       string
	Name     string
	Kind     PenaltyKind
	Amount   decimal.Decimal // fixed amount, or percent when Kind=percentage
	IsActive bool
}

// PenaltyAssignment attaches one disciplinary penalty rule to one
// employee for one payroll month. The amount is resolved against the
// rule table at generation time.
type PenaltyAssignment struct {
	ID         string
	EmployeeID string
	RuleID     string
	Month      string // "2006-01"
	Reason     string
	CreatedAt  time.Time
}

// AllowanceType - recurring allowance item.
type AllowanceType struct {
	ID       string
	Name     string
	Amount   decimal.Decimal
	IsActive bool
}

// ConfigVersions records the version number of each independently
// versioned rule table at a point in time. Stamped onto payroll runs
// for exact historical reproduction.
type ConfigVersions map[string]int

// Module keys for ConfigVersions.
const (
	ModuleSettings   = "settings"
	ModuleLateRules  = "late_rules"
	ModulePenalties  = "penalty_rules"
	ModuleAllowances = "allowance_types"
)
