package payroll

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mitrakarya/workforce-backend-go/internal/domain/employee"
	"github.com/mitrakarya/workforce-backend-go/internal/domain/hrconfig"
)

// MonthStatus enum. Transitions are strictly forward-only:
// draft -> finalized -> locked.
type MonthStatus string

const (
	MonthStatusDraft     MonthStatus = "draft"
	MonthStatusFinalized MonthStatus = "finalized"
	MonthStatusLocked    MonthStatus = "locked"
)

// PayrollMonth is the per-period aggregate. Created by the first
// generation call; regeneratable while draft; carries the rule
// snapshot once finalized.
type PayrollMonth struct {
	ID     string
	Month  string // "2006-01"
	Status MonthStatus

	TotalGross      decimal.Decimal
	TotalDeductions decimal.Decimal
	TotalNet        decimal.Decimal
	EmployeeCount   int

	GeneratedBy string
	GeneratedAt time.Time

	FinalizedBy *string
	FinalizedAt *time.Time
	LockedBy    *string
	LockedAt    *time.Time

	// Captured at finalize time; immutable thereafter.
	RuleSnapshot    *RuleSnapshot
	SnapshotVersion string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// RuleSnapshot freezes the exact ruleset a finalized month was
// computed with, independent of later config edits.
type RuleSnapshot struct {
	Version        string                   `json:"version"`
	LateRules      []hrconfig.LateRule      `json:"late_rules"`
	PenaltyRules   []hrconfig.PenaltyRule   `json:"penalty_rules"`
	AllowanceTypes []hrconfig.AllowanceType `json:"allowance_types"`
	Settings       hrconfig.HRSettings      `json:"settings"`
	ConfigVersions hrconfig.ConfigVersions  `json:"config_versions"`
	CapturedAt     time.Time                `json:"captured_at"`
}

// PayrollRecord is one employee's salary for one month. Mutable while
// the month is draft, immutable once IsLocked is set.
type PayrollRecord struct {
	ID         string
	MonthID    string
	Month      string
	EmployeeID string

	EmploymentType employee.EmploymentType
	Department     string
	CostCenter     string
	ProductionLine string

	WorkingDays   int
	PresentDays   int
	AbsentDays    int
	LateDays      int
	OvertimeHours decimal.Decimal

	BaseSalary  decimal.Decimal
	OvertimePay decimal.Decimal
	Allowances  decimal.Decimal
	GrossSalary decimal.Decimal

	AbsenceDeduction     decimal.Decimal
	LatePenalty          decimal.Decimal
	OtherPenalties       decimal.Decimal
	LoanDeduction        decimal.Decimal
	TransportDeduction   decimal.Decimal
	UnpaidLeaveDeduction decimal.Decimal
	TotalDeductions      decimal.Decimal

	NetSalary decimal.Decimal

	IsLocked                   bool
	CalculationSnapshotVersion string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// CostSummary aggregates finalized payroll cost per
// department x cost-center x production-line.
type CostSummary struct {
	ID             string
	MonthID        string
	Month          string
	Department     string
	CostCenter     string
	ProductionLine string
	TotalGross     decimal.Decimal
	TotalNet       decimal.Decimal
	EmployeeCount  int
	CreatedAt      time.Time
}

// AttendanceSummary is the per-employee aggregate the generator builds
// from processed attendance records. Counting only spans non-weekly-off
// days.
type AttendanceSummary struct {
	EmployeeID       string
	WorkingDays      int
	PresentDays      int
	AbsentDays       int
	LateDays         int
	TotalLateMinutes int
	OvertimeHours    decimal.Decimal
}
