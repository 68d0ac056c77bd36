package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

// EmploymentType selects the salary calculation strategy.
type EmploymentType string

const (
	EmploymentMonthly EmploymentType = "monthly"
	EmploymentDaily   EmploymentType = "daily"
	EmploymentHourly  EmploymentType = "hourly"
)

// Employee holds the workforce master data the payroll and approval
// engines consume. Org-chart fields (ManagerID, Level) are read at
// approval-chain construction time only; later edits never alter an
// existing chain.
type Employee struct {
	ID             string
	Code           string
	Name           string
	Department     string
	CostCenter     string
	ProductionLine string
	Position       string
	Level          int
	ManagerID      *string
	EmploymentType EmploymentType

	BaseSalary decimal.Decimal // monthly employees
	DailyRate  decimal.Decimal // daily employees
	HourlyRate decimal.Decimal // hourly employees

	TransportDeduction decimal.Decimal // fixed monthly transport charge

	DeviceCode string // biometric device code on punch rows
	ShiftID    string
	IsActive   bool

	CreatedAt time.Time
	UpdatedAt time.Time
}
