package salary

import (
	"github.com/shopspring/decimal"

	"github.com/mitrakarya/workforce-backend-go/internal/domain/employee"
)

// Strategy computes the employment-type-specific salary components.
// Every monetary result is rounded to 2 decimals before it is
// combined with anything else, so results reproduce deterministically.
type Strategy interface {
	// CalculateBase returns the base pay for the period.
	CalculateBase(emp employee.Employee, workingDays, presentDays int) decimal.Decimal

	// CalculateAbsenceDeduction returns the deduction for absent days.
	CalculateAbsenceDeduction(emp employee.Employee, absentDays, workingDays int) decimal.Decimal

	// CalculateOvertime returns overtime pay for the given hours at the
	// configured multiplier.
	CalculateOvertime(emp employee.Employee, overtimeHours, multiplier decimal.Decimal) decimal.Decimal

	// DailyRate returns the per-day rate used for unpaid-leave
	// deductions.
	DailyRate(emp employee.Employee, workingDays int) decimal.Decimal
}

// ForEmploymentType selects the strategy for an employment type.
// Unknown types fall back to monthly, the dominant case on the floor.
func ForEmploymentType(t employee.EmploymentType) Strategy {
	switch t {
	case employee.EmploymentDaily:
		return dailyStrategy{}
	case employee.EmploymentHourly:
		return hourlyStrategy{}
	default:
		return monthlyStrategy{}
	}
}

var (
	hoursPerDay    = decimal.NewFromInt(8)
	daysPerMonth   = decimal.NewFromInt(30)
	monthlyOTHours = daysPerMonth.Mul(hoursPerDay) // 240
)

// monthlyStrategy: fixed salary, prorated absence deduction, overtime
// from the salary/(30*8) hourly rate.
type monthlyStrategy struct{}

func (monthlyStrategy) CalculateBase(emp employee.Employee, workingDays, presentDays int) decimal.Decimal {
	return emp.BaseSalary.Round(2)
}

func (monthlyStrategy) CalculateAbsenceDeduction(emp employee.Employee, absentDays, workingDays int) decimal.Decimal {
	if absentDays <= 0 || workingDays <= 0 {
		return decimal.Zero
	}
	perDay := emp.BaseSalary.Div(decimal.NewFromInt(int64(workingDays)))
	return perDay.Mul(decimal.NewFromInt(int64(absentDays))).Round(2)
}

func (monthlyStrategy) CalculateOvertime(emp employee.Employee, overtimeHours, multiplier decimal.Decimal) decimal.Decimal {
	if overtimeHours.IsZero() {
		return decimal.Zero
	}
	hourlyRate := emp.BaseSalary.Div(monthlyOTHours)
	return hourlyRate.Mul(overtimeHours).Mul(multiplier).Round(2)
}

func (monthlyStrategy) DailyRate(emp employee.Employee, workingDays int) decimal.Decimal {
	if workingDays <= 0 {
		return decimal.Zero
	}
	return emp.BaseSalary.Div(decimal.NewFromInt(int64(workingDays))).Round(2)
}

// dailyStrategy: paid only for days worked, so absence carries no
// separate deduction.
type dailyStrategy struct{}

func (dailyStrategy) CalculateBase(emp employee.Employee, workingDays, presentDays int) decimal.Decimal {
	return emp.DailyRate.Mul(decimal.NewFromInt(int64(presentDays))).Round(2)
}

func (dailyStrategy) CalculateAbsenceDeduction(emp employee.Employee, absentDays, workingDays int) decimal.Decimal {
	return decimal.Zero
}

func (dailyStrategy) CalculateOvertime(emp employee.Employee, overtimeHours, multiplier decimal.Decimal) decimal.Decimal {
	if overtimeHours.IsZero() {
		return decimal.Zero
	}
	hourlyRate := emp.DailyRate.Div(hoursPerDay)
	return hourlyRate.Mul(overtimeHours).Mul(multiplier).Round(2)
}

func (dailyStrategy) DailyRate(emp employee.Employee, workingDays int) decimal.Decimal {
	return emp.DailyRate.Round(2)
}

// hourlyStrategy: base assumes a standard 8-hour day per present day.
type hourlyStrategy struct{}

func (hourlyStrategy) CalculateBase(emp employee.Employee, workingDays, presentDays int) decimal.Decimal {
	return emp.HourlyRate.Mul(decimal.NewFromInt(int64(presentDays))).Mul(hoursPerDay).Round(2)
}

func (hourlyStrategy) CalculateAbsenceDeduction(emp employee.Employee, absentDays, workingDays int) decimal.Decimal {
	return decimal.Zero
}

func (hourlyStrategy) CalculateOvertime(emp employee.Employee, overtimeHours, multiplier decimal.Decimal) decimal.Decimal {
	if overtimeHours.IsZero() {
		return decimal.Zero
	}
	return emp.HourlyRate.Mul(overtimeHours).Mul(multiplier).Round(2)
}

func (hourlyStrategy) DailyRate(emp employee.Employee, workingDays int) decimal.Decimal {
	return emp.HourlyRate.Mul(hoursPerDay).Round(2)
}
