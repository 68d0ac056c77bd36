package payroll

import "errors"

var (
	ErrMonthNotFound      = errors.New("payroll month not found")
	ErrRecordNotFound     = errors.New("payroll record not found")
	ErrMonthFinalized     = errors.New("payroll month is finalized: cannot recalculate")
	ErrMonthLocked        = errors.New("payroll month is locked: cannot modify")
	ErrMonthNotDraft      = errors.New("payroll month is not in draft status")
	ErrMonthNotFinalized  = errors.New("payroll month is not finalized")
	ErrMonthAlreadyLocked = errors.New("payroll month is already locked")
	ErrNoEmployees        = errors.New("no employees to generate payroll for")
	ErrInvalidMonth       = errors.New("invalid payroll month, expected YYYY-MM")
)
