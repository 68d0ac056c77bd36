package attendance

import "errors"

var (
	ErrRecordNotFound = errors.New("attendance record not found")
	ErrEmptyBatch     = errors.New("attendance batch contains no rows")
	ErrShiftRequired  = errors.New("shift is required for attendance processing")
)
