package loan

import "errors"

var (
	ErrLoanNotFound = errors.New("loan not found")
	ErrLoanClosed   = errors.New("loan already closed")
)
