package loan

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNewLoan_InstallmentAmount(t *testing.T) {
	t.Parallel()

	l := NewLoan("emp-1", decimal.NewFromInt(6000), 12, "2026-01")

	assert.True(t, l.InstallmentAmount.Equal(decimal.NewFromInt(500)), "got %s", l.InstallmentAmount)
	assert.Equal(t, 12, l.RemainingInstallments)
	assert.Equal(t, LoanStatusActive, l.Status)
}

func TestLoan_ProcessInstallment_Lifecycle(t *testing.T) {
	t.Parallel()

	l := NewLoan("emp-1", decimal.NewFromInt(6000), 12, "2026-01")

	for i := 0; i < 5; i++ {
		got := l.ProcessInstallment()
		assert.True(t, got.Equal(decimal.NewFromInt(500)))
	}
	assert.Equal(t, 7, l.RemainingInstallments)
	assert.Equal(t, LoanStatusActive, l.Status)

	for i := 0; i < 7; i++ {
		l.ProcessInstallment()
	}
	assert.Equal(t, 0, l.RemainingInstallments)
	assert.Equal(t, LoanStatusClosed, l.Status)

	// further calls deduct nothing
	assert.True(t, l.ProcessInstallment().IsZero())
	assert.Equal(t, 0, l.RemainingInstallments)
}

func TestNewLoan_RoundsInstallment(t *testing.T) {
	t.Parallel()

	l := NewLoan("emp-1", decimal.NewFromInt(1000), 3, "2026-01")
	assert.Equal(t, "333.33", l.InstallmentAmount.StringFixed(2))
}
