package shift

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestShift_MidnightCrossingMinutes(t *testing.T) {
	t.Parallel()

	s := Shift{
		StartMinutes:    22 * 60,
		EndMinutes:      6 * 60,
		BreakMinutes:    30,
		CrossesMidnight: true,
	}

	assert.Equal(t, 480, s.GrossMinutes())
	assert.Equal(t, 450, s.NetMinutes())
}

func TestShift_DayShiftMinutes(t *testing.T) {
	t.Parallel()

	s := Shift{
		StartMinutes: 8 * 60,
		EndMinutes:   17 * 60,
		BreakMinutes: 60,
	}

	assert.Equal(t, 540, s.GrossMinutes())
	assert.Equal(t, 480, s.NetMinutes())
}

func TestShift_NetMinutesNeverNegative(t *testing.T) {
	t.Parallel()

	s := Shift{
		StartMinutes: 9 * 60,
		EndMinutes:   10 * 60,
		BreakMinutes: 120,
	}

	assert.Equal(t, 0, s.NetMinutes())
}

func TestMinuteOfDay(t *testing.T) {
	t.Parallel()

	at := time.Date(2024, 1, 8, 22, 15, 0, 0, time.UTC)
	assert.Equal(t, 22*60+15, MinuteOfDay(at))
}
