package attendance

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitrakarya/workforce-backend-go/internal/domain/attendance"
	"github.com/mitrakarya/workforce-backend-go/internal/domain/employee"
	"github.com/mitrakarya/workforce-backend-go/internal/domain/hrconfig"
	"github.com/mitrakarya/workforce-backend-go/internal/domain/shift"
	"github.com/mitrakarya/workforce-backend-go/internal/repository/memory"
)

func dayShift() shift.Shift {
	return shift.Shift{
		ID:               "shift-day",
		Name:             "Day",
		StartMinutes:     8 * 60,
		EndMinutes:       17 * 60,
		BreakMinutes:     60,
		LateGraceMinutes: 15,
		IsActive:         true,
	}
}

func nightShift() shift.Shift {
	return shift.Shift{
		ID:               "shift-night",
		Name:             "Night",
		StartMinutes:     22 * 60,
		EndMinutes:       6 * 60,
		BreakMinutes:     30,
		LateGraceMinutes: 10,
		CrossesMidnight:  true,
		IsActive:         true,
	}
}

type attendanceFixture struct {
	service        attendance.AttendanceService
	attendanceRepo *memory.AttendanceRepository
}

func newAttendanceFixture(shifts []shift.Shift, employees []employee.Employee) attendanceFixture {
	attendanceRepo := memory.NewAttendanceRepository()
	employeeRepo := memory.NewEmployeeRepository()
	employeeRepo.Seed(employees...)
	shiftRepo := memory.NewShiftRepository()
	shiftRepo.Seed(shifts...)
	configRepo := memory.NewConfigRepository(hrconfig.HRSettings{
		WorkingHoursPerDay: 8,
		WeeklyOffDays:      []time.Weekday{time.Sunday},
	})

	return attendanceFixture{
		service:        NewAttendanceService(attendanceRepo, employeeRepo, shiftRepo, configRepo),
		attendanceRepo: attendanceRepo,
	}
}

func TestParsePunchCSV_TolerantRows(t *testing.T) {
	t.Parallel()

	csv := "device_code,timestamp\n" +
		"1001,2024-01-08 08:00:00\n" +
		"badline\n" +
		"1001,not-a-time\n" +
		",2024-01-08 09:00:00\n" +
		"1001,2024-01-08 17:00:00\n"

	punches, rowErrs := parsePunchCSV(csv)

	assert.Len(t, punches, 2)
	assert.Len(t, rowErrs, 3)
	assert.Equal(t, 3, rowErrs[0].Line)
	assert.Equal(t, "1001", punches[0].DeviceCode)
}

func TestLateMinutes_MonotonicOnDayShift(t *testing.T) {
	t.Parallel()

	s := dayShift()
	prev := 0
	for m := 8 * 60; m <= 10*60; m++ {
		checkIn := time.Date(2024, 1, 8, m/60, m%60, 0, 0, time.UTC)
		late := lateMinutes(checkIn, s)
		assert.GreaterOrEqual(t, late, prev, "check-in at minute %d", m)
		prev = late
	}
}

func TestLateMinutes_NightShiftWrapAround(t *testing.T) {
	t.Parallel()

	s := nightShift()

	early := time.Date(2024, 1, 8, 21, 30, 0, 0, time.UTC)
	assert.Equal(t, 0, lateMinutes(early, s))

	withinGrace := time.Date(2024, 1, 8, 22, 8, 0, 0, time.UTC)
	assert.Equal(t, 0, lateMinutes(withinGrace, s))

	afterMidnight := time.Date(2024, 1, 9, 0, 30, 0, 0, time.UTC)
	assert.Equal(t, 150, lateMinutes(afterMidnight, s))
}

func TestAttendanceService_ProcessBatch_DayShift(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := newAttendanceFixture(
		[]shift.Shift{dayShift()},
		[]employee.Employee{
			{ID: "emp-1", Name: "Ayu", DeviceCode: "1001", ShiftID: "shift-day", IsActive: true},
			{ID: "emp-2", Name: "Budi", DeviceCode: "1002", ShiftID: "shift-day", IsActive: true},
		},
	)

	resp, err := f.service.ProcessBatch(ctx, attendance.ProcessBatchRequest{
		CSV:     "1001,2024-01-08 08:00:00\n1001,2024-01-08 17:00:00\n",
		ShiftID: "shift-day",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.BatchID)
	assert.Equal(t, 2, resp.RecordCount)
	assert.Zero(t, resp.ErrorCount)
	assert.Empty(t, resp.UnmappedCodes)

	present, err := f.attendanceRepo.ListByEmployee(ctx, "emp-1", date(2024, 1, 8), date(2024, 1, 8))
	require.NoError(t, err)
	require.Len(t, present, 1)
	assert.Equal(t, 480, present[0].TotalMinutes)
	assert.Zero(t, present[0].LateMinutes)
	assert.False(t, present[0].IsAbsent)
	assert.False(t, present[0].IsIncomplete)

	absent, err := f.attendanceRepo.ListByEmployee(ctx, "emp-2", date(2024, 1, 8), date(2024, 1, 8))
	require.NoError(t, err)
	require.Len(t, absent, 1)
	assert.True(t, absent[0].IsAbsent)
	assert.Nil(t, absent[0].CheckIn)
}

func TestAttendanceService_ProcessBatch_NightShiftAttribution(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := newAttendanceFixture(
		[]shift.Shift{nightShift()},
		[]employee.Employee{
			{ID: "emp-3", Name: "Citra", DeviceCode: "2001", ShiftID: "shift-night", IsActive: true},
		},
	)

	resp, err := f.service.ProcessBatch(ctx, attendance.ProcessBatchRequest{
		CSV:     "2001,2024-01-08 22:05:00\n2001,2024-01-09 05:50:00\n",
		ShiftID: "shift-night",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.RecordCount)

	records, err := f.attendanceRepo.ListByEmployee(ctx, "emp-3", date(2024, 1, 8), date(2024, 1, 8))
	require.NoError(t, err)
	require.Len(t, records, 1)

	// Both punches land on the 2024-01-08 work date. The 465-minute
	// span is capped at the shift's 450-minute net span.
	rec := records[0]
	assert.Equal(t, "2024-01-08", rec.WorkDate.Format("2006-01-02"))
	assert.Equal(t, 450, rec.TotalMinutes)
	assert.Zero(t, rec.LateMinutes)
	assert.Equal(t, 10, rec.EarlyLeaveMinutes)
}

func TestComputeDay_PartialDayKeepsRawSpan(t *testing.T) {
	t.Parallel()

	s := dayShift()
	punches := []time.Time{
		time.Date(2024, 1, 8, 8, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 8, 12, 0, 0, 0, time.UTC),
	}

	rec := computeDay(s, "emp-1", date(2024, 1, 8), punches, false, "batch-1", time.Now())

	// A half day is credited its full punch span; break minutes only
	// matter through the net-span cap.
	assert.Equal(t, 240, rec.TotalMinutes)
	assert.Equal(t, 300, rec.EarlyLeaveMinutes)
}

func TestAttendanceService_ProcessBatch_UnmappedCodes(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := newAttendanceFixture(
		[]shift.Shift{dayShift()},
		[]employee.Employee{
			{ID: "emp-1", Name: "Ayu", DeviceCode: "1001", ShiftID: "shift-day", IsActive: true},
		},
	)

	resp, err := f.service.ProcessBatch(ctx, attendance.ProcessBatchRequest{
		CSV:     "9999,2024-01-08 08:00:00\n1001,2024-01-08 08:00:00\n1001,2024-01-08 17:00:00\n",
		ShiftID: "shift-day",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"9999"}, resp.UnmappedCodes)
}

func TestAttendanceService_ProcessBatch_EmptyBatch(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := newAttendanceFixture([]shift.Shift{dayShift()}, nil)

	_, err := f.service.ProcessBatch(ctx, attendance.ProcessBatchRequest{
		CSV:     "device_code,timestamp\n",
		ShiftID: "shift-day",
	})
	assert.ErrorIs(t, err, attendance.ErrEmptyBatch)
}

func TestAttendanceService_ProcessBatch_Idempotent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	csv := "1001,2024-01-08 08:20:00\n1001,2024-01-08 16:00:00\n"
	employees := []employee.Employee{
		{ID: "emp-1", Name: "Ayu", DeviceCode: "1001", ShiftID: "shift-day", IsActive: true},
	}

	run := func() attendance.ProcessedAttendanceRecord {
		f := newAttendanceFixture([]shift.Shift{dayShift()}, employees)
		_, err := f.service.ProcessBatch(ctx, attendance.ProcessBatchRequest{CSV: csv, ShiftID: "shift-day"})
		require.NoError(t, err)
		records, err := f.attendanceRepo.ListByEmployee(ctx, "emp-1", date(2024, 1, 8), date(2024, 1, 8))
		require.NoError(t, err)
		require.Len(t, records, 1)
		return records[0]
	}

	first := run()
	second := run()

	// Identical input yields identical derived fields, modulo generated
	// identifiers.
	assert.Equal(t, first.TotalMinutes, second.TotalMinutes)
	assert.Equal(t, first.LateMinutes, second.LateMinutes)
	assert.Equal(t, first.EarlyLeaveMinutes, second.EarlyLeaveMinutes)
	assert.Equal(t, first.IsAbsent, second.IsAbsent)
	assert.Equal(t, first.IsIncomplete, second.IsIncomplete)
	assert.NotEqual(t, first.BatchID, second.BatchID)
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
