package attendance

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mitrakarya/workforce-backend-go/internal/domain/attendance"
	"github.com/mitrakarya/workforce-backend-go/internal/domain/employee"
	"github.com/mitrakarya/workforce-backend-go/internal/domain/hrconfig"
	"github.com/mitrakarya/workforce-backend-go/internal/domain/shift"
	"github.com/mitrakarya/workforce-backend-go/internal/pkg/validator"
)

type AttendanceServiceImpl struct {
	attendance.AttendanceRepository
	employee.EmployeeRepository
	shift.ShiftRepository
	hrconfig.ConfigRepository
}

func NewAttendanceService(
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	shiftRepo shift.ShiftRepository,
	configRepo hrconfig.ConfigRepository,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		AttendanceRepository: attendanceRepo,
		EmployeeRepository:   employeeRepo,
		ShiftRepository:      shiftRepo,
		ConfigRepository:     configRepo,
	}
}

// timePtrToString safely converts a *time.Time to a string.
func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	format := t.Format("2006-01-02 15:04:05")
	return &format
}

// ProcessBatch implements attendance.AttendanceService.
//
// Every active employee gets a record for every date covered by the
// batch: present, weekly-off, or explicitly absent. Re-uploading a
// corrected export produces a fresh batch id; stale batches are removed
// with DeleteByBatchID.
func (a *AttendanceServiceImpl) ProcessBatch(ctx context.Context, req attendance.ProcessBatchRequest) (attendance.BatchResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.BatchResponse{}, err
	}

	sh, err := a.ShiftRepository.GetByID(ctx, req.ShiftID)
	if err != nil {
		return attendance.BatchResponse{}, fmt.Errorf("failed to get shift: %w", err)
	}

	settings, err := a.ConfigRepository.GetSettings(ctx)
	if err != nil {
		return attendance.BatchResponse{}, fmt.Errorf("failed to get settings: %w", err)
	}

	punches, rowErrs := parsePunchCSV(req.CSV)
	if len(punches) == 0 && len(rowErrs) == 0 {
		return attendance.BatchResponse{}, attendance.ErrEmptyBatch
	}

	deviceMap, err := a.EmployeeRepository.DeviceCodeMap(ctx)
	if err != nil {
		return attendance.BatchResponse{}, fmt.Errorf("failed to load device code map: %w", err)
	}

	grouped, unmapped := groupPunches(punches, sh, deviceMap)

	actives, err := a.EmployeeRepository.ListActive(ctx)
	if err != nil {
		return attendance.BatchResponse{}, fmt.Errorf("failed to list active employees: %w", err)
	}

	batchID := uuid.NewString()
	now := time.Now()

	// The batch window is derived from the punches themselves so
	// employees missing from the export still get absent records for
	// every covered working day.
	from, to, ok := batchWindow(punches, sh)

	var records []attendance.ProcessedAttendanceRecord
	if ok {
		for _, emp := range actives {
			days := grouped[emp.ID]
			for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
				rec := computeDay(sh, emp.ID, d, days[d.Format(dateLayout)], settings.IsWeeklyOff(d), batchID, now)
				rec.ID = uuid.NewString()
				records = append(records, rec)
			}
		}
	}

	if len(records) > 0 {
		if err := a.AttendanceRepository.CreateBatch(ctx, records); err != nil {
			return attendance.BatchResponse{}, fmt.Errorf("failed to persist attendance batch: %w", err)
		}
	}

	resp := attendance.BatchResponse{
		BatchID:       batchID,
		RecordCount:   len(records),
		ErrorCount:    len(rowErrs),
		UnmappedCodes: unmapped,
	}
	for _, re := range rowErrs {
		resp.Errors = append(resp.Errors, attendance.RowErrorVM{Line: re.Line, Message: re.Message})
	}

	return resp, nil
}

func batchWindow(punches []attendance.RawPunch, s shift.Shift) (from, to time.Time, ok bool) {
	for _, p := range punches {
		d := workDateFor(p.PunchedAt, s)
		if !ok {
			from, to, ok = d, d, true
			continue
		}
		if d.Before(from) {
			from = d
		}
		if d.After(to) {
			to = d
		}
	}
	return from, to, ok
}

// ListByEmployee implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ListByEmployee(ctx context.Context, employeeID, from, to string) ([]attendance.RecordResponse, error) {
	var errs validator.ValidationErrors
	if validator.IsEmpty(employeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "employee_id is required"})
	}
	fromDate, okFrom := validator.IsValidDate(from)
	if !okFrom {
		errs = append(errs, validator.ValidationError{Field: "from", Message: "from must be in YYYY-MM-DD format"})
	}
	toDate, okTo := validator.IsValidDate(to)
	if !okTo {
		errs = append(errs, validator.ValidationError{Field: "to", Message: "to must be in YYYY-MM-DD format"})
	}
	if len(errs) > 0 {
		return nil, errs
	}

	records, err := a.AttendanceRepository.ListByEmployee(ctx, employeeID, fromDate, toDate)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance records: %w", err)
	}

	out := make([]attendance.RecordResponse, 0, len(records))
	for _, r := range records {
		out = append(out, attendance.RecordResponse{
			ID:                r.ID,
			EmployeeID:        r.EmployeeID,
			WorkDate:          r.WorkDate.Format(dateLayout),
			CheckIn:           timePtrToString(r.CheckIn),
			CheckOut:          timePtrToString(r.CheckOut),
			TotalMinutes:      r.TotalMinutes,
			LateMinutes:       r.LateMinutes,
			EarlyLeaveMinutes: r.EarlyLeaveMinutes,
			IsAbsent:          r.IsAbsent,
			IsIncomplete:      r.IsIncomplete,
			IsWeeklyOff:       r.IsWeeklyOff,
			BatchID:           r.BatchID,
		})
	}
	return out, nil
}
