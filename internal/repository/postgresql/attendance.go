package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/mitrakarya/workforce-backend-go/internal/domain/attendance"
	"github.com/mitrakarya/workforce-backend-go/internal/pkg/database"
)

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

const attendanceColumns = `
	id, employee_id, work_date, check_in, check_out, total_minutes,
	late_minutes, early_leave_minutes, is_absent, is_incomplete,
	is_weekly_off, batch_id, created_at
`

func scanAttendanceRecord(row pgx.Row) (attendance.ProcessedAttendanceRecord, error) {
	var rec attendance.ProcessedAttendanceRecord
	err := row.Scan(
		&rec.ID, &rec.EmployeeID, &rec.WorkDate, &rec.CheckIn, &rec.CheckOut, &rec.TotalMinutes,
		&rec.LateMinutes, &rec.EarlyLeaveMinutes, &rec.IsAbsent, &rec.IsIncomplete,
		&rec.IsWeeklyOff, &rec.BatchID, &rec.CreatedAt,
	)
	return rec, err
}

func (r *attendanceRepository) CreateBatch(ctx context.Context, records []attendance.ProcessedAttendanceRecord) error {
	if len(records) == 0 {
		return nil
	}
	return WithTransaction(ctx, r.db, func(txCtx context.Context) error {
		q := GetQuerier(txCtx, r.db)

		query := `
			INSERT INTO attendance_records (
				id, employee_id, work_date, check_in, check_out, total_minutes,
				late_minutes, early_leave_minutes, is_absent, is_incomplete,
				is_weekly_off, batch_id, created_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
			ON CONFLICT (employee_id, work_date) DO UPDATE SET
				check_in = EXCLUDED.check_in,
				check_out = EXCLUDED.check_out,
				total_minutes = EXCLUDED.total_minutes,
				late_minutes = EXCLUDED.late_minutes,
				early_leave_minutes = EXCLUDED.early_leave_minutes,
				is_absent = EXCLUDED.is_absent,
				is_incomplete = EXCLUDED.is_incomplete,
				is_weekly_off = EXCLUDED.is_weekly_off,
				batch_id = EXCLUDED.batch_id`

		for _, rec := range records {
			_, err := q.Exec(txCtx, query,
				rec.ID, rec.EmployeeID, rec.WorkDate, rec.CheckIn, rec.CheckOut, rec.TotalMinutes,
				rec.LateMinutes, rec.EarlyLeaveMinutes, rec.IsAbsent, rec.IsIncomplete,
				rec.IsWeeklyOff, rec.BatchID, rec.CreatedAt,
			)
			if err != nil {
				return fmt.Errorf("failed to insert attendance record: %w", err)
			}
		}
		return nil
	})
}

func (r *attendanceRepository) ListByDateRange(ctx context.Context, from, to time.Time) ([]attendance.ProcessedAttendanceRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + attendanceColumns + `
		FROM attendance_records
		WHERE work_date >= $1 AND work_date <= $2
		ORDER BY work_date ASC, employee_id ASC`

	rows, err := q.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance records: %w", err)
	}
	defer rows.Close()

	return collectAttendanceRecords(rows)
}

func (r *attendanceRepository) ListByEmployee(ctx context.Context, employeeID string, from, to time.Time) ([]attendance.ProcessedAttendanceRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + attendanceColumns + `
		FROM attendance_records
		WHERE employee_id = $1 AND work_date >= $2 AND work_date <= $3
		ORDER BY work_date ASC`

	rows, err := q.Query(ctx, query, employeeID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list employee attendance: %w", err)
	}
	defer rows.Close()

	return collectAttendanceRecords(rows)
}

func (r *attendanceRepository) DeleteByBatchID(ctx context.Context, batchID string) error {
	q := GetQuerier(ctx, r.db)

	_, err := q.Exec(ctx, `DELETE FROM attendance_records WHERE batch_id = $1`, batchID)
	if err != nil {
		return fmt.Errorf("failed to delete attendance batch: %w", err)
	}
	return nil
}

func collectAttendanceRecords(rows pgx.Rows) ([]attendance.ProcessedAttendanceRecord, error) {
	var out []attendance.ProcessedAttendanceRecord
	for rows.Next() {
		rec, err := scanAttendanceRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance record: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
