package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/mitrakarya/workforce-backend-go/internal/domain/payroll"
	"github.com/mitrakarya/workforce-backend-go/internal/pkg/database"
)

type payrollRepository struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) payroll.PayrollRepository {
	return &payrollRepository{db: db}
}

func (r *payrollRepository) GetMonth(ctx context.Context, month string) (payroll.PayrollMonth, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, month, status, total_gross, total_deductions, total_net,
		       employee_count, generated_by, generated_at, finalized_by,
		       finalized_at, locked_by, locked_at, rule_snapshot,
		       snapshot_version, created_at, updated_at
		FROM payroll_months
		WHERE month = $1`

	var m payroll.PayrollMonth
	var snapshot []byte
	err := q.QueryRow(ctx, query, month).Scan(
		&m.ID, &m.Month, &m.Status, &m.TotalGross, &m.TotalDeductions, &m.TotalNet,
		&m.EmployeeCount, &m.GeneratedBy, &m.GeneratedAt, &m.FinalizedBy,
		&m.FinalizedAt, &m.LockedBy, &m.LockedAt, &snapshot,
		&m.SnapshotVersion, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.PayrollMonth{}, payroll.ErrMonthNotFound
		}
		return payroll.PayrollMonth{}, fmt.Errorf("failed to get payroll month: %w", err)
	}

	if len(snapshot) > 0 {
		var rs payroll.RuleSnapshot
		if err := json.Unmarshal(snapshot, &rs); err != nil {
			return payroll.PayrollMonth{}, fmt.Errorf("failed to decode rule snapshot: %w", err)
		}
		m.RuleSnapshot = &rs
	}
	return m, nil
}

func (r *payrollRepository) CreateMonth(ctx context.Context, m payroll.PayrollMonth) (payroll.PayrollMonth, error) {
	q := GetQuerier(ctx, r.db)

	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	now := time.Now()
	m.CreatedAt = now
	m.UpdatedAt = now

	query := `
		INSERT INTO payroll_months (
			id, month, status, total_gross, total_deductions, total_net,
			employee_count, generated_by, generated_at, snapshot_version,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := q.Exec(ctx, query,
		m.ID, m.Month, m.Status, m.TotalGross, m.TotalDeductions, m.TotalNet,
		m.EmployeeCount, m.GeneratedBy, m.GeneratedAt, m.SnapshotVersion,
		m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		return payroll.PayrollMonth{}, fmt.Errorf("failed to create payroll month: %w", err)
	}
	return m, nil
}

func (r *payrollRepository) UpdateMonth(ctx context.Context, m payroll.PayrollMonth) error {
	q := GetQuerier(ctx, r.db)

	var snapshot []byte
	if m.RuleSnapshot != nil {
		var err error
		snapshot, err = json.Marshal(m.RuleSnapshot)
		if err != nil {
			return fmt.Errorf("failed to encode rule snapshot: %w", err)
		}
	}

	query := `
		UPDATE payroll_months SET
			status = $1,
			total_gross = $2,
			total_deductions = $3,
			total_net = $4,
			employee_count = $5,
			generated_by = $6,
			generated_at = $7,
			finalized_by = $8,
			finalized_at = $9,
			locked_by = $10,
			locked_at = $11,
			rule_snapshot = $12,
			snapshot_version = $13,
			updated_at = $14
		WHERE id = $15`

	tag, err := q.Exec(ctx, query,
		m.Status, m.TotalGross, m.TotalDeductions, m.TotalNet,
		m.EmployeeCount, m.GeneratedBy, m.GeneratedAt,
		m.FinalizedBy, m.FinalizedAt, m.LockedBy, m.LockedAt,
		snapshot, m.SnapshotVersion, time.Now(), m.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update payroll month: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrMonthNotFound
	}
	return nil
}

const payrollRecordColumns = `
	id, month_id, month, employee_id, employment_type, department,
	cost_center, production_line, working_days, present_days, absent_days,
	late_days, overtime_hours, base_salary, overtime_pay, allowances,
	gross_salary, absence_deduction, late_penalty, other_penalties,
	loan_deduction, transport_deduction, unpaid_leave_deduction,
	total_deductions, net_salary, is_locked, calculation_snapshot_version,
	created_at, updated_at
`

func scanPayrollRecord(row pgx.Row) (payroll.PayrollRecord, error) {
	var rec payroll.PayrollRecord
	err := row.Scan(
		&rec.ID, &rec.MonthID, &rec.Month, &rec.EmployeeID, &rec.EmploymentType, &rec.Department,
		&rec.CostCenter, &rec.ProductionLine, &rec.WorkingDays, &rec.PresentDays, &rec.AbsentDays,
		&rec.LateDays, &rec.OvertimeHours, &rec.BaseSalary, &rec.OvertimePay, &rec.Allowances,
		&rec.GrossSalary, &rec.AbsenceDeduction, &rec.LatePenalty, &rec.OtherPenalties,
		&rec.LoanDeduction, &rec.TransportDeduction, &rec.UnpaidLeaveDeduction,
		&rec.TotalDeductions, &rec.NetSalary, &rec.IsLocked, &rec.CalculationSnapshotVersion,
		&rec.CreatedAt, &rec.UpdatedAt,
	)
	return rec, err
}

func (r *payrollRepository) CreateRecords(ctx context.Context, records []payroll.PayrollRecord) error {
	if len(records) == 0 {
		return nil
	}
	return WithTransaction(ctx, r.db, func(txCtx context.Context) error {
		q := GetQuerier(txCtx, r.db)

		query := `
			INSERT INTO payroll_records (
				id, month_id, month, employee_id, employment_type, department,
				cost_center, production_line, working_days, present_days, absent_days,
				late_days, overtime_hours, base_salary, overtime_pay, allowances,
				gross_salary, absence_deduction, late_penalty, other_penalties,
				loan_deduction, transport_deduction, unpaid_leave_deduction,
				total_deductions, net_salary, is_locked, calculation_snapshot_version,
				created_at, updated_at
			) VALUES (
				$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
				$16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28, $29
			)`

		for _, rec := range records {
			if rec.ID == "" {
				rec.ID = uuid.New().String()
			}
			_, err := q.Exec(txCtx, query,
				rec.ID, rec.MonthID, rec.Month, rec.EmployeeID, rec.EmploymentType, rec.Department,
				rec.CostCenter, rec.ProductionLine, rec.WorkingDays, rec.PresentDays, rec.AbsentDays,
				rec.LateDays, rec.OvertimeHours, rec.BaseSalary, rec.OvertimePay, rec.Allowances,
				rec.GrossSalary, rec.AbsenceDeduction, rec.LatePenalty, rec.OtherPenalties,
				rec.LoanDeduction, rec.TransportDeduction, rec.UnpaidLeaveDeduction,
				rec.TotalDeductions, rec.NetSalary, rec.IsLocked, rec.CalculationSnapshotVersion,
				rec.CreatedAt, rec.UpdatedAt,
			)
			if err != nil {
				return fmt.Errorf("failed to insert payroll record: %w", err)
			}
		}
		return nil
	})
}

func (r *payrollRepository) ListRecordsByMonth(ctx context.Context, monthID string) ([]payroll.PayrollRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + payrollRecordColumns + `
		FROM payroll_records
		WHERE month_id = $1
		ORDER BY employee_id ASC`

	rows, err := q.Query(ctx, query, monthID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll records: %w", err)
	}
	defer rows.Close()

	var out []payroll.PayrollRecord
	for rows.Next() {
		rec, err := scanPayrollRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payroll record: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *payrollRepository) DeleteRecordsByMonth(ctx context.Context, monthID string) error {
	q := GetQuerier(ctx, r.db)

	// Locked records are never deleted even during regeneration.
	_, err := q.Exec(ctx,
		`DELETE FROM payroll_records WHERE month_id = $1 AND is_locked = FALSE`, monthID)
	if err != nil {
		return fmt.Errorf("failed to delete payroll records: %w", err)
	}
	return nil
}

func (r *payrollRepository) LockRecords(ctx context.Context, recordIDs []string, snapshotVersion string) error {
	if len(recordIDs) == 0 {
		return nil
	}
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE payroll_records SET
			is_locked = TRUE,
			calculation_snapshot_version = $1,
			updated_at = $2
		WHERE id = ANY($3)`

	_, err := q.Exec(ctx, query, snapshotVersion, time.Now(), recordIDs)
	if err != nil {
		return fmt.Errorf("failed to lock payroll records: %w", err)
	}
	return nil
}

func (r *payrollRepository) CreateCostSummaries(ctx context.Context, summaries []payroll.CostSummary) error {
	if len(summaries) == 0 {
		return nil
	}
	return WithTransaction(ctx, r.db, func(txCtx context.Context) error {
		q := GetQuerier(txCtx, r.db)

		query := `
			INSERT INTO payroll_cost_summaries (
				id, month_id, month, department, cost_center, production_line,
				total_gross, total_net, employee_count, created_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

		for _, s := range summaries {
			if s.ID == "" {
				s.ID = uuid.New().String()
			}
			_, err := q.Exec(txCtx, query,
				s.ID, s.MonthID, s.Month, s.Department, s.CostCenter, s.ProductionLine,
				s.TotalGross, s.TotalNet, s.EmployeeCount, s.CreatedAt,
			)
			if err != nil {
				return fmt.Errorf("failed to insert cost summary: %w", err)
			}
		}
		return nil
	})
}

func (r *payrollRepository) ListCostSummariesByMonth(ctx context.Context, monthID string) ([]payroll.CostSummary, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, month_id, month, department, cost_center, production_line,
		       total_gross, total_net, employee_count, created_at
		FROM payroll_cost_summaries
		WHERE month_id = $1
		ORDER BY department ASC, cost_center ASC, production_line ASC`

	rows, err := q.Query(ctx, query, monthID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cost summaries: %w", err)
	}
	defer rows.Close()

	var out []payroll.CostSummary
	for rows.Next() {
		var s payroll.CostSummary
		err := rows.Scan(
			&s.ID, &s.MonthID, &s.Month, &s.Department, &s.CostCenter, &s.ProductionLine,
			&s.TotalGross, &s.TotalNet, &s.EmployeeCount, &s.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cost summary: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
