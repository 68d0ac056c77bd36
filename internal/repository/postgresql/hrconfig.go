package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/mitrakarya/workforce-backend-go/internal/domain/hrconfig"
	"github.com/mitrakarya/workforce-backend-go/internal/pkg/database"
)

type configRepository struct {
	db *database.DB
}

func NewConfigRepository(db *database.DB) hrconfig.ConfigRepository {
	return &configRepository{db: db}
}

func (r *configRepository) GetSettings(ctx context.Context) (hrconfig.HRSettings, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, working_hours_per_day, weekly_off_days, allow_negative_salary,
		       overtime_multiplier, max_chain_depth, require_hr_approval,
		       hr_approver_id, delegation_enabled,
		       auto_approve_leave_days_below, auto_approve_overtime_hours_below,
		       auto_approve_loan_amount_below, created_at, updated_at
		FROM hr_settings
		ORDER BY created_at DESC
		LIMIT 1`

	var s hrconfig.HRSettings
	var offDays []int
	err := q.QueryRow(ctx, query).Scan(
		&s.ID, &s.WorkingHoursPerDay, &offDays, &s.AllowNegativeSalary,
		&s.OvertimeMultiplier, &s.MaxChainDepth, &s.RequireHRApproval,
		&s.HRApproverID, &s.DelegationEnabled,
		&s.AutoApproveLeaveDaysBelow, &s.AutoApproveOvertimeHoursBelow,
		&s.AutoApproveLoanAmountBelow, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return hrconfig.HRSettings{}, hrconfig.ErrSettingsNotFound
		}
		return hrconfig.HRSettings{}, fmt.Errorf("failed to get HR settings: %w", err)
	}

	s.WeeklyOffDays = make([]time.Weekday, 0, len(offDays))
	for _, d := range offDays {
		s.WeeklyOffDays = append(s.WeeklyOffDays, time.Weekday(d))
	}
	return s, nil
}

func (r *configRepository) ListLateRules(ctx context.Context) ([]hrconfig.LateRule, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, minutes_from, minutes_to, penalty_amount, is_active
		FROM late_rules
		ORDER BY minutes_from ASC`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list late rules: %w", err)
	}
	defer rows.Close()

	var out []hrconfig.LateRule
	for rows.Next() {
		var lr hrconfig.LateRule
		if err := rows.Scan(&lr.ID, &lr.MinutesFrom, &lr.MinutesTo, &lr.PenaltyAmount, &lr.IsActive); err != nil {
			return nil, fmt.Errorf("failed to scan late rule: %w", err)
		}
		out = append(out, lr)
	}
	return out, rows.Err()
}

func (r *configRepository) ListPenaltyRules(ctx context.Context) ([]hrconfig.PenaltyRule, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, name, kind, amount, is_active
		FROM penalty_rules
		ORDER BY name ASC`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list penalty rules: %w", err)
	}
	defer rows.Close()

	var out []hrconfig.PenaltyRule
	for rows.Next() {
		var pr hrconfig.PenaltyRule
		if err := rows.Scan(&pr.ID, &pr.Name, &pr.Kind, &pr.Amount, &pr.IsActive); err != nil {
			return nil, fmt.Errorf("failed to scan penalty rule: %w", err)
		}
		out = append(out, pr)
	}
	return out, rows.Err()
}

func (r *configRepository) ListAllowanceTypes(ctx context.Context) ([]hrconfig.AllowanceType, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, name, amount, is_active
		FROM allowance_types
		ORDER BY name ASC`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list allowance types: %w", err)
	}
	defer rows.Close()

	var out []hrconfig.AllowanceType
	for rows.Next() {
		var at hrconfig.AllowanceType
		if err := rows.Scan(&at.ID, &at.Name, &at.Amount, &at.IsActive); err != nil {
			return nil, fmt.Errorf("failed to scan allowance type: %w", err)
		}
		out = append(out, at)
	}
	return out, rows.Err()
}

func (r *configRepository) CreatePenaltyAssignment(ctx context.Context, a hrconfig.PenaltyAssignment) (hrconfig.PenaltyAssignment, error) {
	q := GetQuerier(ctx, r.db)

	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	a.CreatedAt = time.Now()

	query := `
		INSERT INTO penalty_assignments (id, employee_id, rule_id, month, reason, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := q.Exec(ctx, query, a.ID, a.EmployeeID, a.RuleID, a.Month, a.Reason, a.CreatedAt)
	if err != nil {
		return hrconfig.PenaltyAssignment{}, fmt.Errorf("failed to create penalty assignment: %w", err)
	}
	return a, nil
}

func (r *configRepository) ListPenaltyAssignments(ctx context.Context, month string) ([]hrconfig.PenaltyAssignment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, rule_id, month, reason, created_at
		FROM penalty_assignments
		WHERE month = $1
		ORDER BY employee_id ASC, created_at ASC`

	rows, err := q.Query(ctx, query, month)
	if err != nil {
		return nil, fmt.Errorf("failed to list penalty assignments: %w", err)
	}
	defer rows.Close()

	var out []hrconfig.PenaltyAssignment
	for rows.Next() {
		var a hrconfig.PenaltyAssignment
		if err := rows.Scan(&a.ID, &a.EmployeeID, &a.RuleID, &a.Month, &a.Reason, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan penalty assignment: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *configRepository) GetConfigVersions(ctx context.Context) (hrconfig.ConfigVersions, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT module, version FROM config_versions`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get config versions: %w", err)
	}
	defer rows.Close()

	versions := make(hrconfig.ConfigVersions)
	for rows.Next() {
		var module string
		var version int
		if err := rows.Scan(&module, &version); err != nil {
			return nil, fmt.Errorf("failed to scan config version: %w", err)
		}
		versions[module] = version
	}
	return versions, rows.Err()
}
