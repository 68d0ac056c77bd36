package hrconfig

import "context"

// ConfigRepository is the injected config provider. Rule tables are
// immutable reference data; each table carries its own version.
// Penalty assignments are the per-employee application of the penalty
// rule table and are keyed by payroll month.
type ConfigRepository interface {
	GetSettings(ctx context.Context) (HRSettings, error)
	ListLateRules(ctx context.Context) ([]LateRule, error)
	ListPenaltyRules(ctx context.Context) ([]PenaltyRule, error)
	ListAllowanceTypes(ctx context.Context) ([]AllowanceType, error)
	GetConfigVersions(ctx context.Context) (ConfigVersions, error)

	CreatePenaltyAssignment(ctx context.Context, a PenaltyAssignment) (PenaltyAssignment, error)
	ListPenaltyAssignments(ctx context.Context, month string) ([]PenaltyAssignment, error)
}
