package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mitrakarya/workforce-backend-go/internal/domain/hrconfig"
)

type ConfigRepository struct {
	mu             sync.RWMutex
	settings       hrconfig.HRSettings
	lateRules      []hrconfig.LateRule
	penaltyRules   []hrconfig.PenaltyRule
	allowanceTypes []hrconfig.AllowanceType
	assignments    []hrconfig.PenaltyAssignment
	versions       hrconfig.ConfigVersions
}

func NewConfigRepository(settings hrconfig.HRSettings) *ConfigRepository {
	return &ConfigRepository{
		settings: settings,
		versions: hrconfig.ConfigVersions{
			hrconfig.ModuleSettings:   1,
			hrconfig.ModuleLateRules:  1,
			hrconfig.ModulePenalties:  1,
			hrconfig.ModuleAllowances: 1,
		},
	}
}

func (r *ConfigRepository) SetLateRules(rules []hrconfig.LateRule) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lateRules = rules
	r.versions[hrconfig.ModuleLateRules]++
}

func (r *ConfigRepository) SetPenaltyRules(rules []hrconfig.PenaltyRule) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.penaltyRules = rules
	r.versions[hrconfig.ModulePenalties]++
}

func (r *ConfigRepository) SetAllowanceTypes(types []hrconfig.AllowanceType) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.allowanceTypes = types
	r.versions[hrconfig.ModuleAllowances]++
}

func (r *ConfigRepository) SetSettings(s hrconfig.HRSettings) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.settings = s
	r.versions[hrconfig.ModuleSettings]++
}

func (r *ConfigRepository) GetSettings(_ context.Context) (hrconfig.HRSettings, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.settings, nil
}

func (r *ConfigRepository) ListLateRules(_ context.Context) ([]hrconfig.LateRule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]hrconfig.LateRule, len(r.lateRules))
	copy(out, r.lateRules)
	return out, nil
}

func (r *ConfigRepository) ListPenaltyRules(_ context.Context) ([]hrconfig.PenaltyRule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]hrconfig.PenaltyRule, len(r.penaltyRules))
	copy(out, r.penaltyRules)
	return out, nil
}

func (r *ConfigRepository) ListAllowanceTypes(_ context.Context) ([]hrconfig.AllowanceType, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]hrconfig.AllowanceType, len(r.allowanceTypes))
	copy(out, r.allowanceTypes)
	return out, nil
}

func (r *ConfigRepository) CreatePenaltyAssignment(_ context.Context, a hrconfig.PenaltyAssignment) (hrconfig.PenaltyAssignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	a.CreatedAt = time.Now()
	r.assignments = append(r.assignments, a)
	return a, nil
}

func (r *ConfigRepository) ListPenaltyAssignments(_ context.Context, month string) ([]hrconfig.PenaltyAssignment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []hrconfig.PenaltyAssignment
	for _, a := range r.assignments {
		if a.Month == month {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *ConfigRepository) GetConfigVersions(_ context.Context) (hrconfig.ConfigVersions, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(hrconfig.ConfigVersions, len(r.versions))
	for k, v := range r.versions {
		out[k] = v
	}
	return out, nil
}
