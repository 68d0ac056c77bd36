package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mitrakarya/workforce-backend-go/internal/domain/payroll"
)

type PayrollRepository struct {
	mu        sync.RWMutex
	months    map[string]payroll.PayrollMonth // keyed by "YYYY-MM"
	records   map[string][]payroll.PayrollRecord
	summaries map[string][]payroll.CostSummary
}

func NewPayrollRepository() *PayrollRepository {
	return &PayrollRepository{
		months:    make(map[string]payroll.PayrollMonth),
		records:   make(map[string][]payroll.PayrollRecord),
		summaries: make(map[string][]payroll.CostSummary),
	}
}

func (r *PayrollRepository) GetMonth(_ context.Context, month string) (payroll.PayrollMonth, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.months[month]
	if !ok {
		return payroll.PayrollMonth{}, payroll.ErrMonthNotFound
	}
	return m, nil
}

func (r *PayrollRepository) CreateMonth(_ context.Context, m payroll.PayrollMonth) (payroll.PayrollMonth, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	m.CreatedAt = time.Now()
	m.UpdatedAt = m.CreatedAt
	r.months[m.Month] = m
	return m, nil
}

func (r *PayrollRepository) UpdateMonth(_ context.Context, m payroll.PayrollMonth) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.months[m.Month]; !ok {
		return payroll.ErrMonthNotFound
	}
	m.UpdatedAt = time.Now()
	r.months[m.Month] = m
	return nil
}

func (r *PayrollRepository) CreateRecords(_ context.Context, records []payroll.PayrollRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range records {
		if rec.ID == "" {
			rec.ID = uuid.NewString()
		}
		r.records[rec.MonthID] = append(r.records[rec.MonthID], rec)
	}
	return nil
}

func (r *PayrollRepository) ListRecordsByMonth(_ context.Context, monthID string) ([]payroll.PayrollRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]payroll.PayrollRecord, len(r.records[monthID]))
	copy(out, r.records[monthID])
	return out, nil
}

func (r *PayrollRepository) DeleteRecordsByMonth(_ context.Context, monthID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.records, monthID)
	return nil
}

func (r *PayrollRepository) LockRecords(_ context.Context, recordIDs []string, snapshotVersion string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	idSet := make(map[string]struct{}, len(recordIDs))
	for _, id := range recordIDs {
		idSet[id] = struct{}{}
	}
	for monthID, recs := range r.records {
		for i := range recs {
			if _, ok := idSet[recs[i].ID]; ok {
				recs[i].IsLocked = true
				recs[i].CalculationSnapshotVersion = snapshotVersion
				recs[i].UpdatedAt = time.Now()
			}
		}
		r.records[monthID] = recs
	}
	return nil
}

func (r *PayrollRepository) CreateCostSummaries(_ context.Context, summaries []payroll.CostSummary) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range summaries {
		if s.ID == "" {
			s.ID = uuid.NewString()
		}
		r.summaries[s.MonthID] = append(r.summaries[s.MonthID], s)
	}
	return nil
}

func (r *PayrollRepository) ListCostSummariesByMonth(_ context.Context, monthID string) ([]payroll.CostSummary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]payroll.CostSummary, len(r.summaries[monthID]))
	copy(out, r.summaries[monthID])
	return out, nil
}
