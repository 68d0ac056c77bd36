package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mitrakarya/workforce-backend-go/internal/domain/audit"
)

type AuditRepository struct {
	mu      sync.RWMutex
	entries []audit.Entry
}

func NewAuditRepository() *AuditRepository {
	return &AuditRepository{}
}

func (r *AuditRepository) Create(_ context.Context, e audit.Entry) (audit.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	e.CreatedAt = time.Now()
	r.entries = append(r.entries, e)
	return e, nil
}

func (r *AuditRepository) ListByEntity(_ context.Context, entityType, entityID string) ([]audit.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []audit.Entry
	for _, e := range r.entries {
		if e.EntityType == entityType && e.EntityID == entityID {
			out = append(out, e)
		}
	}
	return out, nil
}
