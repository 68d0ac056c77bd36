package audit

import "context"

// AuditRepository appends and queries immutable audit entries. Entries
// are never updated or deleted after creation.
type AuditRepository interface {
	Create(ctx context.Context, e Entry) (Entry, error)
	ListByEntity(ctx context.Context, entityType, entityID string) ([]Entry, error)
}
