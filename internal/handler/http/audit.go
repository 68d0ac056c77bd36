package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mitrakarya/workforce-backend-go/internal/domain/audit"
	"github.com/mitrakarya/workforce-backend-go/internal/handler/http/response"
)

type AuditHandler interface {
	ListByEntity(w http.ResponseWriter, r *http.Request)
}

type auditHandlerImpl struct {
	auditRepo audit.AuditRepository
}

func NewAuditHandler(auditRepo audit.AuditRepository) AuditHandler {
	return &auditHandlerImpl{
		auditRepo: auditRepo,
	}
}

var validEntityTypes = map[string]bool{
	audit.EntityPayrollMonth:    true,
	audit.EntityPayrollRecord:   true,
	audit.EntityApprovalRequest: true,
}

// ListByEntity implements AuditHandler.
func (h *auditHandlerImpl) ListByEntity(w http.ResponseWriter, r *http.Request) {
	entityType := chi.URLParam(r, "entityType")
	entityID := chi.URLParam(r, "entityID")

	if !validEntityTypes[entityType] {
		response.BadRequest(w, "Unknown entity type", nil)
		return
	}

	results, err := h.auditRepo.ListByEntity(r.Context(), entityType, entityID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, results)
}
