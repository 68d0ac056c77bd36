package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mitrakarya/workforce-backend-go/internal/domain/payroll"
	"github.com/mitrakarya/workforce-backend-go/internal/handler/http/response"
	"github.com/mitrakarya/workforce-backend-go/internal/pkg/jwt"
)

type PayrollHandler interface {
	Generate(w http.ResponseWriter, r *http.Request)
	Finalize(w http.ResponseWriter, r *http.Request)
	Lock(w http.ResponseWriter, r *http.Request)
	GetMonth(w http.ResponseWriter, r *http.Request)
	ListRecords(w http.ResponseWriter, r *http.Request)
	ListCostSummaries(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	payrollService payroll.PayrollService
}

func NewPayrollHandler(payrollService payroll.PayrollService) PayrollHandler {
	return &payrollHandlerImpl{
		payrollService: payrollService,
	}
}

func payrollActor(r *http.Request) (payroll.Actor, error) {
	claims, err := jwt.ClaimsFromContext(r.Context())
	if err != nil {
		return payroll.Actor{}, err
	}
	return payroll.Actor{ID: claims.UserID, Name: claims.Name, Role: claims.Role}, nil
}

// Generate implements PayrollHandler.
func (h *payrollHandlerImpl) Generate(w http.ResponseWriter, r *http.Request) {
	actor, err := payrollActor(r)
	if err != nil {
		response.Unauthorized(w, "Missing access token")
		return
	}

	var req payroll.GeneratePayrollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.payrollService.Generate(r.Context(), req, actor)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Payroll generated", result)
}

// Finalize implements PayrollHandler.
func (h *payrollHandlerImpl) Finalize(w http.ResponseWriter, r *http.Request) {
	actor, err := payrollActor(r)
	if err != nil {
		response.Unauthorized(w, "Missing access token")
		return
	}

	month := chi.URLParam(r, "month")

	result, err := h.payrollService.Finalize(r.Context(), month, actor)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll month finalized", result)
}

// Lock implements PayrollHandler.
func (h *payrollHandlerImpl) Lock(w http.ResponseWriter, r *http.Request) {
	actor, err := payrollActor(r)
	if err != nil {
		response.Unauthorized(w, "Missing access token")
		return
	}

	month := chi.URLParam(r, "month")

	result, err := h.payrollService.Lock(r.Context(), month, actor)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll month locked", result)
}

// GetMonth implements PayrollHandler.
func (h *payrollHandlerImpl) GetMonth(w http.ResponseWriter, r *http.Request) {
	month := chi.URLParam(r, "month")

	result, err := h.payrollService.GetMonth(r.Context(), month)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ListRecords implements PayrollHandler.
func (h *payrollHandlerImpl) ListRecords(w http.ResponseWriter, r *http.Request) {
	month := chi.URLParam(r, "month")

	results, err := h.payrollService.ListRecords(r.Context(), month)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, results)
}

// ListCostSummaries implements PayrollHandler.
func (h *payrollHandlerImpl) ListCostSummaries(w http.ResponseWriter, r *http.Request) {
	month := chi.URLParam(r, "month")

	results, err := h.payrollService.ListCostSummaries(r.Context(), month)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, results)
}
