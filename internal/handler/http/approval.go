package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mitrakarya/workforce-backend-go/internal/domain/approval"
	"github.com/mitrakarya/workforce-backend-go/internal/handler/http/response"
	"github.com/mitrakarya/workforce-backend-go/internal/pkg/jwt"
)

type ApprovalHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Reject(w http.ResponseWriter, r *http.Request)
	Cancel(w http.ResponseWriter, r *http.Request)
	AdminOverride(w http.ResponseWriter, r *http.Request)
	Escalate(w http.ResponseWriter, r *http.Request)
	CreateDelegation(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	ListMine(w http.ResponseWriter, r *http.Request)
	ListPending(w http.ResponseWriter, r *http.Request)
}

type approvalHandlerImpl struct {
	approvalService approval.ApprovalService
}

func NewApprovalHandler(approvalService approval.ApprovalService) ApprovalHandler {
	return &approvalHandlerImpl{
		approvalService: approvalService,
	}
}

func approvalActor(r *http.Request) (approval.Actor, error) {
	claims, err := jwt.ClaimsFromContext(r.Context())
	if err != nil {
		return approval.Actor{}, err
	}
	return approval.Actor{ID: claims.UserID, Name: claims.Name, Role: claims.Role}, nil
}

// Create implements ApprovalHandler.
func (h *approvalHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	actor, err := approvalActor(r)
	if err != nil {
		response.Unauthorized(w, "Missing access token")
		return
	}

	var req approval.CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	if req.RequesterID == "" {
		req.RequesterID = actor.ID
	}

	result, err := h.approvalService.Create(r.Context(), req, actor)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Request submitted", result)
}

func (h *approvalHandlerImpl) action(w http.ResponseWriter, r *http.Request,
	fn func(r *http.Request, req approval.ActionRequest, actor approval.Actor) (approval.RequestResponse, error),
	message string,
) {
	actor, err := approvalActor(r)
	if err != nil {
		response.Unauthorized(w, "Missing access token")
		return
	}

	var req approval.ActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.RequestID = chi.URLParam(r, "id")

	result, err := fn(r, req, actor)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, message, result)
}

// Approve implements ApprovalHandler.
func (h *approvalHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	h.action(w, r, func(r *http.Request, req approval.ActionRequest, actor approval.Actor) (approval.RequestResponse, error) {
		return h.approvalService.Approve(r.Context(), req, actor)
	}, "Step approved")
}

// Reject implements ApprovalHandler.
func (h *approvalHandlerImpl) Reject(w http.ResponseWriter, r *http.Request) {
	h.action(w, r, func(r *http.Request, req approval.ActionRequest, actor approval.Actor) (approval.RequestResponse, error) {
		return h.approvalService.Reject(r.Context(), req, actor)
	}, "Request rejected")
}

// Cancel implements ApprovalHandler.
func (h *approvalHandlerImpl) Cancel(w http.ResponseWriter, r *http.Request) {
	h.action(w, r, func(r *http.Request, req approval.ActionRequest, actor approval.Actor) (approval.RequestResponse, error) {
		return h.approvalService.Cancel(r.Context(), req, actor)
	}, "Request cancelled")
}

// Escalate implements ApprovalHandler.
func (h *approvalHandlerImpl) Escalate(w http.ResponseWriter, r *http.Request) {
	h.action(w, r, func(r *http.Request, req approval.ActionRequest, actor approval.Actor) (approval.RequestResponse, error) {
		return h.approvalService.Escalate(r.Context(), req, actor)
	}, "Request escalated")
}

// AdminOverride implements ApprovalHandler.
func (h *approvalHandlerImpl) AdminOverride(w http.ResponseWriter, r *http.Request) {
	actor, err := approvalActor(r)
	if err != nil {
		response.Unauthorized(w, "Missing access token")
		return
	}

	var req approval.OverrideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.RequestID = chi.URLParam(r, "id")

	result, err := h.approvalService.AdminOverride(r.Context(), req, actor)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Request overridden", result)
}

// CreateDelegation implements ApprovalHandler.
func (h *approvalHandlerImpl) CreateDelegation(w http.ResponseWriter, r *http.Request) {
	actor, err := approvalActor(r)
	if err != nil {
		response.Unauthorized(w, "Missing access token")
		return
	}

	var req approval.CreateDelegationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	if req.DelegatorID == "" {
		req.DelegatorID = actor.ID
	}

	result, err := h.approvalService.CreateDelegation(r.Context(), req, actor)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Delegation created", result)
}

// Get implements ApprovalHandler.
func (h *approvalHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	result, err := h.approvalService.Get(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ListMine implements ApprovalHandler.
func (h *approvalHandlerImpl) ListMine(w http.ResponseWriter, r *http.Request) {
	actor, err := approvalActor(r)
	if err != nil {
		response.Unauthorized(w, "Missing access token")
		return
	}

	results, err := h.approvalService.ListByRequester(r.Context(), actor.ID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, results)
}

// ListPending implements ApprovalHandler.
func (h *approvalHandlerImpl) ListPending(w http.ResponseWriter, r *http.Request) {
	actor, err := approvalActor(r)
	if err != nil {
		response.Unauthorized(w, "Missing access token")
		return
	}

	results, err := h.approvalService.ListPendingForApprover(r.Context(), actor.ID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, results)
}
