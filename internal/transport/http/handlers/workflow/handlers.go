package workflowhandler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"leavedesk/internal/domain/audit"
	"leavedesk/internal/domain/auth"
	"leavedesk/internal/domain/workflow"
	"leavedesk/internal/transport/http/api"
	"leavedesk/internal/transport/http/middleware"
)

type Handler struct {
	Service *workflow.Service
	Audit   *audit.Service
}

func NewHandler(service *workflow.Service, auditSvc *audit.Service) *Handler {
	return &Handler{Service: service, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/workflows", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermWorkflowRead)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermWorkflowWrite)).Post("/", h.handleCreate)
		r.With(middleware.RequirePermission(auth.PermWorkflowRead)).Get("/{workflowID}", h.handleGet)
	})
}

type createWorkflowPayload struct {
	DepartmentID string `json:"departmentId"`
	WorkflowType string `json:"workflowType"`
	Steps        []int  `json:"steps"`
	IsActive     *bool  `json:"isActive"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload createWorkflowPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	isActive := true
	if payload.IsActive != nil {
		isActive = *payload.IsActive
	}

	id, err := h.Service.Create(r.Context(), workflow.ApprovalWorkflow{
		CompanyID:    user.CompanyID,
		DepartmentID: payload.DepartmentID,
		WorkflowType: payload.WorkflowType,
		Steps:        payload.Steps,
		IsActive:     isActive,
	})
	if err != nil {
		if errors.Is(err, workflow.ErrInvalidSteps) || errors.Is(err, workflow.ErrInvalidType) {
			api.Fail(w, http.StatusBadRequest, "invalid_payload", err.Error(), middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "workflow_create_failed", "failed to create workflow", middleware.GetRequestID(r.Context()))
		return
	}

	h.Audit.Record(r.Context(), audit.Event{
		CompanyID: user.CompanyID, ActorEmployeeID: user.EmployeeID,
		Action: audit.ActionWorkflowCreated, EntityType: "approval_workflow", EntityID: id,
	})
	api.Created(w, map[string]string{"id": id}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	filter := workflow.Filter{
		WorkflowType: r.URL.Query().Get("type"),
		DepartmentID: r.URL.Query().Get("departmentId"),
		OnlyActive:   r.URL.Query().Get("active") == "true",
	}
	workflows, err := h.Service.List(r.Context(), user.CompanyID, filter)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "workflow_list_failed", "failed to list workflows", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, workflows, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	wf, err := h.Service.Get(r.Context(), user.CompanyID, chi.URLParam(r, "workflowID"))
	if err != nil {
		if errors.Is(err, workflow.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "workflow not found", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "workflow_get_failed", "failed to load workflow", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, wf, middleware.GetRequestID(r.Context()))
}
