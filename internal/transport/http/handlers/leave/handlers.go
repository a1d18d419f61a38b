package leavehandler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"leavedesk/internal/domain/audit"
	"leavedesk/internal/domain/auth"
	"leavedesk/internal/domain/leave"
	"leavedesk/internal/platform/jobs"
	"leavedesk/internal/transport/http/api"
	"leavedesk/internal/transport/http/middleware"
	"leavedesk/internal/transport/http/shared"
)

type Handler struct {
	Service *leave.Service
	Audit   *audit.Service
	Jobs    *jobs.Service
}

func NewHandler(service *leave.Service, auditSvc *audit.Service, jobsSvc *jobs.Service) *Handler {
	return &Handler{Service: service, Audit: auditSvc, Jobs: jobsSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/leave", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermLeaveRead)).Get("/types", h.handleListTypes)
		r.With(middleware.RequirePermission(auth.PermLeaveRead)).Get("/types/{typeID}", h.handleGetType)
		r.With(middleware.RequirePermission(auth.PermLeaveAdmin)).Post("/types", h.handleCreateType)
		r.With(middleware.RequirePermission(auth.PermLeaveAdmin)).Put("/types/{typeID}", h.handleUpdateType)
		r.With(middleware.RequirePermission(auth.PermLeaveAdmin)).Delete("/types/{typeID}", h.handleDeleteType)
		r.With(middleware.RequirePermission(auth.PermLeaveRead)).Get("/balances", h.handleListBalances)
		r.With(middleware.RequirePermission(auth.PermLeaveRead)).Get("/requests", h.handleListRequests)
		r.With(middleware.RequirePermission(auth.PermLeaveRead)).Get("/requests/{requestID}", h.handleGetRequest)
		r.With(middleware.RequirePermission(auth.PermLeaveWrite)).Post("/requests", h.handleSubmitRequest)
		r.With(middleware.RequirePermission(auth.PermLeaveApprove)).Post("/requests/{requestID}/approve", h.handleApproveRequest)
		r.With(middleware.RequirePermission(auth.PermLeaveApprove)).Post("/requests/{requestID}/reject", h.handleRejectRequest)
		r.With(middleware.RequirePermission(auth.PermLeaveWrite)).Post("/requests/{requestID}/withdraw", h.handleWithdrawRequest)
		r.With(middleware.RequirePermission(auth.PermLeaveAdmin)).Post("/carry-forward/run", h.handleRunCarryForward)
	})
}

func (h *Handler) handleListTypes(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	types, err := h.Service.ListTypes(r.Context(), user.CompanyID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "leave_types_failed", "failed to list leave types", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, types, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGetType(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	leaveType, err := h.Service.GetType(r.Context(), user.CompanyID, chi.URLParam(r, "typeID"))
	if err != nil {
		if errors.Is(err, leave.ErrTypeNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "leave type not found", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "leave_types_failed", "failed to load leave type", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, leaveType, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreateType(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload leave.LeaveType
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	payload.CompanyID = user.CompanyID

	v := shared.NewValidator()
	v.Required("name", payload.Name, "name is required")
	v.Required("code", payload.Code, "code is required")
	if payload.DaysAllowed <= 0 {
		v.Add("daysAllowed", "must be a positive number of days")
	}
	if payload.CarryForwardAllowed && payload.MaxCarryForwardDays < 0 {
		v.Add("maxCarryForwardDays", "must not be negative")
	}
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	id, err := h.Service.CreateType(r.Context(), payload)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "leave_type_create_failed", "failed to create leave type", middleware.GetRequestID(r.Context()))
		return
	}

	h.Audit.Record(r.Context(), audit.Event{
		CompanyID: user.CompanyID, ActorEmployeeID: user.EmployeeID,
		Action: audit.ActionTypeCreated, EntityType: "leave_type", EntityID: id,
	})
	api.Created(w, map[string]string{"id": id}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdateType(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload leave.LeaveType
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	payload.ID = chi.URLParam(r, "typeID")
	payload.CompanyID = user.CompanyID

	if err := h.Service.UpdateType(r.Context(), payload); err != nil {
		if errors.Is(err, leave.ErrTypeNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "leave type not found", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "leave_type_update_failed", "failed to update leave type", middleware.GetRequestID(r.Context()))
		return
	}

	h.Audit.Record(r.Context(), audit.Event{
		CompanyID: user.CompanyID, ActorEmployeeID: user.EmployeeID,
		Action: audit.ActionTypeUpdated, EntityType: "leave_type", EntityID: payload.ID,
	})
	api.Success(w, map[string]string{"status": "updated"}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDeleteType(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	typeID := chi.URLParam(r, "typeID")
	if err := h.Service.DeleteType(r.Context(), user.CompanyID, typeID); err != nil {
		if errors.Is(err, leave.ErrTypeInUse) {
			api.Fail(w, http.StatusConflict, "type_in_use", "leave type has balances or requests", middleware.GetRequestID(r.Context()))
			return
		}
		if errors.Is(err, leave.ErrTypeNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "leave type not found", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "leave_type_delete_failed", "failed to delete leave type", middleware.GetRequestID(r.Context()))
		return
	}

	h.Audit.Record(r.Context(), audit.Event{
		CompanyID: user.CompanyID, ActorEmployeeID: user.EmployeeID,
		Action: audit.ActionTypeDeleted, EntityType: "leave_type", EntityID: typeID,
	})
	api.Success(w, map[string]string{"status": "deleted"}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListBalances(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	employeeID := r.URL.Query().Get("employeeId")
	if employeeID == "" || user.RoleName == auth.RoleEmployee {
		employeeID = user.EmployeeID
	}

	year := time.Now().Year()
	if raw := r.URL.Query().Get("year"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			year = v
		}
	}

	balances, err := h.Service.Balances(r.Context(), user.CompanyID, employeeID, year)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "leave_balances_failed", "failed to list balances", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, balances, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListRequests(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	filter := leave.RequestFilter{
		EmployeeID: r.URL.Query().Get("employeeId"),
		Status:     r.URL.Query().Get("status"),
	}
	if user.RoleName == auth.RoleEmployee {
		filter.EmployeeID = user.EmployeeID
	}
	page := shared.ParsePagination(r, 100, 500)
	filter.Limit = page.Limit
	filter.Offset = page.Offset

	result, err := h.Service.ListRequests(r.Context(), user.CompanyID, filter)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "leave_requests_failed", "failed to list requests", middleware.GetRequestID(r.Context()))
		return
	}
	w.Header().Set("X-Total-Count", strconv.Itoa(result.Total))
	api.Success(w, result.Requests, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGetRequest(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	requestID := chi.URLParam(r, "requestID")
	req, err := h.Service.GetRequest(r.Context(), user.CompanyID, requestID)
	if err != nil {
		api.Fail(w, http.StatusNotFound, "not_found", "leave request not found", middleware.GetRequestID(r.Context()))
		return
	}
	if user.RoleName == auth.RoleEmployee && req.EmployeeID != user.EmployeeID {
		api.Fail(w, http.StatusForbidden, "forbidden", "not allowed", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, req, middleware.GetRequestID(r.Context()))
}

type submitRequestPayload struct {
	LeaveTypeID string `json:"leaveTypeId"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	Reason      string `json:"reason"`
	Attachment  string `json:"attachment"`
}

func (h *Handler) handleSubmitRequest(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload submitRequestPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	v.Required("leaveTypeId", payload.LeaveTypeID, "leave type is required")
	start, _ := v.Date("startDate", payload.StartDate)
	end, _ := v.Date("endDate", payload.EndDate)
	v.DateOrder("startDate", start, "endDate", end)
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	req, err := h.Service.Submit(r.Context(), user.CompanyID, user.EmployeeID, payload.LeaveTypeID, start, end, payload.Reason, payload.Attachment)
	if err != nil {
		switch {
		case errors.Is(err, leave.ErrInsufficientBalance):
			api.Fail(w, http.StatusConflict, "insufficient_balance", "not enough available days", middleware.GetRequestID(r.Context()))
		case errors.Is(err, leave.ErrInvalidDateRange):
			api.Fail(w, http.StatusBadRequest, "invalid_dates", "end date must not be before start date", middleware.GetRequestID(r.Context()))
		case errors.Is(err, leave.ErrDocumentRequired):
			api.Fail(w, http.StatusBadRequest, "document_required", "supporting document is required for this leave type", middleware.GetRequestID(r.Context()))
		case errors.Is(err, leave.ErrTypeInactive):
			api.Fail(w, http.StatusBadRequest, "type_inactive", "leave type is not active", middleware.GetRequestID(r.Context()))
		case errors.Is(err, leave.ErrTypeNotFound):
			api.Fail(w, http.StatusBadRequest, "invalid_payload", "unknown leave type", middleware.GetRequestID(r.Context()))
		default:
			api.Fail(w, http.StatusInternalServerError, "leave_request_failed", "failed to submit request", middleware.GetRequestID(r.Context()))
		}
		return
	}

	h.Audit.Record(r.Context(), audit.Event{
		CompanyID: user.CompanyID, ActorEmployeeID: user.EmployeeID,
		Action: audit.ActionLeaveSubmitted, EntityType: "leave_request", EntityID: req.ID,
	})
	api.Created(w, req, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleApproveRequest(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	requestID := chi.URLParam(r, "requestID")
	req, err := h.Service.Approve(r.Context(), user.CompanyID, requestID, user.EmployeeID)
	if err != nil {
		h.failDecision(w, r, err)
		return
	}

	h.Audit.Record(r.Context(), audit.Event{
		CompanyID: user.CompanyID, ActorEmployeeID: user.EmployeeID,
		Action: audit.ActionLeaveApproved, EntityType: "leave_request", EntityID: requestID,
	})
	api.Success(w, req, middleware.GetRequestID(r.Context()))
}

type rejectPayload struct {
	Reason string `json:"reason"`
}

func (h *Handler) handleRejectRequest(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	// Reason is optional; an empty or missing body is fine.
	var payload rejectPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil && !errors.Is(err, io.EOF) {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	requestID := chi.URLParam(r, "requestID")
	req, err := h.Service.Reject(r.Context(), user.CompanyID, requestID, user.EmployeeID, payload.Reason)
	if err != nil {
		h.failDecision(w, r, err)
		return
	}

	h.Audit.Record(r.Context(), audit.Event{
		CompanyID: user.CompanyID, ActorEmployeeID: user.EmployeeID,
		Action: audit.ActionLeaveRejected, EntityType: "leave_request", EntityID: requestID,
	})
	api.Success(w, req, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleWithdrawRequest(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	requestID := chi.URLParam(r, "requestID")
	req, err := h.Service.Withdraw(r.Context(), user.CompanyID, requestID, user.EmployeeID)
	if err != nil {
		h.failDecision(w, r, err)
		return
	}

	h.Audit.Record(r.Context(), audit.Event{
		CompanyID: user.CompanyID, ActorEmployeeID: user.EmployeeID,
		Action: audit.ActionLeaveWithdrawn, EntityType: "leave_request", EntityID: requestID,
	})
	api.Success(w, req, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleRunCarryForward(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	year := time.Now().Year()
	if raw := r.URL.Query().Get("year"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			year = v
		}
	}

	var summary leave.CarryForwardSummary
	var err error
	if h.Jobs != nil {
		var result any
		result, err = h.Jobs.RunNow(r.Context(), jobs.JobCarryForward, user.CompanyID, func(runCtx context.Context) (any, error) {
			return h.Service.RunCarryForward(runCtx, user.CompanyID, year)
		})
		if s, ok := result.(leave.CarryForwardSummary); ok {
			summary = s
		}
	} else {
		summary, err = h.Service.RunCarryForward(r.Context(), user.CompanyID, year)
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "carry_forward_failed", "failed to run carry forward", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, summary, middleware.GetRequestID(r.Context()))
}

func (h *Handler) failDecision(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, leave.ErrInvalidTransition):
		api.Fail(w, http.StatusConflict, "invalid_transition", "request already decided", middleware.GetRequestID(r.Context()))
	case errors.Is(err, leave.ErrForbidden):
		api.Fail(w, http.StatusForbidden, "forbidden", "not allowed", middleware.GetRequestID(r.Context()))
	case errors.Is(err, leave.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "leave request not found", middleware.GetRequestID(r.Context()))
	default:
		api.Fail(w, http.StatusInternalServerError, "leave_decision_failed", "failed to apply decision", middleware.GetRequestID(r.Context()))
	}
}
