package memohandler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"leavedesk/internal/domain/audit"
	"leavedesk/internal/domain/auth"
	"leavedesk/internal/domain/memo"
	"leavedesk/internal/transport/http/api"
	"leavedesk/internal/transport/http/middleware"
	"leavedesk/internal/transport/http/shared"
)

type Handler struct {
	Service *memo.Service
	Audit   *audit.Service
}

func NewHandler(service *memo.Service, auditSvc *audit.Service) *Handler {
	return &Handler{Service: service, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/memos", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermMemoRead)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermMemoWrite)).Post("/", h.handleCreate)
		r.With(middleware.RequirePermission(auth.PermMemoRead)).Get("/{memoID}", h.handleGet)
		r.With(middleware.RequirePermission(auth.PermMemoApprove)).Post("/{memoID}/approve", h.handleApprove)
		r.With(middleware.RequirePermission(auth.PermMemoApprove)).Post("/{memoID}/reject", h.handleReject)
		r.With(middleware.RequirePermission(auth.PermMemoRead)).Post("/{memoID}/read", h.handleMarkRead)
		r.With(middleware.RequirePermission(auth.PermMemoApprove)).Get("/{memoID}/reads", h.handleListReads)
	})
}

type createMemoPayload struct {
	Title           string   `json:"title"`
	Content         string   `json:"content"`
	MemoType        string   `json:"memoType"`
	Priority        string   `json:"priority"`
	ReferenceNumber string   `json:"referenceNumber"`
	RecipientIDs    []string `json:"recipientIds"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload createMemoPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	created, err := h.Service.Create(r.Context(), memo.Memo{
		CompanyID:       user.CompanyID,
		Title:           payload.Title,
		Content:         payload.Content,
		MemoType:        payload.MemoType,
		Priority:        payload.Priority,
		ReferenceNumber: payload.ReferenceNumber,
		RecipientIDs:    payload.RecipientIDs,
		CreatedBy:       user.EmployeeID,
	})
	if err != nil {
		if errors.Is(err, memo.ErrTitleRequired) || errors.Is(err, memo.ErrContentRequired) {
			api.Fail(w, http.StatusBadRequest, "invalid_payload", err.Error(), middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "memo_create_failed", "failed to create memo", middleware.GetRequestID(r.Context()))
		return
	}

	h.Audit.Record(r.Context(), audit.Event{
		CompanyID: user.CompanyID, ActorEmployeeID: user.EmployeeID,
		Action: audit.ActionMemoCreated, EntityType: "memo", EntityID: created.ID,
	})
	api.Created(w, created, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	filter := memo.Filter{Status: r.URL.Query().Get("status")}
	// Employees only see published memos addressed to them.
	if user.RoleName == auth.RoleEmployee {
		filter.Status = memo.StatusApproved
		filter.RecipientID = user.EmployeeID
	}
	page := shared.ParsePagination(r, 50, 200)
	filter.Limit = page.Limit
	filter.Offset = page.Offset

	result, err := h.Service.List(r.Context(), user.CompanyID, filter)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "memo_list_failed", "failed to list memos", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, result.Memos, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	m, err := h.Service.Get(r.Context(), user.CompanyID, chi.URLParam(r, "memoID"))
	if err != nil {
		api.Fail(w, http.StatusNotFound, "not_found", "memo not found", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, m, middleware.GetRequestID(r.Context()))
}

type decisionPayload struct {
	Comments string `json:"comments"`
}

func (h *Handler) handleApprove(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	// Comments are optional; an empty body is fine.
	var payload decisionPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil && !errors.Is(err, io.EOF) {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	memoID := chi.URLParam(r, "memoID")
	m, err := h.Service.Approve(r.Context(), user.CompanyID, memoID, user.EmployeeID, payload.Comments)
	if err != nil {
		h.failDecision(w, r, err)
		return
	}

	h.Audit.Record(r.Context(), audit.Event{
		CompanyID: user.CompanyID, ActorEmployeeID: user.EmployeeID,
		Action: audit.ActionMemoApproved, EntityType: "memo", EntityID: memoID,
	})
	api.Success(w, m, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleReject(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload decisionPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil && !errors.Is(err, io.EOF) {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	memoID := chi.URLParam(r, "memoID")
	m, err := h.Service.Reject(r.Context(), user.CompanyID, memoID, user.EmployeeID, payload.Comments)
	if err != nil {
		if errors.Is(err, memo.ErrReasonRequired) {
			api.Fail(w, http.StatusBadRequest, "comments_required", "rejection comments are required", middleware.GetRequestID(r.Context()))
			return
		}
		h.failDecision(w, r, err)
		return
	}

	h.Audit.Record(r.Context(), audit.Event{
		CompanyID: user.CompanyID, ActorEmployeeID: user.EmployeeID,
		Action: audit.ActionMemoRejected, EntityType: "memo", EntityID: memoID,
	})
	api.Success(w, m, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleMarkRead(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	memoID := chi.URLParam(r, "memoID")
	if err := h.Service.MarkRead(r.Context(), user.CompanyID, memoID, user.EmployeeID); err != nil {
		if errors.Is(err, memo.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "memo not found", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "memo_read_failed", "failed to record read", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]string{"status": "read"}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListReads(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	reads, err := h.Service.Reads(r.Context(), user.CompanyID, chi.URLParam(r, "memoID"))
	if err != nil {
		if errors.Is(err, memo.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "memo not found", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "memo_reads_failed", "failed to list reads", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, reads, middleware.GetRequestID(r.Context()))
}

func (h *Handler) failDecision(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, memo.ErrInvalidTransition):
		api.Fail(w, http.StatusConflict, "invalid_transition", "memo already decided", middleware.GetRequestID(r.Context()))
	case errors.Is(err, memo.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "memo not found", middleware.GetRequestID(r.Context()))
	default:
		api.Fail(w, http.StatusInternalServerError, "memo_decision_failed", "failed to apply decision", middleware.GetRequestID(r.Context()))
	}
}
