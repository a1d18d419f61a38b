package leave

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"
)

// WorkflowResolver reports how many approval steps a request needs. The count
// is copied onto the request at submit time so later workflow edits never
// change an in-flight request's requirement.
type WorkflowResolver interface {
	StepCount(ctx context.Context, companyID, departmentID, workflowType string) (int, error)
}

// DirectoryAPI resolves org structure owned by the surrounding directory
// service. The engine only ever needs an employee's department.
type DirectoryAPI interface {
	DepartmentForEmployee(ctx context.Context, companyID, employeeID string) (string, error)
}

// Notifier delivers best-effort notifications; failures are logged, never
// propagated into an engine result.
type Notifier interface {
	Notify(ctx context.Context, companyID, employeeID, ntype, title, body string) error
}

const workflowTypeLeave = "leave"

type Service struct {
	Store     StoreAPI
	Ledger    *Ledger
	Workflows WorkflowResolver
	Directory DirectoryAPI
	Notify    Notifier
}

func NewService(store StoreAPI, workflows WorkflowResolver, directory DirectoryAPI, notify Notifier) *Service {
	return &Service{
		Store:     store,
		Ledger:    NewLedger(store),
		Workflows: workflows,
		Directory: directory,
		Notify:    notify,
	}
}

// Submit validates the request, reserves the days and creates the request in
// pending state. A failed reservation creates nothing; a failed insert
// releases the reservation again.
func (s *Service) Submit(ctx context.Context, companyID, employeeID, leaveTypeID string, start, end time.Time, reason, attachment string) (LeaveRequest, error) {
	days, err := CalculateDays(start, end)
	if err != nil {
		return LeaveRequest{}, err
	}

	leaveType, err := s.Store.GetType(ctx, companyID, leaveTypeID)
	if err != nil {
		return LeaveRequest{}, err
	}
	if leaveType.Status != TypeStatusActive {
		return LeaveRequest{}, ErrTypeInactive
	}
	if leaveType.RequiresDocumentation && strings.TrimSpace(attachment) == "" {
		return LeaveRequest{}, ErrDocumentRequired
	}

	steps := s.resolveSteps(ctx, companyID, employeeID)
	year := ChargeYear(start)

	if err := s.Ledger.Reserve(ctx, employeeID, leaveTypeID, year, days); err != nil {
		return LeaveRequest{}, err
	}

	created, err := s.Store.CreateRequest(ctx, LeaveRequest{
		CompanyID:     companyID,
		EmployeeID:    employeeID,
		LeaveTypeID:   leaveTypeID,
		StartDate:     start,
		EndDate:       end,
		DaysRequested: days,
		Year:          year,
		Reason:        reason,
		Attachment:    attachment,
		Status:        StatusPending,
		WorkflowSteps: steps,
	})
	if err != nil {
		if relErr := s.Ledger.Release(ctx, employeeID, leaveTypeID, year, days); relErr != nil {
			slog.Error("reservation release after failed create", "err", relErr, "employeeId", employeeID)
		}
		return LeaveRequest{}, err
	}

	s.notify(ctx, companyID, employeeID, "leave_submitted", "Leave request submitted",
		"Your leave request for "+leaveType.Name+" is pending approval.")
	return created, nil
}

// Approve finalizes a pending request. Decisions are recorded per actor so a
// future multi-step accumulator only has to change the finalization
// predicate; today any approval finalizes regardless of the copied step
// count.
func (s *Service) Approve(ctx context.Context, companyID, requestID, actorID string) (LeaveRequest, error) {
	req, err := s.Store.GetRequest(ctx, companyID, requestID)
	if err != nil {
		return LeaveRequest{}, err
	}
	if req.Status != StatusPending {
		return LeaveRequest{}, ErrInvalidTransition
	}

	ok, err := s.Store.MarkApproved(ctx, requestID, actorID, time.Now().UTC())
	if err != nil {
		return LeaveRequest{}, err
	}
	if !ok {
		return LeaveRequest{}, ErrInvalidTransition
	}

	if err := s.Store.InsertDecision(ctx, requestID, actorID, DecisionApproved); err != nil {
		slog.Warn("decision record insert failed", "requestId", requestID, "err", err)
	}

	if err := s.Ledger.Commit(ctx, req.EmployeeID, req.LeaveTypeID, req.Year, req.DaysRequested); err != nil {
		return LeaveRequest{}, err
	}

	s.notify(ctx, companyID, req.EmployeeID, "leave_approved", "Leave request approved",
		"Your leave request has been approved.")
	return s.Store.GetRequest(ctx, companyID, requestID)
}

// Reject releases the reservation. The reason is optional for leave requests.
func (s *Service) Reject(ctx context.Context, companyID, requestID, actorID, reason string) (LeaveRequest, error) {
	req, err := s.Store.GetRequest(ctx, companyID, requestID)
	if err != nil {
		return LeaveRequest{}, err
	}
	if req.Status != StatusPending {
		return LeaveRequest{}, ErrInvalidTransition
	}

	ok, err := s.Store.MarkRejected(ctx, requestID, actorID, reason, time.Now().UTC())
	if err != nil {
		return LeaveRequest{}, err
	}
	if !ok {
		return LeaveRequest{}, ErrInvalidTransition
	}

	if err := s.Store.InsertDecision(ctx, requestID, actorID, DecisionRejected); err != nil {
		slog.Warn("decision record insert failed", "requestId", requestID, "err", err)
	}

	if err := s.Ledger.Release(ctx, req.EmployeeID, req.LeaveTypeID, req.Year, req.DaysRequested); err != nil {
		return LeaveRequest{}, err
	}

	s.notify(ctx, companyID, req.EmployeeID, "leave_rejected", "Leave request rejected",
		"Your leave request has been rejected.")
	return s.Store.GetRequest(ctx, companyID, requestID)
}

// Withdraw is only available to the requester while the request is pending.
func (s *Service) Withdraw(ctx context.Context, companyID, requestID, actorID string) (LeaveRequest, error) {
	req, err := s.Store.GetRequest(ctx, companyID, requestID)
	if err != nil {
		return LeaveRequest{}, err
	}
	if req.EmployeeID != actorID {
		return LeaveRequest{}, ErrForbidden
	}
	if req.Status != StatusPending {
		return LeaveRequest{}, ErrInvalidTransition
	}

	ok, err := s.Store.MarkWithdrawn(ctx, requestID)
	if err != nil {
		return LeaveRequest{}, err
	}
	if !ok {
		return LeaveRequest{}, ErrInvalidTransition
	}

	if err := s.Store.InsertDecision(ctx, requestID, actorID, DecisionWithdrawn); err != nil {
		slog.Warn("decision record insert failed", "requestId", requestID, "err", err)
	}

	if err := s.Ledger.Release(ctx, req.EmployeeID, req.LeaveTypeID, req.Year, req.DaysRequested); err != nil {
		return LeaveRequest{}, err
	}
	return s.Store.GetRequest(ctx, companyID, requestID)
}

func (s *Service) GetRequest(ctx context.Context, companyID, requestID string) (LeaveRequest, error) {
	return s.Store.GetRequest(ctx, companyID, requestID)
}

func (s *Service) ListRequests(ctx context.Context, companyID string, filter RequestFilter) (RequestListResult, error) {
	return s.Store.ListRequests(ctx, companyID, filter)
}

// Balances lists the employee's ledger records for a year with the derived
// available count filled in.
func (s *Service) Balances(ctx context.Context, companyID, employeeID string, year int) ([]LeaveBalance, error) {
	balances, err := s.Store.ListBalances(ctx, companyID, employeeID, year)
	if err != nil {
		return nil, err
	}
	for i := range balances {
		balances[i].Available = balances[i].AvailableDays()
		if balances[i].Available < 0 {
			slog.Warn("negative leave balance detected",
				"employeeId", employeeID, "leaveTypeId", balances[i].LeaveTypeID, "year", year)
		}
	}
	return balances, nil
}

func (s *Service) ListTypes(ctx context.Context, companyID string) ([]LeaveType, error) {
	return s.Store.ListTypes(ctx, companyID)
}

func (s *Service) GetType(ctx context.Context, companyID, typeID string) (LeaveType, error) {
	return s.Store.GetType(ctx, companyID, typeID)
}

func (s *Service) CreateType(ctx context.Context, payload LeaveType) (string, error) {
	if payload.Status == "" {
		payload.Status = TypeStatusActive
	}
	return s.Store.CreateType(ctx, payload)
}

func (s *Service) UpdateType(ctx context.Context, payload LeaveType) error {
	return s.Store.UpdateType(ctx, payload)
}

// DeleteType refuses to remove a type that balances or requests still
// reference.
func (s *Service) DeleteType(ctx context.Context, companyID, typeID string) error {
	referenced, err := s.Store.TypeReferenced(ctx, typeID)
	if err != nil {
		return err
	}
	if referenced {
		return ErrTypeInUse
	}
	return s.Store.DeleteType(ctx, companyID, typeID)
}

// RunCarryForward rolls prior-year remainders into the given year.
func (s *Service) RunCarryForward(ctx context.Context, companyID string, year int) (CarryForwardSummary, error) {
	cf, ok := s.Store.(CarryForwardStore)
	if !ok {
		return CarryForwardSummary{}, errors.New("store does not support carry forward")
	}
	return ApplyCarryForward(ctx, cf, companyID, year)
}

func (s *Service) resolveSteps(ctx context.Context, companyID, employeeID string) int {
	if s.Workflows == nil {
		return DefaultWorkflowSteps
	}
	departmentID := ""
	if s.Directory != nil {
		resolved, err := s.Directory.DepartmentForEmployee(ctx, companyID, employeeID)
		if err != nil {
			slog.Warn("department lookup failed", "employeeId", employeeID, "err", err)
		} else {
			departmentID = resolved
		}
	}
	steps, err := s.Workflows.StepCount(ctx, companyID, departmentID, workflowTypeLeave)
	if err != nil {
		slog.Warn("workflow resolve failed", "companyId", companyID, "departmentId", departmentID, "err", err)
		return DefaultWorkflowSteps
	}
	return steps
}

func (s *Service) notify(ctx context.Context, companyID, employeeID, ntype, title, body string) {
	if s.Notify == nil {
		return
	}
	if err := s.Notify.Notify(ctx, companyID, employeeID, ntype, title, body); err != nil {
		slog.Warn("notification failed", "type", ntype, "employeeId", employeeID, "err", err)
	}
}
