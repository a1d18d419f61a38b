package memo

import (
	"context"
	"log/slog"
	"strings"
	"time"
)

const (
	workflowTypeMemo = "memo"

	DecisionApproved = "approved"
	DecisionRejected = "rejected"
)

// WorkflowResolver mirrors the leave engine's contract: the step count is
// copied onto the memo at creation time.
type WorkflowResolver interface {
	StepCount(ctx context.Context, companyID, departmentID, workflowType string) (int, error)
}

type DirectoryAPI interface {
	DepartmentForEmployee(ctx context.Context, companyID, employeeID string) (string, error)
}

type Notifier interface {
	Notify(ctx context.Context, companyID, employeeID, ntype, title, body string) error
}

type Service struct {
	Store     StoreAPI
	Workflows WorkflowResolver
	Directory DirectoryAPI
	Notify    Notifier
}

func NewService(store StoreAPI, workflows WorkflowResolver, directory DirectoryAPI, notify Notifier) *Service {
	return &Service{Store: store, Workflows: workflows, Directory: directory, Notify: notify}
}

func (s *Service) Create(ctx context.Context, payload Memo) (Memo, error) {
	if strings.TrimSpace(payload.Title) == "" {
		return Memo{}, ErrTitleRequired
	}
	if strings.TrimSpace(payload.Content) == "" {
		return Memo{}, ErrContentRequired
	}
	if payload.Priority == "" {
		payload.Priority = PriorityNormal
	}
	payload.Status = StatusPending
	payload.WorkflowSteps = s.resolveSteps(ctx, payload.CompanyID, payload.CreatedBy)
	return s.Store.Create(ctx, payload)
}

// Approve publishes the memo. Comments are optional; any single approval
// finalizes regardless of the copied step count.
func (s *Service) Approve(ctx context.Context, companyID, memoID, actorID, comments string) (Memo, error) {
	m, err := s.Store.Get(ctx, companyID, memoID)
	if err != nil {
		return Memo{}, err
	}
	if m.Status != StatusPending {
		return Memo{}, ErrInvalidTransition
	}

	ok, err := s.Store.MarkApproved(ctx, memoID, actorID, comments, time.Now().UTC())
	if err != nil {
		return Memo{}, err
	}
	if !ok {
		return Memo{}, ErrInvalidTransition
	}

	if err := s.Store.InsertDecision(ctx, memoID, actorID, DecisionApproved, comments); err != nil {
		slog.Warn("memo decision record insert failed", "memoId", memoID, "err", err)
	}

	s.notifyRecipients(ctx, m, "memo_published", "New memo: "+m.Title,
		"A memo addressed to you has been published.")
	return s.Store.Get(ctx, companyID, memoID)
}

// Reject requires comments so the author knows what to fix.
func (s *Service) Reject(ctx context.Context, companyID, memoID, actorID, comments string) (Memo, error) {
	if strings.TrimSpace(comments) == "" {
		return Memo{}, ErrReasonRequired
	}

	m, err := s.Store.Get(ctx, companyID, memoID)
	if err != nil {
		return Memo{}, err
	}
	if m.Status != StatusPending {
		return Memo{}, ErrInvalidTransition
	}

	ok, err := s.Store.MarkRejected(ctx, memoID, actorID, comments, time.Now().UTC())
	if err != nil {
		return Memo{}, err
	}
	if !ok {
		return Memo{}, ErrInvalidTransition
	}

	if err := s.Store.InsertDecision(ctx, memoID, actorID, DecisionRejected, comments); err != nil {
		slog.Warn("memo decision record insert failed", "memoId", memoID, "err", err)
	}

	s.notifyOne(ctx, m.CompanyID, m.CreatedBy, "memo_rejected", "Memo rejected",
		"Your memo \""+m.Title+"\" was rejected: "+comments)
	return s.Store.Get(ctx, companyID, memoID)
}

// MarkRead records a read receipt. Reading twice is not an error and does not
// move the original timestamp.
func (s *Service) MarkRead(ctx context.Context, companyID, memoID, employeeID string) error {
	if _, err := s.Store.Get(ctx, companyID, memoID); err != nil {
		return err
	}
	return s.Store.RecordRead(ctx, memoID, employeeID, time.Now().UTC())
}

func (s *Service) Get(ctx context.Context, companyID, memoID string) (Memo, error) {
	return s.Store.Get(ctx, companyID, memoID)
}

func (s *Service) List(ctx context.Context, companyID string, filter Filter) (ListResult, error) {
	return s.Store.List(ctx, companyID, filter)
}

func (s *Service) Reads(ctx context.Context, companyID, memoID string) ([]ReadReceipt, error) {
	if _, err := s.Store.Get(ctx, companyID, memoID); err != nil {
		return nil, err
	}
	return s.Store.ListReads(ctx, memoID)
}

func (s *Service) resolveSteps(ctx context.Context, companyID, authorID string) int {
	if s.Workflows == nil {
		return DefaultWorkflowSteps
	}
	departmentID := ""
	if s.Directory != nil {
		resolved, err := s.Directory.DepartmentForEmployee(ctx, companyID, authorID)
		if err != nil {
			slog.Warn("department lookup failed", "employeeId", authorID, "err", err)
		} else {
			departmentID = resolved
		}
	}
	steps, err := s.Workflows.StepCount(ctx, companyID, departmentID, workflowTypeMemo)
	if err != nil {
		slog.Warn("workflow resolve failed", "companyId", companyID, "departmentId", departmentID, "err", err)
		return DefaultWorkflowSteps
	}
	return steps
}

func (s *Service) notifyRecipients(ctx context.Context, m Memo, ntype, title, body string) {
	if s.Notify == nil {
		return
	}
	for _, recipientID := range m.RecipientIDs {
		if err := s.Notify.Notify(ctx, m.CompanyID, recipientID, ntype, title, body); err != nil {
			slog.Warn("notification failed", "type", ntype, "employeeId", recipientID, "err", err)
		}
	}
}

func (s *Service) notifyOne(ctx context.Context, companyID, employeeID, ntype, title, body string) {
	if s.Notify == nil {
		return
	}
	if err := s.Notify.Notify(ctx, companyID, employeeID, ntype, title, body); err != nil {
		slog.Warn("notification failed", "type", ntype, "employeeId", employeeID, "err", err)
	}
}
