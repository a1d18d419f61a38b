package memo

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

type fakeStore struct {
	memos     map[string]*Memo
	reads     map[string][]ReadReceipt
	decisions []string
	nextID    int
}

func newFakeStore() *fakeStore {
	return &fakeStore{memos: map[string]*Memo{}, reads: map[string][]ReadReceipt{}}
}

func (f *fakeStore) Create(_ context.Context, payload Memo) (Memo, error) {
	f.nextID++
	payload.ID = fmt.Sprintf("memo-%d", f.nextID)
	payload.CreatedAt = time.Now()
	m := payload
	f.memos[m.ID] = &m
	return m, nil
}

func (f *fakeStore) Get(_ context.Context, companyID, memoID string) (Memo, error) {
	m, ok := f.memos[memoID]
	if !ok || m.CompanyID != companyID {
		return Memo{}, ErrNotFound
	}
	return *m, nil
}

func (f *fakeStore) List(_ context.Context, companyID string, filter Filter) (ListResult, error) {
	var result ListResult
	for _, m := range f.memos {
		if m.CompanyID != companyID {
			continue
		}
		if filter.Status != "" && m.Status != filter.Status {
			continue
		}
		if filter.CreatedBy != "" && m.CreatedBy != filter.CreatedBy {
			continue
		}
		result.Memos = append(result.Memos, *m)
	}
	result.Total = len(result.Memos)
	return result, nil
}

func (f *fakeStore) MarkApproved(_ context.Context, memoID, actorID, comments string, at time.Time) (bool, error) {
	m, ok := f.memos[memoID]
	if !ok || m.Status != StatusPending {
		return false, nil
	}
	m.Status = StatusApproved
	m.ApprovedBy = actorID
	m.ApprovedAt = &at
	m.ApprovalComments = comments
	return true, nil
}

func (f *fakeStore) MarkRejected(_ context.Context, memoID, actorID, reason string, at time.Time) (bool, error) {
	m, ok := f.memos[memoID]
	if !ok || m.Status != StatusPending {
		return false, nil
	}
	m.Status = StatusRejected
	m.ApprovedBy = actorID
	m.RejectionReason = reason
	m.RejectedAt = &at
	return true, nil
}

func (f *fakeStore) InsertDecision(_ context.Context, memoID, actorID, decision, comments string) error {
	f.decisions = append(f.decisions, memoID+":"+actorID+":"+decision)
	return nil
}

func (f *fakeStore) RecordRead(_ context.Context, memoID, employeeID string, at time.Time) error {
	for _, r := range f.reads[memoID] {
		if r.EmployeeID == employeeID {
			return nil
		}
	}
	f.reads[memoID] = append(f.reads[memoID], ReadReceipt{MemoID: memoID, EmployeeID: employeeID, ReadAt: at})
	return nil
}

func (f *fakeStore) ListReads(_ context.Context, memoID string) ([]ReadReceipt, error) {
	return f.reads[memoID], nil
}

type fixedResolver struct{ steps int }

func (r fixedResolver) StepCount(context.Context, string, string, string) (int, error) {
	return r.steps, nil
}

type recordingNotifier struct{ sent []string }

func (n *recordingNotifier) Notify(_ context.Context, _, employeeID, ntype, _, _ string) error {
	n.sent = append(n.sent, ntype+":"+employeeID)
	return nil
}

const (
	testCompany = "company-1"
	testAuthor  = "emp-author"
	testManager = "emp-manager"
)

func newTestService() (*Service, *fakeStore, *recordingNotifier) {
	store := newFakeStore()
	notifier := &recordingNotifier{}
	svc := NewService(store, fixedResolver{steps: 2}, nil, notifier)
	return svc, store, notifier
}

func submit(t *testing.T, svc *Service, recipients ...string) Memo {
	t.Helper()
	m, err := svc.Create(context.Background(), Memo{
		CompanyID:    testCompany,
		Title:        "Office closure",
		Content:      "The office closes early on Friday.",
		Priority:     PriorityHigh,
		RecipientIDs: recipients,
		CreatedBy:    testAuthor,
	})
	if err != nil {
		t.Fatalf("create memo: %v", err)
	}
	return m
}

func TestCreateCopiesWorkflowStepsAndStartsPending(t *testing.T) {
	svc, _, _ := newTestService()
	m := submit(t, svc)
	if m.Status != StatusPending {
		t.Fatalf("status = %q, want pending", m.Status)
	}
	if m.WorkflowSteps != 2 {
		t.Fatalf("workflowSteps = %d, want the resolved count", m.WorkflowSteps)
	}
}

func TestCreateValidatesTitleAndContent(t *testing.T) {
	svc, _, _ := newTestService()
	_, err := svc.Create(context.Background(), Memo{CompanyID: testCompany, Content: "body", CreatedBy: testAuthor})
	if !errors.Is(err, ErrTitleRequired) {
		t.Fatalf("err = %v, want ErrTitleRequired", err)
	}
	_, err = svc.Create(context.Background(), Memo{CompanyID: testCompany, Title: "t", Content: "  ", CreatedBy: testAuthor})
	if !errors.Is(err, ErrContentRequired) {
		t.Fatalf("err = %v, want ErrContentRequired", err)
	}
}

func TestSingleApprovalFinalizesMultiStepMemo(t *testing.T) {
	svc, _, notifier := newTestService()
	m := submit(t, svc, "emp-r1", "emp-r2")

	approved, err := svc.Approve(context.Background(), testCompany, m.ID, testManager, "")
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if approved.Status != StatusApproved {
		t.Fatalf("status = %q, want approved even with two configured steps", approved.Status)
	}
	if len(notifier.sent) != 2 {
		t.Fatalf("notifications = %v, want one per recipient", notifier.sent)
	}
}

func TestApproveCommentsAreOptional(t *testing.T) {
	svc, _, _ := newTestService()
	m := submit(t, svc)
	approved, err := svc.Approve(context.Background(), testCompany, m.ID, testManager, "looks good")
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if approved.ApprovalComments != "looks good" {
		t.Fatalf("comments = %q", approved.ApprovalComments)
	}
}

func TestRejectRequiresComments(t *testing.T) {
	svc, store, _ := newTestService()
	m := submit(t, svc)

	_, err := svc.Reject(context.Background(), testCompany, m.ID, testManager, "  ")
	if !errors.Is(err, ErrReasonRequired) {
		t.Fatalf("err = %v, want ErrReasonRequired", err)
	}
	if store.memos[m.ID].Status != StatusPending {
		t.Fatal("memo must stay pending after a rejected empty-comment attempt")
	}

	rejected, err := svc.Reject(context.Background(), testCompany, m.ID, testManager, "needs legal review")
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if rejected.Status != StatusRejected || rejected.RejectionReason != "needs legal review" {
		t.Fatalf("rejected = %+v", rejected)
	}
}

func TestTerminalMemoRejectsFurtherDecisions(t *testing.T) {
	svc, _, _ := newTestService()
	m := submit(t, svc)

	if _, err := svc.Approve(context.Background(), testCompany, m.ID, testManager, ""); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if _, err := svc.Approve(context.Background(), testCompany, m.ID, testManager, ""); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("second approve err = %v, want ErrInvalidTransition", err)
	}
	if _, err := svc.Reject(context.Background(), testCompany, m.ID, testManager, "too late"); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("reject after approve err = %v, want ErrInvalidTransition", err)
	}
}

func TestMarkReadIsIdempotent(t *testing.T) {
	svc, store, _ := newTestService()
	m := submit(t, svc, "emp-r1")

	for i := 0; i < 3; i++ {
		if err := svc.MarkRead(context.Background(), testCompany, m.ID, "emp-r1"); err != nil {
			t.Fatalf("mark read attempt %d: %v", i, err)
		}
	}
	reads, err := svc.Reads(context.Background(), testCompany, m.ID)
	if err != nil {
		t.Fatalf("reads: %v", err)
	}
	if len(reads) != 1 {
		t.Fatalf("read receipts = %d, want exactly one", len(reads))
	}
	if len(store.reads[m.ID]) != 1 {
		t.Fatalf("stored receipts = %d, want exactly one", len(store.reads[m.ID]))
	}
}

func TestMarkReadUnknownMemo(t *testing.T) {
	svc, _, _ := newTestService()
	err := svc.MarkRead(context.Background(), testCompany, "memo-missing", "emp-r1")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
