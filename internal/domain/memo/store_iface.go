package memo

import (
	"context"
	"time"
)

type StoreAPI interface {
	Create(ctx context.Context, payload Memo) (Memo, error)
	Get(ctx context.Context, companyID, memoID string) (Memo, error)
	List(ctx context.Context, companyID string, filter Filter) (ListResult, error)

	// MarkApproved and MarkRejected only succeed while the memo is still
	// pending; false means another decision won.
	MarkApproved(ctx context.Context, memoID, actorID, comments string, at time.Time) (bool, error)
	MarkRejected(ctx context.Context, memoID, actorID, reason string, at time.Time) (bool, error)

	InsertDecision(ctx context.Context, memoID, actorID, decision, comments string) error

	// RecordRead inserts a read receipt once; repeats are no-ops.
	RecordRead(ctx context.Context, memoID, employeeID string, at time.Time) error
	ListReads(ctx context.Context, memoID string) ([]ReadReceipt, error)
}
