package leave

import (
	"context"
	"time"
)

type StoreAPI interface {
	LedgerStore

	ListTypes(ctx context.Context, companyID string) ([]LeaveType, error)
	GetType(ctx context.Context, companyID, typeID string) (LeaveType, error)
	CreateType(ctx context.Context, payload LeaveType) (string, error)
	UpdateType(ctx context.Context, payload LeaveType) error
	DeleteType(ctx context.Context, companyID, typeID string) error
	TypeReferenced(ctx context.Context, typeID string) (bool, error)

	CreateRequest(ctx context.Context, req LeaveRequest) (LeaveRequest, error)
	GetRequest(ctx context.Context, companyID, requestID string) (LeaveRequest, error)
	ListRequests(ctx context.Context, companyID string, filter RequestFilter) (RequestListResult, error)
	MarkApproved(ctx context.Context, requestID, actorID string, at time.Time) (bool, error)
	MarkRejected(ctx context.Context, requestID, actorID, reason string, at time.Time) (bool, error)
	MarkWithdrawn(ctx context.Context, requestID string) (bool, error)
	InsertDecision(ctx context.Context, requestID, actorID, decision string) error

	ListBalances(ctx context.Context, companyID, employeeID string, year int) ([]LeaveBalance, error)
}
