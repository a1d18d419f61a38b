package workflow

import "context"

type StoreAPI interface {
	// ListActive returns active workflows for the company and type,
	// most recently updated first.
	ListActive(ctx context.Context, companyID, workflowType string) ([]ApprovalWorkflow, error)
	List(ctx context.Context, companyID string, filter Filter) ([]ApprovalWorkflow, error)
	Create(ctx context.Context, payload ApprovalWorkflow) (string, error)
	Get(ctx context.Context, companyID, workflowID string) (ApprovalWorkflow, error)
}
