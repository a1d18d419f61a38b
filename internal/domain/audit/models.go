package audit

import "time"

const (
	ActionLeaveSubmitted  = "leave.submitted"
	ActionLeaveApproved   = "leave.approved"
	ActionLeaveRejected   = "leave.rejected"
	ActionLeaveWithdrawn  = "leave.withdrawn"
	ActionMemoCreated     = "memo.created"
	ActionMemoApproved    = "memo.approved"
	ActionMemoRejected    = "memo.rejected"
	ActionWorkflowCreated = "workflow.created"
	ActionTypeCreated     = "leave_type.created"
	ActionTypeUpdated     = "leave_type.updated"
	ActionTypeDeleted     = "leave_type.deleted"
)

type Event struct {
	ID              string    `json:"id"`
	CompanyID       string    `json:"companyId"`
	ActorEmployeeID string    `json:"actorEmployeeId"`
	Action          string    `json:"action"`
	EntityType      string    `json:"entityType"`
	EntityID        string    `json:"entityId"`
	Detail          string    `json:"detail,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}

type Filter struct {
	Action     string
	EntityType string
	Limit      int
	Offset     int
}
