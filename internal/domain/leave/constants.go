package leave

const (
	StatusPending   = "pending"
	StatusApproved  = "approved"
	StatusRejected  = "rejected"
	StatusWithdrawn = "withdrawn"
)

const (
	TypeStatusActive   = "active"
	TypeStatusInactive = "inactive"
)

// DefaultWorkflowSteps applies when no approval workflow is configured for
// the request's department: one decision finalizes the request.
const DefaultWorkflowSteps = 1

const (
	DecisionApproved  = "approved"
	DecisionRejected  = "rejected"
	DecisionWithdrawn = "withdrawn"
)
