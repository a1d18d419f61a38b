package memo

import "time"

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

const (
	PriorityLow    = "low"
	PriorityNormal = "normal"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

const DefaultWorkflowSteps = 1

// Memo is an internal announcement that goes through the same pending to
// terminal approval lifecycle as a leave request, without any ledger side.
type Memo struct {
	ID               string     `json:"id"`
	CompanyID        string     `json:"companyId"`
	Title            string     `json:"title"`
	Content          string     `json:"content"`
	MemoType         string     `json:"memoType,omitempty"`
	Priority         string     `json:"priority"`
	ReferenceNumber  string     `json:"referenceNumber,omitempty"`
	RecipientIDs     []string   `json:"recipientIds,omitempty"`
	Status           string     `json:"status"`
	WorkflowSteps    int        `json:"workflowSteps"`
	CreatedBy        string     `json:"createdBy"`
	ApprovedBy       string     `json:"approvedBy,omitempty"`
	ApprovedAt       *time.Time `json:"approvedAt,omitempty"`
	ApprovalComments string     `json:"approvalComments,omitempty"`
	RejectionReason  string     `json:"rejectionReason,omitempty"`
	RejectedAt       *time.Time `json:"rejectedAt,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

// ReadReceipt records that one employee has opened a memo. At most one per
// memo and employee; repeat reads keep the first timestamp.
type ReadReceipt struct {
	MemoID     string    `json:"memoId"`
	EmployeeID string    `json:"employeeId"`
	ReadAt     time.Time `json:"readAt"`
}

type Filter struct {
	Status      string
	CreatedBy   string
	RecipientID string
	Limit       int
	Offset      int
}

type ListResult struct {
	Memos []Memo `json:"memos"`
	Total int    `json:"total"`
}
