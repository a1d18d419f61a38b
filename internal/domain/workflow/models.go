package workflow

import "time"

const (
	TypeLeave   = "leave"
	TypeMemo    = "memo"
	TypeExpense = "expense"
)

// ApprovalWorkflow defines the ordered approver levels for one department and
// workflow type. The engine reads these; it never writes them.
type ApprovalWorkflow struct {
	ID           string    `json:"id"`
	CompanyID    string    `json:"companyId"`
	DepartmentID string    `json:"departmentId,omitempty"`
	WorkflowType string    `json:"workflowType"`
	Steps        []int     `json:"steps"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type Filter struct {
	WorkflowType string
	DepartmentID string
	OnlyActive   bool
}

func ValidType(workflowType string) bool {
	switch workflowType {
	case TypeLeave, TypeMemo, TypeExpense:
		return true
	}
	return false
}
