package notifications

import "time"

const (
	TypeLeaveSubmitted = "leave_submitted"
	TypeLeaveApproved  = "leave_approved"
	TypeLeaveRejected  = "leave_rejected"
	TypeMemoPublished  = "memo_published"
	TypeMemoRejected   = "memo_rejected"
)

type Notification struct {
	ID         string    `json:"id"`
	CompanyID  string    `json:"companyId"`
	EmployeeID string    `json:"employeeId"`
	Type       string    `json:"type"`
	Title      string    `json:"title"`
	Body       string    `json:"body"`
	IsRead     bool      `json:"isRead"`
	CreatedAt  time.Time `json:"createdAt"`
}
