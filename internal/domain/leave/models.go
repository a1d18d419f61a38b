package leave

import "time"

type LeaveType struct {
	ID                    string    `json:"id"`
	CompanyID             string    `json:"companyId"`
	Name                  string    `json:"name"`
	Code                  string    `json:"code"`
	Description           string    `json:"description,omitempty"`
	DaysAllowed           int       `json:"daysAllowed"`
	IsPaid                bool      `json:"isPaid"`
	CarryForwardAllowed   bool      `json:"carryForwardAllowed"`
	MaxCarryForwardDays   int       `json:"maxCarryForwardDays"`
	RequiresDocumentation bool      `json:"requiresDocumentation"`
	ColorCode             string    `json:"colorCode,omitempty"`
	Status                string    `json:"status"`
	CreatedAt             time.Time `json:"createdAt"`
	UpdatedAt             time.Time `json:"updatedAt"`
}

// LeaveBalance is one ledger record, keyed by (employee, leave type, year).
// Available is derived on read, never stored.
type LeaveBalance struct {
	ID                 string `json:"id"`
	CompanyID          string `json:"companyId"`
	EmployeeID         string `json:"employeeId"`
	LeaveTypeID        string `json:"leaveTypeId"`
	LeaveTypeName      string `json:"leaveTypeName,omitempty"`
	Year               int    `json:"year"`
	TotalDays          int    `json:"totalDays"`
	UsedDays           int    `json:"usedDays"`
	PendingDays        int    `json:"pendingDays"`
	CarriedForwardDays int    `json:"carriedForwardDays"`
	Available          int    `json:"available"`
}

func (b LeaveBalance) AvailableDays() int {
	return b.TotalDays + b.CarriedForwardDays - b.UsedDays - b.PendingDays
}

type LeaveRequest struct {
	ID              string     `json:"id"`
	CompanyID       string     `json:"companyId"`
	EmployeeID      string     `json:"employeeId"`
	LeaveTypeID     string     `json:"leaveTypeId"`
	StartDate       time.Time  `json:"startDate"`
	EndDate         time.Time  `json:"endDate"`
	DaysRequested   int        `json:"daysRequested"`
	Year            int        `json:"year"`
	Reason          string     `json:"reason,omitempty"`
	Attachment      string     `json:"attachment,omitempty"`
	Status          string     `json:"status"`
	WorkflowSteps   int        `json:"workflowSteps"`
	ApprovedBy      string     `json:"approvedBy,omitempty"`
	ApprovedAt      *time.Time `json:"approvedAt,omitempty"`
	RejectionReason string     `json:"rejectionReason,omitempty"`
	RejectedAt      *time.Time `json:"rejectedAt,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

type RequestFilter struct {
	EmployeeID string
	Status     string
	Limit      int
	Offset     int
}

type RequestListResult struct {
	Requests []LeaveRequest `json:"requests"`
	Total    int            `json:"total"`
}
