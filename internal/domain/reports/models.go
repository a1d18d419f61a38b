package reports

import "time"

// BalanceRow is one employee and leave type line in the balance report.
type BalanceRow struct {
	EmployeeID    string `json:"employeeId"`
	EmployeeName  string `json:"employeeName"`
	LeaveTypeName string `json:"leaveTypeName"`
	Year          int    `json:"year"`
	TotalDays     int    `json:"totalDays"`
	UsedDays      int    `json:"usedDays"`
	PendingDays   int    `json:"pendingDays"`
	CarriedDays   int    `json:"carriedDays"`
	AvailableDays int    `json:"availableDays"`
}

// RequestRow is one leave request line in the usage export.
type RequestRow struct {
	RequestID     string    `json:"requestId"`
	EmployeeName  string    `json:"employeeName"`
	LeaveTypeName string    `json:"leaveTypeName"`
	StartDate     time.Time `json:"startDate"`
	EndDate       time.Time `json:"endDate"`
	DaysRequested int       `json:"daysRequested"`
	Status        string    `json:"status"`
	SubmittedAt   time.Time `json:"submittedAt"`
}
