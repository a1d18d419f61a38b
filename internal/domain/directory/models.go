package directory

import "time"

type Department struct {
	ID        string    `json:"id"`
	CompanyID string    `json:"companyId"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

type Employee struct {
	ID           string    `json:"id"`
	CompanyID    string    `json:"companyId"`
	DepartmentID string    `json:"departmentId,omitempty"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Email        string    `json:"email"`
	RoleName     string    `json:"roleName"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
}
