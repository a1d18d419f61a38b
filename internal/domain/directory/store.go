package directory

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"leavedesk/internal/platform/querier"
)

var ErrNotFound = errors.New("directory record not found")

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

// DepartmentForEmployee returns an empty id for employees without a
// department; only a missing employee is an error.
func (s *Store) DepartmentForEmployee(ctx context.Context, companyID, employeeID string) (string, error) {
	var departmentID string
	err := s.DB.QueryRow(ctx, `
    SELECT COALESCE(department_id::text, '')
    FROM employees
    WHERE company_id = $1 AND id = $2
  `, companyID, employeeID).Scan(&departmentID)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	return departmentID, err
}

func (s *Store) ListDepartments(ctx context.Context, companyID string) ([]Department, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, company_id, name, created_at
    FROM departments
    WHERE company_id = $1
    ORDER BY name
  `, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var departments []Department
	for rows.Next() {
		var d Department
		if err := rows.Scan(&d.ID, &d.CompanyID, &d.Name, &d.CreatedAt); err != nil {
			return nil, err
		}
		departments = append(departments, d)
	}
	return departments, rows.Err()
}

func (s *Store) ListEmployees(ctx context.Context, companyID string) ([]Employee, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, company_id, COALESCE(department_id::text, ''), first_name, last_name, email, role_name, status, created_at
    FROM employees
    WHERE company_id = $1 AND status = 'active'
    ORDER BY last_name, first_name
  `, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []Employee
	for rows.Next() {
		var e Employee
		if err := rows.Scan(&e.ID, &e.CompanyID, &e.DepartmentID, &e.FirstName, &e.LastName,
			&e.Email, &e.RoleName, &e.Status, &e.CreatedAt); err != nil {
			return nil, err
		}
		employees = append(employees, e)
	}
	return employees, rows.Err()
}

func (s *Store) GetEmployee(ctx context.Context, companyID, employeeID string) (Employee, error) {
	var e Employee
	err := s.DB.QueryRow(ctx, `
    SELECT id, company_id, COALESCE(department_id::text, ''), first_name, last_name, email, role_name, status, created_at
    FROM employees
    WHERE company_id = $1 AND id = $2
  `, companyID, employeeID).Scan(&e.ID, &e.CompanyID, &e.DepartmentID, &e.FirstName, &e.LastName,
		&e.Email, &e.RoleName, &e.Status, &e.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Employee{}, ErrNotFound
	}
	return e, err
}

// ListCompanyIDs feeds company-scoped background jobs.
func (s *Store) ListCompanyIDs(ctx context.Context) ([]string, error) {
	rows, err := s.DB.Query(ctx, `SELECT id FROM companies ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
