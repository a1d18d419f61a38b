package reports

import (
	"context"

	"leavedesk/internal/platform/querier"
)

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

func (s *Store) BalanceRows(ctx context.Context, companyID string, year int) ([]BalanceRow, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT b.employee_id, e.first_name || ' ' || e.last_name, lt.name, b.year,
           b.total_days, b.used_days, b.pending_days, b.carried_forward_days
    FROM leave_balances b
    JOIN employees e ON e.id = b.employee_id
    JOIN leave_types lt ON lt.id = b.leave_type_id
    WHERE b.company_id = $1 AND b.year = $2
    ORDER BY e.last_name, e.first_name, lt.name
  `, companyID, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []BalanceRow
	for rows.Next() {
		var r BalanceRow
		if err := rows.Scan(&r.EmployeeID, &r.EmployeeName, &r.LeaveTypeName, &r.Year,
			&r.TotalDays, &r.UsedDays, &r.PendingDays, &r.CarriedDays); err != nil {
			return nil, err
		}
		r.AvailableDays = r.TotalDays + r.CarriedDays - r.UsedDays - r.PendingDays
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) RequestRows(ctx context.Context, companyID string, year int) ([]RequestRow, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT r.id, e.first_name || ' ' || e.last_name, lt.name,
           r.start_date, r.end_date, r.days_requested, r.status, r.created_at
    FROM leave_requests r
    JOIN employees e ON e.id = r.employee_id
    JOIN leave_types lt ON lt.id = r.leave_type_id
    WHERE r.company_id = $1 AND r.year = $2
    ORDER BY r.created_at
  `, companyID, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RequestRow
	for rows.Next() {
		var r RequestRow
		if err := rows.Scan(&r.RequestID, &r.EmployeeName, &r.LeaveTypeName,
			&r.StartDate, &r.EndDate, &r.DaysRequested, &r.Status, &r.SubmittedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
