package notifications

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

func (s *Store) Insert(ctx context.Context, n Notification) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO notifications (company_id, employee_id, type, title, body)
    VALUES ($1, $2, $3, $4, $5)
  `, n.CompanyID, n.EmployeeID, n.Type, n.Title, n.Body)
	return err
}

func (s *Store) ListForEmployee(ctx context.Context, companyID, employeeID string, unreadOnly bool, limit int) ([]Notification, error) {
	query := `
    SELECT id, company_id, employee_id, type, title, body, is_read, created_at
    FROM notifications
    WHERE company_id = $1 AND employee_id = $2
  `
	if unreadOnly {
		query += " AND NOT is_read"
	}
	query += " ORDER BY created_at DESC LIMIT $3"

	rows, err := s.DB.Query(ctx, query, companyID, employeeID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Notification
	for rows.Next() {
		var n Notification
		if err := rows.Scan(&n.ID, &n.CompanyID, &n.EmployeeID, &n.Type, &n.Title, &n.Body, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (s *Store) CountUnread(ctx context.Context, companyID, employeeID string) (int, error) {
	var count int
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(*) FROM notifications
    WHERE company_id = $1 AND employee_id = $2 AND NOT is_read
  `, companyID, employeeID).Scan(&count)
	return count, err
}

func (s *Store) MarkRead(ctx context.Context, companyID, employeeID, notificationID string) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE notifications SET is_read = true
    WHERE company_id = $1 AND employee_id = $2 AND id = $3
  `, companyID, employeeID, notificationID)
	return err
}

func (s *Store) MarkAllRead(ctx context.Context, companyID, employeeID string) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE notifications SET is_read = true
    WHERE company_id = $1 AND employee_id = $2 AND NOT is_read
  `, companyID, employeeID)
	return err
}
