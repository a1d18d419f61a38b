package audit

import (
	"context"
	"fmt"

	"leavedesk/internal/platform/querier"
)

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

func (s *Store) Insert(ctx context.Context, event Event) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO audit_events (company_id, actor_employee_id, action, entity_type, entity_id, detail)
    VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''))
  `, event.CompanyID, event.ActorEmployeeID, event.Action, event.EntityType, event.EntityID, event.Detail)
	return err
}

func (s *Store) List(ctx context.Context, companyID string, filter Filter) ([]Event, error) {
	query := `
    SELECT id, company_id, actor_employee_id, action, entity_type, entity_id, COALESCE(detail, ''), created_at
    FROM audit_events
    WHERE company_id = $1
  `
	args := []any{companyID}
	if filter.Action != "" {
		args = append(args, filter.Action)
		query += fmt.Sprintf(" AND action = $%d", len(args))
	}
	if filter.EntityType != "" {
		args = append(args, filter.EntityType)
		query += fmt.Sprintf(" AND entity_type = $%d", len(args))
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	args = append(args, limit, filter.Offset)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.ID, &e.CompanyID, &e.ActorEmployeeID, &e.Action, &e.EntityType,
			&e.EntityID, &e.Detail, &e.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
