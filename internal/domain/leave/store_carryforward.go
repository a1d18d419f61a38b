package leave

import "context"

func (s *Store) ListCarryForwardTypes(ctx context.Context, companyID string) ([]LeaveType, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, company_id, name, code, COALESCE(description, ''), days_allowed, is_paid,
           carry_forward_allowed, max_carry_forward_days, requires_documentation,
           COALESCE(color_code, ''), status, created_at, updated_at
    FROM leave_types
    WHERE company_id = $1 AND carry_forward_allowed AND status = $2
  `, companyID, TypeStatusActive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var types []LeaveType
	for rows.Next() {
		var t LeaveType
		if err := rows.Scan(&t.ID, &t.CompanyID, &t.Name, &t.Code, &t.Description, &t.DaysAllowed, &t.IsPaid,
			&t.CarryForwardAllowed, &t.MaxCarryForwardDays, &t.RequiresDocumentation,
			&t.ColorCode, &t.Status, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		types = append(types, t)
	}
	return types, rows.Err()
}

// PriorYearRemainders returns, per employee, what was left unused in the
// given year. Pending days still count against the remainder until decided.
func (s *Store) PriorYearRemainders(ctx context.Context, companyID, leaveTypeID string, year int) (map[string]int, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT employee_id, total_days + carried_forward_days - used_days - pending_days
    FROM leave_balances
    WHERE company_id = $1 AND leave_type_id = $2 AND year = $3
  `, companyID, leaveTypeID, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	remainders := make(map[string]int)
	for rows.Next() {
		var employeeID string
		var remaining int
		if err := rows.Scan(&employeeID, &remaining); err != nil {
			return nil, err
		}
		remainders[employeeID] = remaining
	}
	return remainders, rows.Err()
}

func (s *Store) UpsertCarriedForward(ctx context.Context, companyID, employeeID, leaveTypeID string, year, totalDays, carriedDays int) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO leave_balances (company_id, employee_id, leave_type_id, year, total_days, used_days, pending_days, carried_forward_days)
    VALUES ($1,$2,$3,$4,$5,0,0,$6)
    ON CONFLICT (employee_id, leave_type_id, year)
      DO UPDATE SET carried_forward_days = EXCLUDED.carried_forward_days, updated_at = now()
  `, companyID, employeeID, leaveTypeID, year, totalDays, carriedDays)
	return err
}
