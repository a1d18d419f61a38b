package leave

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

func (s *Store) EnsureBalance(ctx context.Context, employeeID, leaveTypeID string, year int) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO leave_balances (company_id, employee_id, leave_type_id, year, total_days, used_days, pending_days, carried_forward_days)
    SELECT lt.company_id, $1, lt.id, $3, lt.days_allowed, 0, 0, 0
    FROM leave_types lt
    WHERE lt.id = $2
    ON CONFLICT (employee_id, leave_type_id, year) DO NOTHING
  `, employeeID, leaveTypeID, year)
	return err
}

func (s *Store) GetBalance(ctx context.Context, employeeID, leaveTypeID string, year int) (LeaveBalance, error) {
	var b LeaveBalance
	err := s.DB.QueryRow(ctx, `
    SELECT b.id, b.company_id, b.employee_id, b.leave_type_id, lt.name, b.year,
           b.total_days, b.used_days, b.pending_days, b.carried_forward_days
    FROM leave_balances b
    JOIN leave_types lt ON lt.id = b.leave_type_id
    WHERE b.employee_id = $1 AND b.leave_type_id = $2 AND b.year = $3
  `, employeeID, leaveTypeID, year).Scan(
		&b.ID, &b.CompanyID, &b.EmployeeID, &b.LeaveTypeID, &b.LeaveTypeName, &b.Year,
		&b.TotalDays, &b.UsedDays, &b.PendingDays, &b.CarriedForwardDays)
	if errors.Is(err, pgx.ErrNoRows) {
		return LeaveBalance{}, ErrNotFound
	}
	if err != nil {
		return LeaveBalance{}, err
	}
	b.Available = b.AvailableDays()
	return b, nil
}

// ReserveDays is the per-tuple critical section: the availability check and
// the pending increment happen in one conditional update on the balance row.
func (s *Store) ReserveDays(ctx context.Context, employeeID, leaveTypeID string, year, days int) (bool, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE leave_balances
    SET pending_days = pending_days + $4, updated_at = now()
    WHERE employee_id = $1 AND leave_type_id = $2 AND year = $3
      AND total_days + carried_forward_days - used_days - pending_days >= $4
  `, employeeID, leaveTypeID, year, days)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (s *Store) CommitDays(ctx context.Context, employeeID, leaveTypeID string, year, days int) (bool, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE leave_balances
    SET pending_days = pending_days - $4, used_days = used_days + $4, updated_at = now()
    WHERE employee_id = $1 AND leave_type_id = $2 AND year = $3 AND pending_days >= $4
  `, employeeID, leaveTypeID, year, days)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (s *Store) ReleaseDays(ctx context.Context, employeeID, leaveTypeID string, year, days int) (bool, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE leave_balances
    SET pending_days = pending_days - $4, updated_at = now()
    WHERE employee_id = $1 AND leave_type_id = $2 AND year = $3 AND pending_days >= $4
  `, employeeID, leaveTypeID, year, days)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (s *Store) ListBalances(ctx context.Context, companyID, employeeID string, year int) ([]LeaveBalance, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT b.id, b.company_id, b.employee_id, b.leave_type_id, lt.name, b.year,
           b.total_days, b.used_days, b.pending_days, b.carried_forward_days
    FROM leave_balances b
    JOIN leave_types lt ON lt.id = b.leave_type_id
    WHERE b.company_id = $1 AND b.employee_id = $2 AND b.year = $3
    ORDER BY lt.name
  `, companyID, employeeID, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var balances []LeaveBalance
	for rows.Next() {
		var b LeaveBalance
		if err := rows.Scan(&b.ID, &b.CompanyID, &b.EmployeeID, &b.LeaveTypeID, &b.LeaveTypeName, &b.Year,
			&b.TotalDays, &b.UsedDays, &b.PendingDays, &b.CarriedForwardDays); err != nil {
			return nil, err
		}
		balances = append(balances, b)
	}
	return balances, rows.Err()
}

func (s *Store) ListTypes(ctx context.Context, companyID string) ([]LeaveType, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, company_id, name, code, COALESCE(description, ''), days_allowed, is_paid,
           carry_forward_allowed, max_carry_forward_days, requires_documentation,
           COALESCE(color_code, ''), status, created_at, updated_at
    FROM leave_types
    WHERE company_id = $1
    ORDER BY name
  `, companyID)
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

func (s *Store) GetType(ctx context.Context, companyID, typeID string) (LeaveType, error) {
	var t LeaveType
	err := s.DB.QueryRow(ctx, `
    SELECT id, company_id, name, code, COALESCE(description, ''), days_allowed, is_paid,
           carry_forward_allowed, max_carry_forward_days, requires_documentation,
           COALESCE(color_code, ''), status, created_at, updated_at
    FROM leave_types
    WHERE company_id = $1 AND id = $2
  `, companyID, typeID).Scan(&t.ID, &t.CompanyID, &t.Name, &t.Code, &t.Description, &t.DaysAllowed, &t.IsPaid,
		&t.CarryForwardAllowed, &t.MaxCarryForwardDays, &t.RequiresDocumentation,
		&t.ColorCode, &t.Status, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return LeaveType{}, ErrTypeNotFound
	}
	if err != nil {
		return LeaveType{}, err
	}
	return t, nil
}

func (s *Store) CreateType(ctx context.Context, payload LeaveType) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO leave_types (company_id, name, code, description, days_allowed, is_paid,
                             carry_forward_allowed, max_carry_forward_days, requires_documentation, color_code, status)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
    RETURNING id
  `, payload.CompanyID, payload.Name, payload.Code, payload.Description, payload.DaysAllowed, payload.IsPaid,
		payload.CarryForwardAllowed, payload.MaxCarryForwardDays, payload.RequiresDocumentation,
		payload.ColorCode, payload.Status).Scan(&id)
	return id, err
}

func (s *Store) UpdateType(ctx context.Context, payload LeaveType) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE leave_types
    SET name = $3, code = $4, description = $5, days_allowed = $6, is_paid = $7,
        carry_forward_allowed = $8, max_carry_forward_days = $9, requires_documentation = $10,
        color_code = $11, status = $12, updated_at = now()
    WHERE company_id = $1 AND id = $2
  `, payload.CompanyID, payload.ID, payload.Name, payload.Code, payload.Description, payload.DaysAllowed,
		payload.IsPaid, payload.CarryForwardAllowed, payload.MaxCarryForwardDays,
		payload.RequiresDocumentation, payload.ColorCode, payload.Status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrTypeNotFound
	}
	return nil
}

func (s *Store) DeleteType(ctx context.Context, companyID, typeID string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM leave_types WHERE company_id = $1 AND id = $2", companyID, typeID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrTypeNotFound
	}
	return nil
}

func (s *Store) TypeReferenced(ctx context.Context, typeID string) (bool, error) {
	var referenced bool
	err := s.DB.QueryRow(ctx, `
    SELECT EXISTS (SELECT 1 FROM leave_balances WHERE leave_type_id = $1)
        OR EXISTS (SELECT 1 FROM leave_requests WHERE leave_type_id = $1)
  `, typeID).Scan(&referenced)
	return referenced, err
}

func (s *Store) CreateRequest(ctx context.Context, req LeaveRequest) (LeaveRequest, error) {
	err := s.DB.QueryRow(ctx, `
    INSERT INTO leave_requests (company_id, employee_id, leave_type_id, start_date, end_date,
                                days_requested, year, reason, attachment, status, workflow_steps)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
    RETURNING id, created_at, updated_at
  `, req.CompanyID, req.EmployeeID, req.LeaveTypeID, req.StartDate, req.EndDate,
		req.DaysRequested, req.Year, req.Reason, req.Attachment, req.Status, req.WorkflowSteps).
		Scan(&req.ID, &req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		return LeaveRequest{}, err
	}
	return req, nil
}

func (s *Store) GetRequest(ctx context.Context, companyID, requestID string) (LeaveRequest, error) {
	var req LeaveRequest
	var approvedBy, rejectionReason *string
	err := s.DB.QueryRow(ctx, `
    SELECT id, company_id, employee_id, leave_type_id, start_date, end_date,
           days_requested, year, COALESCE(reason, ''), COALESCE(attachment, ''), status, workflow_steps,
           approved_by, approved_at, rejection_reason, rejected_at, created_at, updated_at
    FROM leave_requests
    WHERE company_id = $1 AND id = $2
  `, companyID, requestID).Scan(
		&req.ID, &req.CompanyID, &req.EmployeeID, &req.LeaveTypeID, &req.StartDate, &req.EndDate,
		&req.DaysRequested, &req.Year, &req.Reason, &req.Attachment, &req.Status, &req.WorkflowSteps,
		&approvedBy, &req.ApprovedAt, &rejectionReason, &req.RejectedAt, &req.CreatedAt, &req.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return LeaveRequest{}, ErrNotFound
	}
	if err != nil {
		return LeaveRequest{}, err
	}
	if approvedBy != nil {
		req.ApprovedBy = *approvedBy
	}
	if rejectionReason != nil {
		req.RejectionReason = *rejectionReason
	}
	return req, nil
}

func (s *Store) ListRequests(ctx context.Context, companyID string, filter RequestFilter) (RequestListResult, error) {
	query := `
    SELECT id, company_id, employee_id, leave_type_id, start_date, end_date,
           days_requested, year, COALESCE(reason, ''), COALESCE(attachment, ''), status, workflow_steps,
           approved_by, approved_at, rejection_reason, rejected_at, created_at, updated_at
    FROM leave_requests
    WHERE company_id = $1
  `
	countQuery := "SELECT COUNT(1) FROM leave_requests WHERE company_id = $1"
	args := []any{companyID}

	if filter.EmployeeID != "" {
		args = append(args, filter.EmployeeID)
		clause := " AND employee_id = $2"
		query += clause
		countQuery += clause
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		clause := fmt.Sprintf(" AND status = $%d", len(args))
		query += clause
		countQuery += clause
	}

	var total int
	if err := s.DB.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return RequestListResult{}, err
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return RequestListResult{}, err
	}
	defer rows.Close()

	var requests []LeaveRequest
	for rows.Next() {
		var req LeaveRequest
		var approvedBy, rejectionReason *string
		if err := rows.Scan(&req.ID, &req.CompanyID, &req.EmployeeID, &req.LeaveTypeID, &req.StartDate, &req.EndDate,
			&req.DaysRequested, &req.Year, &req.Reason, &req.Attachment, &req.Status, &req.WorkflowSteps,
			&approvedBy, &req.ApprovedAt, &rejectionReason, &req.RejectedAt, &req.CreatedAt, &req.UpdatedAt); err != nil {
			return RequestListResult{}, err
		}
		if approvedBy != nil {
			req.ApprovedBy = *approvedBy
		}
		if rejectionReason != nil {
			req.RejectionReason = *rejectionReason
		}
		requests = append(requests, req)
	}
	return RequestListResult{Requests: requests, Total: total}, rows.Err()
}

// MarkApproved is a compare-and-swap on status: of two concurrent decisions
// exactly one sees a row update, the other reports false.
func (s *Store) MarkApproved(ctx context.Context, requestID, actorID string, at time.Time) (bool, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE leave_requests
    SET status = $3, approved_by = $2, approved_at = $4, updated_at = now()
    WHERE id = $1 AND status = $5
  `, requestID, actorID, StatusApproved, at, StatusPending)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (s *Store) MarkRejected(ctx context.Context, requestID, actorID, reason string, at time.Time) (bool, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE leave_requests
    SET status = $3, approved_by = $2, rejection_reason = NULLIF($4, ''), rejected_at = $5, updated_at = now()
    WHERE id = $1 AND status = $6
  `, requestID, actorID, StatusRejected, reason, at, StatusPending)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (s *Store) MarkWithdrawn(ctx context.Context, requestID string) (bool, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE leave_requests
    SET status = $2, updated_at = now()
    WHERE id = $1 AND status = $3
  `, requestID, StatusWithdrawn, StatusPending)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (s *Store) InsertDecision(ctx context.Context, requestID, actorID, decision string) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO leave_request_decisions (request_id, actor_employee_id, decision)
    VALUES ($1,$2,$3)
  `, requestID, actorID, decision)
	return err
}
