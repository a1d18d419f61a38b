package memo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

const memoColumns = `
  m.id, m.company_id, m.title, m.content, COALESCE(m.memo_type, ''), m.priority,
  COALESCE(m.reference_number, ''), m.status, m.workflow_steps, m.created_by,
  COALESCE(m.approved_by::text, ''), m.approved_at, COALESCE(m.approval_comments, ''),
  COALESCE(m.rejection_reason, ''), m.rejected_at, m.created_at, m.updated_at`

func (s *Store) Create(ctx context.Context, payload Memo) (Memo, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO memos (company_id, title, content, memo_type, priority, reference_number, status, workflow_steps, created_by)
    VALUES ($1, $2, $3, NULLIF($4, ''), $5, NULLIF($6, ''), $7, $8, $9)
    RETURNING id
  `, payload.CompanyID, payload.Title, payload.Content, payload.MemoType, payload.Priority,
		payload.ReferenceNumber, payload.Status, payload.WorkflowSteps, payload.CreatedBy).Scan(&id)
	if err != nil {
		return Memo{}, err
	}

	for _, recipientID := range payload.RecipientIDs {
		if _, err := s.DB.Exec(ctx, `
      INSERT INTO memo_recipients (memo_id, employee_id)
      VALUES ($1, $2)
      ON CONFLICT (memo_id, employee_id) DO NOTHING
    `, id, recipientID); err != nil {
			return Memo{}, err
		}
	}
	return s.get(ctx, payload.CompanyID, id)
}

func (s *Store) Get(ctx context.Context, companyID, memoID string) (Memo, error) {
	return s.get(ctx, companyID, memoID)
}

func (s *Store) get(ctx context.Context, companyID, memoID string) (Memo, error) {
	var m Memo
	err := s.DB.QueryRow(ctx, `
    SELECT`+memoColumns+`
    FROM memos m
    WHERE m.company_id = $1 AND m.id = $2
  `, companyID, memoID).Scan(
		&m.ID, &m.CompanyID, &m.Title, &m.Content, &m.MemoType, &m.Priority,
		&m.ReferenceNumber, &m.Status, &m.WorkflowSteps, &m.CreatedBy,
		&m.ApprovedBy, &m.ApprovedAt, &m.ApprovalComments,
		&m.RejectionReason, &m.RejectedAt, &m.CreatedAt, &m.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Memo{}, ErrNotFound
	}
	if err != nil {
		return Memo{}, err
	}

	rows, err := s.DB.Query(ctx, `
    SELECT employee_id FROM memo_recipients WHERE memo_id = $1 ORDER BY employee_id
  `, memoID)
	if err != nil {
		return Memo{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var recipientID string
		if err := rows.Scan(&recipientID); err != nil {
			return Memo{}, err
		}
		m.RecipientIDs = append(m.RecipientIDs, recipientID)
	}
	return m, rows.Err()
}

func (s *Store) List(ctx context.Context, companyID string, filter Filter) (ListResult, error) {
	where := " WHERE m.company_id = $1"
	args := []any{companyID}
	if filter.Status != "" {
		args = append(args, filter.Status)
		where += fmt.Sprintf(" AND m.status = $%d", len(args))
	}
	if filter.CreatedBy != "" {
		args = append(args, filter.CreatedBy)
		where += fmt.Sprintf(" AND m.created_by = $%d", len(args))
	}
	if filter.RecipientID != "" {
		args = append(args, filter.RecipientID)
		where += fmt.Sprintf(" AND EXISTS (SELECT 1 FROM memo_recipients r WHERE r.memo_id = m.id AND r.employee_id = $%d)", len(args))
	}

	var total int
	if err := s.DB.QueryRow(ctx, "SELECT count(*) FROM memos m"+where, args...).Scan(&total); err != nil {
		return ListResult{}, err
	}

	query := "SELECT" + memoColumns + " FROM memos m" + where + " ORDER BY m.created_at DESC"
	if filter.Limit > 0 {
		args = append(args, filter.Limit, filter.Offset)
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return ListResult{}, err
	}
	defer rows.Close()

	result := ListResult{Total: total}
	for rows.Next() {
		var m Memo
		if err := rows.Scan(
			&m.ID, &m.CompanyID, &m.Title, &m.Content, &m.MemoType, &m.Priority,
			&m.ReferenceNumber, &m.Status, &m.WorkflowSteps, &m.CreatedBy,
			&m.ApprovedBy, &m.ApprovedAt, &m.ApprovalComments,
			&m.RejectionReason, &m.RejectedAt, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return ListResult{}, err
		}
		result.Memos = append(result.Memos, m)
	}
	return result, rows.Err()
}

func (s *Store) MarkApproved(ctx context.Context, memoID, actorID, comments string, at time.Time) (bool, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE memos
    SET status = $2, approved_by = $3, approved_at = $4, approval_comments = NULLIF($5, ''), updated_at = now()
    WHERE id = $1 AND status = $6
  `, memoID, StatusApproved, actorID, at, comments, StatusPending)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (s *Store) MarkRejected(ctx context.Context, memoID, actorID, reason string, at time.Time) (bool, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE memos
    SET status = $2, approved_by = $3, rejection_reason = $4, rejected_at = $5, updated_at = now()
    WHERE id = $1 AND status = $6
  `, memoID, StatusRejected, actorID, reason, at, StatusPending)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (s *Store) InsertDecision(ctx context.Context, memoID, actorID, decision, comments string) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO memo_decisions (memo_id, actor_employee_id, decision, comments)
    VALUES ($1, $2, $3, NULLIF($4, ''))
  `, memoID, actorID, decision, comments)
	return err
}

func (s *Store) RecordRead(ctx context.Context, memoID, employeeID string, at time.Time) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO memo_reads (memo_id, employee_id, read_at)
    VALUES ($1, $2, $3)
    ON CONFLICT (memo_id, employee_id) DO NOTHING
  `, memoID, employeeID, at)
	return err
}

func (s *Store) ListReads(ctx context.Context, memoID string) ([]ReadReceipt, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT memo_id, employee_id, read_at
    FROM memo_reads
    WHERE memo_id = $1
    ORDER BY read_at
  `, memoID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reads []ReadReceipt
	for rows.Next() {
		var r ReadReceipt
		if err := rows.Scan(&r.MemoID, &r.EmployeeID, &r.ReadAt); err != nil {
			return nil, err
		}
		reads = append(reads, r)
	}
	return reads, rows.Err()
}
