package workflow

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"leavedesk/internal/platform/querier"
)

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

func (s *Store) ListActive(ctx context.Context, companyID, workflowType string) ([]ApprovalWorkflow, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, company_id, COALESCE(department_id::text, ''), workflow_type, steps, is_active, created_at, updated_at
    FROM approval_workflows
    WHERE company_id = $1 AND workflow_type = $2 AND is_active
    ORDER BY updated_at DESC
  `, companyID, workflowType)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanWorkflows(rows)
}

func (s *Store) List(ctx context.Context, companyID string, filter Filter) ([]ApprovalWorkflow, error) {
	query := `
    SELECT id, company_id, COALESCE(department_id::text, ''), workflow_type, steps, is_active, created_at, updated_at
    FROM approval_workflows
    WHERE company_id = $1
  `
	args := []any{companyID}
	if filter.WorkflowType != "" {
		args = append(args, filter.WorkflowType)
		query += fmt.Sprintf(" AND workflow_type = $%d", len(args))
	}
	if filter.DepartmentID != "" {
		args = append(args, filter.DepartmentID)
		query += fmt.Sprintf(" AND department_id = $%d", len(args))
	}
	if filter.OnlyActive {
		query += " AND is_active"
	}
	query += " ORDER BY updated_at DESC"

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanWorkflows(rows)
}

func (s *Store) Create(ctx context.Context, payload ApprovalWorkflow) (string, error) {
	stepsJSON, err := json.Marshal(payload.Steps)
	if err != nil {
		return "", err
	}
	var id string
	err = s.DB.QueryRow(ctx, `
    INSERT INTO approval_workflows (company_id, department_id, workflow_type, steps, is_active)
    VALUES ($1, NULLIF($2, '')::uuid, $3, $4, $5)
    RETURNING id
  `, payload.CompanyID, payload.DepartmentID, payload.WorkflowType, stepsJSON, payload.IsActive).Scan(&id)
	return id, err
}

func (s *Store) Get(ctx context.Context, companyID, workflowID string) (ApprovalWorkflow, error) {
	var w ApprovalWorkflow
	var stepsJSON []byte
	err := s.DB.QueryRow(ctx, `
    SELECT id, company_id, COALESCE(department_id::text, ''), workflow_type, steps, is_active, created_at, updated_at
    FROM approval_workflows
    WHERE company_id = $1 AND id = $2
  `, companyID, workflowID).Scan(&w.ID, &w.CompanyID, &w.DepartmentID, &w.WorkflowType, &stepsJSON, &w.IsActive, &w.CreatedAt, &w.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ApprovalWorkflow{}, ErrNotFound
	}
	if err != nil {
		return ApprovalWorkflow{}, err
	}
	if err := json.Unmarshal(stepsJSON, &w.Steps); err != nil {
		return ApprovalWorkflow{}, err
	}
	return w, nil
}

func scanWorkflows(rows pgx.Rows) ([]ApprovalWorkflow, error) {
	var workflows []ApprovalWorkflow
	for rows.Next() {
		var w ApprovalWorkflow
		var stepsJSON []byte
		if err := rows.Scan(&w.ID, &w.CompanyID, &w.DepartmentID, &w.WorkflowType, &stepsJSON, &w.IsActive, &w.CreatedAt, &w.UpdatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(stepsJSON, &w.Steps); err != nil {
			return nil, err
		}
		workflows = append(workflows, w)
	}
	return workflows, rows.Err()
}
