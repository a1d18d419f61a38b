package workflow

import (
	"context"
	"log/slog"
)

type Service struct {
	Store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{Store: store}
}

// Resolve returns the step list for the most specific active workflow: a
// department-scoped definition wins over a company-wide one. The second
// return is false when nothing is configured, which callers treat as
// single-step rather than an error. Duplicate active definitions at the same
// scope are a data error; the most recently updated one wins and the
// condition is logged.
func (s *Service) Resolve(ctx context.Context, companyID, departmentID, workflowType string) ([]int, bool, error) {
	candidates, err := s.Store.ListActive(ctx, companyID, workflowType)
	if err != nil {
		return nil, false, err
	}

	picked, found := pick(candidates, departmentID)
	if !found && departmentID != "" {
		picked, found = pick(candidates, "")
	}
	if !found {
		return nil, false, nil
	}

	steps := make([]int, len(picked.Steps))
	copy(steps, picked.Steps)
	return steps, true, nil
}

// StepCount is the leave.WorkflowResolver implementation: one step when no
// workflow is configured.
func (s *Service) StepCount(ctx context.Context, companyID, departmentID, workflowType string) (int, error) {
	steps, found, err := s.Resolve(ctx, companyID, departmentID, workflowType)
	if err != nil {
		return 0, err
	}
	if !found {
		return 1, nil
	}
	return len(steps), nil
}

func (s *Service) Create(ctx context.Context, payload ApprovalWorkflow) (string, error) {
	if !ValidType(payload.WorkflowType) {
		return "", ErrInvalidType
	}
	if len(payload.Steps) == 0 {
		return "", ErrInvalidSteps
	}
	for _, step := range payload.Steps {
		if step <= 0 {
			return "", ErrInvalidSteps
		}
	}
	return s.Store.Create(ctx, payload)
}

func (s *Service) List(ctx context.Context, companyID string, filter Filter) ([]ApprovalWorkflow, error) {
	return s.Store.List(ctx, companyID, filter)
}

func (s *Service) Get(ctx context.Context, companyID, workflowID string) (ApprovalWorkflow, error) {
	return s.Store.Get(ctx, companyID, workflowID)
}

func pick(candidates []ApprovalWorkflow, departmentID string) (ApprovalWorkflow, bool) {
	var matches []ApprovalWorkflow
	for _, candidate := range candidates {
		if candidate.DepartmentID == departmentID {
			matches = append(matches, candidate)
		}
	}
	if len(matches) == 0 {
		return ApprovalWorkflow{}, false
	}
	if len(matches) > 1 {
		slog.Warn("multiple active workflows for scope, using most recently updated",
			"companyId", matches[0].CompanyID, "departmentId", departmentID,
			"workflowType", matches[0].WorkflowType, "count", len(matches))
	}
	// Candidates arrive most recently updated first.
	return matches[0], true
}
