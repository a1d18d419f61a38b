package db

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"leavedesk/internal/domain/auth"
	"leavedesk/internal/platform/config"
)

// Seed provisions a first company with an HR admin, a couple of leave types
// and a default approval workflow. It is idempotent: an existing company with
// the configured name short-circuits everything.
func Seed(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	if !cfg.RunSeed {
		return nil
	}
	if strings.TrimSpace(cfg.SeedAdminEmail) == "" || strings.TrimSpace(cfg.SeedAdminPassword) == "" {
		slog.Info("seed skipped, admin credentials not configured")
		return nil
	}

	var companyID string
	err := pool.QueryRow(ctx, `SELECT id FROM companies WHERE name = $1`, cfg.SeedCompanyName).Scan(&companyID)
	if err == nil {
		return nil
	}

	if err := pool.QueryRow(ctx, `
    INSERT INTO companies (name) VALUES ($1) RETURNING id
  `, cfg.SeedCompanyName).Scan(&companyID); err != nil {
		return err
	}

	var departmentID string
	if err := pool.QueryRow(ctx, `
    INSERT INTO departments (company_id, name) VALUES ($1, $2) RETURNING id
  `, companyID, "General").Scan(&departmentID); err != nil {
		return err
	}

	passwordHash, err := auth.HashPassword(cfg.SeedAdminPassword)
	if err != nil {
		return err
	}
	if _, err := pool.Exec(ctx, `
    INSERT INTO employees (company_id, department_id, first_name, last_name, email, role_name, status, password_hash)
    VALUES ($1, $2, 'System', 'Admin', $3, $4, 'active', $5)
  `, companyID, departmentID, cfg.SeedAdminEmail, auth.RoleHR, passwordHash); err != nil {
		return err
	}

	leaveTypes := []struct {
		name    string
		code    string
		days    int
		carry   bool
		maxDays int
	}{
		{"Annual Leave", "AL", 20, true, 5},
		{"Sick Leave", "SL", 10, false, 0},
		{"Casual Leave", "CL", 5, false, 0},
	}
	for _, lt := range leaveTypes {
		if _, err := pool.Exec(ctx, `
      INSERT INTO leave_types (company_id, name, code, days_allowed, is_paid, carry_forward_allowed, max_carry_forward_days, status)
      VALUES ($1, $2, $3, $4, true, $5, $6, 'active')
    `, companyID, lt.name, lt.code, lt.days, lt.carry, lt.maxDays); err != nil {
			return err
		}
	}

	steps, _ := json.Marshal([]int{1})
	if _, err := pool.Exec(ctx, `
    INSERT INTO approval_workflows (company_id, workflow_type, steps, is_active)
    VALUES ($1, 'leave', $2, true)
  `, companyID, steps); err != nil {
		return err
	}

	slog.Info("seed completed", "company", cfg.SeedCompanyName)
	return nil
}
