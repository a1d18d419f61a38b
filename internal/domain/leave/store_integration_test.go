package leave_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"leavedesk/internal/domain/leave"
	"leavedesk/internal/platform/config"
	"leavedesk/internal/platform/db"
)

func setupPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	cfg := config.Config{DatabaseURL: dbURL, MigrationsDir: "../../../migrations"}
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(pool.Close)

	if err := db.Migrate(ctx, pool, cfg.MigrationsDir); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return pool
}

func seedEmployee(t *testing.T, pool *pgxpool.Pool) (companyID, employeeID, typeID string) {
	t.Helper()
	ctx := context.Background()
	suffix := fmt.Sprintf("%d", time.Now().UnixNano())

	if err := pool.QueryRow(ctx, `INSERT INTO companies (name) VALUES ($1) RETURNING id`,
		"it-company-"+suffix).Scan(&companyID); err != nil {
		t.Fatalf("seed company: %v", err)
	}
	if err := pool.QueryRow(ctx, `
    INSERT INTO employees (company_id, first_name, last_name, email, role_name, status, password_hash)
    VALUES ($1, 'Test', 'Employee', $2, 'employee', 'active', 'x')
    RETURNING id
  `, companyID, "it-"+suffix+"@example.com").Scan(&employeeID); err != nil {
		t.Fatalf("seed employee: %v", err)
	}
	if err := pool.QueryRow(ctx, `
    INSERT INTO leave_types (company_id, name, code, days_allowed, carry_forward_allowed, max_carry_forward_days, status)
    VALUES ($1, 'Annual Leave', $2, 10, true, 5, 'active')
    RETURNING id
  `, companyID, "AL"+suffix).Scan(&typeID); err != nil {
		t.Fatalf("seed leave type: %v", err)
	}
	return companyID, employeeID, typeID
}

func TestLedgerGuardsAgainstOverdraw(t *testing.T) {
	pool := setupPool(t)
	_, employeeID, typeID := seedEmployee(t, pool)
	store := leave.NewStore(pool)
	ctx := context.Background()
	year := time.Now().Year()

	if err := store.EnsureBalance(ctx, employeeID, typeID, year); err != nil {
		t.Fatalf("ensure balance: %v", err)
	}

	ok, err := store.ReserveDays(ctx, employeeID, typeID, year, 8)
	if err != nil || !ok {
		t.Fatalf("reserve 8: ok=%v err=%v", ok, err)
	}

	// 2 of 10 remain, reserving 3 must refuse without changing anything.
	ok, err = store.ReserveDays(ctx, employeeID, typeID, year, 3)
	if err != nil {
		t.Fatalf("reserve 3: %v", err)
	}
	if ok {
		t.Fatal("reserve beyond availability must report false")
	}

	balance, err := store.GetBalance(ctx, employeeID, typeID, year)
	if err != nil {
		t.Fatalf("get balance: %v", err)
	}
	if balance.PendingDays != 8 || balance.UsedDays != 0 {
		t.Fatalf("balance = %+v", balance)
	}

	ok, err = store.CommitDays(ctx, employeeID, typeID, year, 8)
	if err != nil || !ok {
		t.Fatalf("commit: ok=%v err=%v", ok, err)
	}
	balance, err = store.GetBalance(ctx, employeeID, typeID, year)
	if err != nil {
		t.Fatalf("get balance: %v", err)
	}
	if balance.PendingDays != 0 || balance.UsedDays != 8 || balance.AvailableDays() != 2 {
		t.Fatalf("balance after commit = %+v", balance)
	}

	// Releasing more than is pending must refuse.
	ok, err = store.ReleaseDays(ctx, employeeID, typeID, year, 1)
	if err != nil {
		t.Fatalf("release: %v", err)
	}
	if ok {
		t.Fatal("release with nothing pending must report false")
	}
}

func TestEnsureBalanceIsIdempotent(t *testing.T) {
	pool := setupPool(t)
	_, employeeID, typeID := seedEmployee(t, pool)
	store := leave.NewStore(pool)
	ctx := context.Background()
	year := time.Now().Year()

	for i := 0; i < 3; i++ {
		if err := store.EnsureBalance(ctx, employeeID, typeID, year); err != nil {
			t.Fatalf("ensure attempt %d: %v", i, err)
		}
	}
	balance, err := store.GetBalance(ctx, employeeID, typeID, year)
	if err != nil {
		t.Fatalf("get balance: %v", err)
	}
	if balance.TotalDays != 10 || balance.PendingDays != 0 {
		t.Fatalf("balance = %+v", balance)
	}
}
