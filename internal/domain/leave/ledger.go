package leave

import (
	"context"
	"log/slog"
)

// LedgerStore is the balance slice of StoreAPI. The guarded mutations are
// atomic conditional updates: the check and the write happen in one statement
// on the balance row, so concurrent reservations for the same tuple cannot
// both succeed past availability.
type LedgerStore interface {
	EnsureBalance(ctx context.Context, employeeID, leaveTypeID string, year int) error
	GetBalance(ctx context.Context, employeeID, leaveTypeID string, year int) (LeaveBalance, error)
	ReserveDays(ctx context.Context, employeeID, leaveTypeID string, year, days int) (bool, error)
	CommitDays(ctx context.Context, employeeID, leaveTypeID string, year, days int) (bool, error)
	ReleaseDays(ctx context.Context, employeeID, leaveTypeID string, year, days int) (bool, error)
}

// Ledger owns every mutation of leave balances. Nothing else in the system
// writes used_days or pending_days.
type Ledger struct {
	store LedgerStore
}

func NewLedger(store LedgerStore) *Ledger {
	return &Ledger{store: store}
}

// Reserve moves days into the pending bucket, creating the balance row lazily
// from the leave type's entitlement on first use in a year.
func (l *Ledger) Reserve(ctx context.Context, employeeID, leaveTypeID string, year, days int) error {
	if err := l.store.EnsureBalance(ctx, employeeID, leaveTypeID, year); err != nil {
		return err
	}
	ok, err := l.store.ReserveDays(ctx, employeeID, leaveTypeID, year, days)
	if err != nil {
		return err
	}
	if !ok {
		return ErrInsufficientBalance
	}
	return nil
}

// Commit moves days from pending to used on terminal approval.
func (l *Ledger) Commit(ctx context.Context, employeeID, leaveTypeID string, year, days int) error {
	ok, err := l.store.CommitDays(ctx, employeeID, leaveTypeID, year, days)
	if err != nil {
		return err
	}
	if !ok {
		slog.Error("ledger commit would break invariant",
			"employeeId", employeeID, "leaveTypeId", leaveTypeID, "year", year, "days", days)
		return ErrInvariantViolation
	}
	return nil
}

// Release returns reserved days on rejection or withdrawal.
func (l *Ledger) Release(ctx context.Context, employeeID, leaveTypeID string, year, days int) error {
	ok, err := l.store.ReleaseDays(ctx, employeeID, leaveTypeID, year, days)
	if err != nil {
		return err
	}
	if !ok {
		slog.Error("ledger release would break invariant",
			"employeeId", employeeID, "leaveTypeId", leaveTypeID, "year", year, "days", days)
		return ErrInvariantViolation
	}
	return nil
}

// Available returns total + carried - used - pending for the tuple. A
// negative result is surfaced, not hidden: it means the single-writer
// discipline was violated somewhere.
func (l *Ledger) Available(ctx context.Context, employeeID, leaveTypeID string, year int) (int, error) {
	balance, err := l.store.GetBalance(ctx, employeeID, leaveTypeID, year)
	if err != nil {
		return 0, err
	}
	available := balance.AvailableDays()
	if available < 0 {
		slog.Warn("negative leave balance detected",
			"employeeId", employeeID, "leaveTypeId", leaveTypeID, "year", year, "available", available)
	}
	return available, nil
}
