package leave

import (
	"context"
	"testing"
)

type fakeCarryForwardStore struct {
	types      []LeaveType
	remainders map[string]map[string]int
	upserts    map[string]int
	totals     map[string]int
}

func (f *fakeCarryForwardStore) ListCarryForwardTypes(_ context.Context, _ string) ([]LeaveType, error) {
	return f.types, nil
}

func (f *fakeCarryForwardStore) PriorYearRemainders(_ context.Context, _, leaveTypeID string, _ int) (map[string]int, error) {
	return f.remainders[leaveTypeID], nil
}

func (f *fakeCarryForwardStore) UpsertCarriedForward(_ context.Context, _, employeeID, leaveTypeID string, _, totalDays, carriedDays int) error {
	if f.upserts == nil {
		f.upserts = make(map[string]int)
		f.totals = make(map[string]int)
	}
	f.upserts[employeeID+"/"+leaveTypeID] = carriedDays
	f.totals[employeeID+"/"+leaveTypeID] = totalDays
	return nil
}

func TestApplyCarryForwardBoundsByMaxDays(t *testing.T) {
	store := &fakeCarryForwardStore{
		types: []LeaveType{
			{ID: "annual", DaysAllowed: 20, CarryForwardAllowed: true, MaxCarryForwardDays: 5},
		},
		remainders: map[string]map[string]int{
			"annual": {
				"emp-1": 8,
				"emp-2": 3,
				"emp-3": 0,
			},
		},
	}

	summary, err := ApplyCarryForward(context.Background(), store, "co-1", 2026)
	if err != nil {
		t.Fatalf("carry forward failed: %v", err)
	}
	if summary.TypesProcessed != 1 {
		t.Fatalf("expected 1 type processed, got %d", summary.TypesProcessed)
	}
	if summary.EmployeesRolled != 2 {
		t.Fatalf("expected 2 employees rolled, got %d", summary.EmployeesRolled)
	}

	if got := store.upserts["emp-1/annual"]; got != 5 {
		t.Fatalf("expected emp-1 capped at 5, got %d", got)
	}
	if got := store.upserts["emp-2/annual"]; got != 3 {
		t.Fatalf("expected emp-2 to carry 3, got %d", got)
	}
	if _, ok := store.upserts["emp-3/annual"]; ok {
		t.Fatal("zero remainder must not be written")
	}
	if got := store.totals["emp-1/annual"]; got != 20 {
		t.Fatalf("expected new-year total from entitlement, got %d", got)
	}
}

func TestApplyCarryForwardNoTypes(t *testing.T) {
	store := &fakeCarryForwardStore{}
	summary, err := ApplyCarryForward(context.Background(), store, "co-1", 2026)
	if err != nil {
		t.Fatalf("carry forward failed: %v", err)
	}
	if summary.TypesProcessed != 0 || summary.EmployeesRolled != 0 {
		t.Fatalf("expected empty summary, got %+v", summary)
	}
}
