package leave

import "context"

type CarryForwardSummary struct {
	TypesProcessed  int
	EmployeesRolled int
}

// CarryForwardStore is the slice of storage the year roll needs. The upsert
// is idempotent: rerunning the roll recomputes the same carried amount from
// the prior year's final numbers.
type CarryForwardStore interface {
	ListCarryForwardTypes(ctx context.Context, companyID string) ([]LeaveType, error)
	PriorYearRemainders(ctx context.Context, companyID, leaveTypeID string, year int) (map[string]int, error)
	UpsertCarriedForward(ctx context.Context, companyID, employeeID, leaveTypeID string, year, totalDays, carriedDays int) error
}

// ApplyCarryForward provisions year-N balances from year-N-1 remainders for
// every carry-forward-enabled leave type, bounded by the type's
// maxCarryForwardDays.
func ApplyCarryForward(ctx context.Context, store CarryForwardStore, companyID string, year int) (CarryForwardSummary, error) {
	var summary CarryForwardSummary

	types, err := store.ListCarryForwardTypes(ctx, companyID)
	if err != nil {
		return summary, err
	}

	for _, leaveType := range types {
		remainders, err := store.PriorYearRemainders(ctx, companyID, leaveType.ID, year-1)
		if err != nil {
			return summary, err
		}

		for employeeID, remaining := range remainders {
			carried := remaining
			if carried > leaveType.MaxCarryForwardDays {
				carried = leaveType.MaxCarryForwardDays
			}
			if carried <= 0 {
				continue
			}
			if err := store.UpsertCarriedForward(ctx, companyID, employeeID, leaveType.ID, year, leaveType.DaysAllowed, carried); err != nil {
				return summary, err
			}
			summary.EmployeesRolled++
		}
		summary.TypesProcessed++
	}

	return summary, nil
}
