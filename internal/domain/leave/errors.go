package leave

import "errors"

var (
	ErrInvalidDateRange    = errors.New("end date before start date")
	ErrInsufficientBalance = errors.New("insufficient leave balance")
	ErrInvalidTransition   = errors.New("request already decided")
	ErrForbidden           = errors.New("forbidden")
	ErrNotFound            = errors.New("leave request not found")
	ErrTypeNotFound        = errors.New("leave type not found")
	ErrTypeInactive        = errors.New("leave type is inactive")
	ErrTypeInUse           = errors.New("leave type is referenced by balances or requests")
	ErrDocumentRequired    = errors.New("supporting document required")

	// ErrInvariantViolation means the ledger arithmetic would go negative.
	// It indicates a caller bug, not a user error, and is logged as a defect.
	ErrInvariantViolation = errors.New("leave balance invariant violated")
)
