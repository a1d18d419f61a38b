package memo

import "errors"

var (
	ErrNotFound          = errors.New("memo not found")
	ErrInvalidTransition = errors.New("memo already decided")
	ErrReasonRequired    = errors.New("rejection comments are required")
	ErrTitleRequired     = errors.New("memo title is required")
	ErrContentRequired   = errors.New("memo content is required")
)
