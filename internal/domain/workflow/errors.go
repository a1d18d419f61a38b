package workflow

import "errors"

var (
	ErrInvalidSteps = errors.New("workflow steps must be a non-empty list of positive integers")
	ErrInvalidType  = errors.New("unknown workflow type")
	ErrNotFound     = errors.New("approval workflow not found")
)
