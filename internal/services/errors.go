package services

import "errors"

// Dashboard service errors
var (
	// ErrEmptyResultSet marks a filter combination that matches no
	// staffing days. It is a valid outcome the frontend must explain,
	// never a crash or a zero-filled chart.
	ErrEmptyResultSet = errors.New("no staffing days match the current filters")
)
