package services

import "errors"

var (
	// ErrNotFound covers records that are absent or owned by another tenant.
	ErrNotFound = errors.New("record not found")
	// ErrConflict flags a delete blocked by dependent records.
	ErrConflict = errors.New("record has dependents")
)
