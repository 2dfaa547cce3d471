package domain

import "fmt"

// ValidationError reports request input that fails presence or shape checks.
// The store is never touched when one is raised.
type ValidationError struct {
	Reason string
}

func (e ValidationError) Error() string { return e.Reason }

// ErrNotFound is returned when an id-scoped operation targets no existing row.
type ErrNotFound struct {
	ID int64
}

func (e ErrNotFound) Error() string { return fmt.Sprintf("sample %d not found", e.ID) }

// ConnectionError wraps a descriptor parse or connect failure. It is a
// per-request condition: the request fails, the process continues.
type ConnectionError struct {
	Cause error
}

func (e ConnectionError) Error() string { return fmt.Sprintf("database connection failed: %v", e.Cause) }

func (e ConnectionError) Unwrap() error { return e.Cause }
