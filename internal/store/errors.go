package store

import "fmt"

// ValidationError indicates a malformed or incomplete request. It is raised
// at request construction time, before any I/O happens.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on %s: %s", e.Field, e.Message)
}

// NoDataFoundError indicates a read against a record or dataset key that has
// never been persisted.
type NoDataFoundError struct {
	Resource string
	Key      string
}

func (e *NoDataFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.Key)
}

// DBError wraps a failure reported by the underlying sqlite store.
type DBError struct {
	Op  string
	Err error
}

func (e *DBError) Error() string {
	return fmt.Sprintf("db error in %s: %v", e.Op, e.Err)
}

func (e *DBError) Unwrap() error { return e.Err }
