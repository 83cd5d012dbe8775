package store

import "fmt"

// DeserializationError reports a record that is present but cannot be
// decoded into tasks.
type DeserializationError struct {
	Key string
	Err error
}

func (e *DeserializationError) Error() string {
	return fmt.Sprintf("failed to decode record %q: %v", e.Key, e.Err)
}

func (e *DeserializationError) Unwrap() error {
	return e.Err
}

// PersistenceError reports a failed read or write against the underlying store.
type PersistenceError struct {
	Op  string // "read", "write" or "clear"
	Key string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to %s record %q: %v", e.Op, e.Key, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
