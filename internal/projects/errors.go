package projects

import (
	"errors"
	"strings"
)

var (
	ErrNotFound     = errors.New("project not found")
	ErrUnauthorized = errors.New("admin session required")
)

// PersistenceError wraps any failure from the persistence collaborator.
// The collaborator's message is preserved through Unwrap.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return "projects: " + e.Op + ": " + e.Err.Error()
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func persistErr(op string, err error) error {
	return &PersistenceError{Op: op, Err: err}
}

// ValidationError carries every violated rule of a draft; it never reaches
// the persistence collaborator.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return "invalid project: " + strings.Join(e.Messages, "; ")
}
