package services

import "fmt"

// NotFoundError signals that a referenced contractor, job, or rating request
// does not exist. It is propagated to the caller, never retried.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// ValidationError rejects bad input before any write happens.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// UnresolvedLocationError means an address could not be resolved to
// coordinates. It is soft: recommendation degrades to exclusion instead of
// aborting.
type UnresolvedLocationError struct {
	Address string
	Err     error
}

func (e *UnresolvedLocationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("could not resolve location %q: %v", e.Address, e.Err)
	}
	return fmt.Sprintf("could not resolve location %q", e.Address)
}

func (e *UnresolvedLocationError) Unwrap() error { return e.Err }

// ConcurrencyError means an atomic read-modify-write lost a race. The caller
// should retry the operation once.
type ConcurrencyError struct {
	Resource string
	ID       string
}

func (e *ConcurrencyError) Error() string {
	return fmt.Sprintf("concurrent update on %s %s", e.Resource, e.ID)
}
