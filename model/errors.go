package model

import "fmt"

// MalformedEventError means a decoded event was missing a required field or
// carried a value that could not be coerced to its declared type. It is
// raised only during Parse and is never wrapped around a store failure.
type MalformedEventError struct {
	Event string
	Field string
	Err   error
}

func (e *MalformedEventError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed %s event: field %q: %v", e.Event, e.Field, e.Err)
	}
	return fmt.Sprintf("malformed %s event: field %q", e.Event, e.Field)
}

func (e *MalformedEventError) Unwrap() error { return e.Err }

// MalformedSettlementError means the packed prices-and-volumes payload's
// byte length was inconsistent with N+2M.
type MalformedSettlementError struct {
	Want int
	Got  int
}

func (e *MalformedSettlementError) Error() string {
	return fmt.Sprintf("malformed settlement payload: want %d hex digits, got %d", e.Want, e.Got)
}

// BadTransitionError means a StateTransition named a transition type outside
// {Deposit, Withdraw}.
type BadTransitionError struct {
	Type TransitionType
}

func (e *BadTransitionError) Error() string {
	return fmt.Sprintf("bad transition type: %v", e.Type)
}

// NotFoundError means a requested predecessor state index (or other keyed
// record) is absent from the store, indicating a gap in the event stream.
type NotFoundError struct {
	Collection string
	Key        any
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: not found: %v", e.Collection, e.Key)
}

// StoreError wraps an underlying store failure without attempting local
// recovery.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store error during %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// AssertViolationError means an internal invariant failed, e.g. a settlement
// payload carries volumes for fewer orders than the auction holds. No
// handler checks balances for negativity, so a negative balance does not
// raise it.
type AssertViolationError struct {
	Invariant string
}

func (e *AssertViolationError) Error() string {
	return fmt.Sprintf("assertion violated: %s", e.Invariant)
}
