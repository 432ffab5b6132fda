// Package ledger holds the money-movement engine: payment capture,
// the refund request lifecycle, payout aggregation, store credit and
// the reconciliation check. Each subpackage is a processor that
// receives a unit of work per call; this package carries the shared
// error taxonomy.
package ledger

import "fmt"

// NotFoundError: the referenced entity does not exist.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

// InvalidStateError: the operation is not defined for the record's
// current status. Detected before any gateway call; no side effects.
type InvalidStateError struct {
	Entity  string
	ID      string
	Status  string
	Message string
}

func (e *InvalidStateError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s %s is %s and does not permit this operation", e.Entity, e.ID, e.Status)
}

// InvalidAmountError: a refund or payout amount violates the
// remaining-balance invariant.
type InvalidAmountError struct {
	RequestedCents int64
	AvailableCents int64
	Message        string
}

func (e *InvalidAmountError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("requested %d cents exceeds available %d cents", e.RequestedCents, e.AvailableCents)
}

// ConflictError: a concurrency guard tripped or a duplicate
// outstanding request exists.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

// NothingToPayError: payout requested with an empty pending set.
type NothingToPayError struct {
	CoachID string
}

func (e *NothingToPayError) Error() string {
	return fmt.Sprintf("coach %s has no funds available to pay out", e.CoachID)
}
