package entity

import (
	"time"

	"github.com/google/uuid"
)

// UserCredit is a user's store-credit balance. The balance must equal
// the chained sum of the user's credit transactions at all times.
type UserCredit struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	BalanceCents int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CreditTransaction is one append-only delta on a user's credit
// balance. PreviousBalanceCents + AmountCents = NewBalanceCents, and
// each row's previous balance must equal the prior row's new balance.
type CreditTransaction struct {
	ID                   uuid.UUID
	UserID               uuid.UUID
	AmountCents          int64
	PreviousBalanceCents int64
	NewBalanceCents      int64
	ReferenceID          *uuid.UUID
	ReferenceType        ReferenceType
	Description          string
	CreatedAt            time.Time
}

// Chained reports whether the row's own arithmetic holds.
func (t *CreditTransaction) Chained() bool {
	return t.PreviousBalanceCents+t.AmountCents == t.NewBalanceCents
}
