package entity

import (
	"time"

	"github.com/google/uuid"
)

// TransactionType classifies a billing transaction.
type TransactionType string

const (
	TransactionTypePayment TransactionType = "payment"
	TransactionTypeRefund  TransactionType = "refund"
	TransactionTypeCredit  TransactionType = "credit"
	TransactionTypeDebit   TransactionType = "debit"
	TransactionTypeFee     TransactionType = "fee"
	TransactionTypePayout  TransactionType = "payout"
)

// TransactionStatus is the progression of the mirrored monetary event.
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusFailed    TransactionStatus = "failed"
	TransactionStatusCancelled TransactionStatus = "cancelled"
)

// ReferenceType names the entity a billing transaction points back to.
type ReferenceType string

const (
	ReferenceTypePayment ReferenceType = "payment"
	ReferenceTypeRefund  ReferenceType = "refund_request"
	ReferenceTypePayout  ReferenceType = "payout"
)

// BillingTransaction is an append-only ledger entry mirroring one
// monetary event. It is never rewritten except for status progression
// of the same logical event.
type BillingTransaction struct {
	ID              uuid.UUID
	UserID          uuid.UUID
	UserType        string
	TransactionType TransactionType
	AmountCents     int64
	Status          TransactionStatus
	ReferenceID     uuid.UUID
	ReferenceType   ReferenceType
	Description     string
	Metadata        map[string]interface{}
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
