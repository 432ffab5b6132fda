package entity

import (
	"time"

	"github.com/google/uuid"
)

// PayoutStatus represents the status of a batched coach transfer
type PayoutStatus string

const (
	PayoutStatusPending    PayoutStatus = "pending"
	PayoutStatusProcessing PayoutStatus = "processing"
	PayoutStatusCompleted  PayoutStatus = "completed"
	PayoutStatusFailed     PayoutStatus = "failed"
	PayoutStatusCancelled  PayoutStatus = "cancelled"
)

// PayoutMethod selects the transfer rail.
type PayoutMethod string

const (
	PayoutMethodBankTransfer PayoutMethod = "bank_transfer"
	PayoutMethodGateway      PayoutMethod = "gateway"
)

type Payout struct {
	ID                uuid.UUID
	CoachID           uuid.UUID
	AmountCents       int64
	FeesCents         int64
	NetAmountCents    int64
	Status            PayoutStatus
	PayoutMethod      PayoutMethod
	GatewayTransferID string
	FailureReason     string
	PaymentCount      int
	Notes             string
	CreatedAt         time.Time
	UpdatedAt         time.Time
	ProcessedAt       *time.Time
}

// Processable reports whether the transfer may be (re)attempted.
// Failed payouts stay claimable and are retried, never unwound.
func (p *Payout) Processable() bool {
	return p.Status == PayoutStatusPending || p.Status == PayoutStatusFailed
}

// Terminal reports whether no further transition is defined.
func (p *Payout) Terminal() bool {
	return p.Status == PayoutStatusCompleted || p.Status == PayoutStatusCancelled
}
