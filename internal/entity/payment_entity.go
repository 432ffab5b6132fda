package entity

import (
	"time"

	"github.com/google/uuid"
)

// PaymentStatus represents the status of a client charge
type PaymentStatus string

const (
	PaymentStatusPending           PaymentStatus = "pending"
	PaymentStatusAuthorized        PaymentStatus = "authorized"
	PaymentStatusSucceeded         PaymentStatus = "succeeded"
	PaymentStatusPartiallyRefunded PaymentStatus = "partially_refunded"
	PaymentStatusRefunded          PaymentStatus = "refunded"
	PaymentStatusFailed            PaymentStatus = "failed"
	PaymentStatusCancelled         PaymentStatus = "cancelled"
)

// Payment is one client charge for one coaching session. The coach's
// cut is fixed at creation; coach_earnings_cents never exceeds
// amount_cents.
type Payment struct {
	ID                 uuid.UUID
	ClientID           uuid.UUID
	CoachID            uuid.UUID
	SessionID          *uuid.UUID
	AmountCents        int64
	CoachEarningsCents int64
	Status             PaymentStatus
	ExternalPaymentID  string
	PayoutID           *uuid.UUID
	Description        string
	CreatedAt          time.Time
	UpdatedAt          time.Time
	PaidAt             *time.Time
}

// Capturable reports whether the charge may still be captured.
func (p *Payment) Capturable() bool {
	return p.Status == PaymentStatusPending || p.Status == PaymentStatusAuthorized
}

// PayoutEligible reports whether the payment's earnings are claimable
// by a payout: settled money that no payout has consumed yet.
func (p *Payment) PayoutEligible() bool {
	if p.PayoutID != nil {
		return false
	}
	return p.Status == PaymentStatusSucceeded || p.Status == PaymentStatusPartiallyRefunded
}

// Refundable reports whether a refund request may reference this
// payment at all; the remaining-balance check is separate.
func (p *Payment) Refundable() bool {
	return p.Status == PaymentStatusSucceeded || p.Status == PaymentStatusPartiallyRefunded
}
