package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreatePayoutRequest struct {
	CoachId uuid.UUID `json:"coach_id" validate:"required"`
	Method  string    `json:"method,omitempty" validate:"omitempty,oneof=bank_transfer gateway"`
	Notes   string    `json:"notes,omitempty"`
}

type PayoutResponse struct {
	Id                uuid.UUID  `json:"id"`
	CoachId           uuid.UUID  `json:"coach_id"`
	AmountCents       int64      `json:"amount_cents"`
	FeesCents         int64      `json:"fees_cents"`
	NetAmountCents    int64      `json:"net_amount_cents"`
	Status            string     `json:"status"`
	PayoutMethod      string     `json:"payout_method"`
	GatewayTransferId string     `json:"gateway_transfer_id,omitempty"`
	FailureReason     string     `json:"failure_reason,omitempty"`
	PaymentCount      int        `json:"payment_count"`
	CreatedAt         time.Time  `json:"created_at"`
	ProcessedAt       *time.Time `json:"processed_at,omitempty"`
}

type EarningsResponse struct {
	CoachId    uuid.UUID          `json:"coach_id"`
	TotalCents int64              `json:"total_cents"`
	Payments   []*PaymentResponse `json:"payments"`
}
