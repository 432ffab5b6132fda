package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreatePaymentRequest struct {
	ClientId           uuid.UUID  `json:"client_id" validate:"required"`
	CoachId            uuid.UUID  `json:"coach_id" validate:"required"`
	SessionId          *uuid.UUID `json:"session_id,omitempty"`
	AmountCents        int64      `json:"amount_cents" validate:"required,gt=0"`
	CoachEarningsCents int64      `json:"coach_earnings_cents" validate:"gte=0"`
	ExternalPaymentId  string     `json:"external_payment_id" validate:"required"`
	Description        string     `json:"description,omitempty"`
}

type PaymentResponse struct {
	Id                 uuid.UUID  `json:"id"`
	ClientId           uuid.UUID  `json:"client_id"`
	CoachId            uuid.UUID  `json:"coach_id"`
	AmountCents        int64      `json:"amount_cents"`
	CoachEarningsCents int64      `json:"coach_earnings_cents"`
	Status             string     `json:"status"`
	PayoutId           *uuid.UUID `json:"payout_id,omitempty"`
	Description        string     `json:"description,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	PaidAt             *time.Time `json:"paid_at,omitempty"`
}

// MidtransWebhookRequest mirrors the HTTP notification the gateway
// posts when a transaction settles asynchronously.
type MidtransWebhookRequest struct {
	TransactionStatus string `json:"transaction_status"`
	TransactionId     string `json:"transaction_id"`
	OrderId           string `json:"order_id"`
	StatusCode        string `json:"status_code"`
	GrossAmount       string `json:"gross_amount"`
	SignatureKey      string `json:"signature_key"`
	PaymentType       string `json:"payment_type"`
	FraudStatus       string `json:"fraud_status"`
}
