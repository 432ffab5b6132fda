package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateRefundRequest struct {
	PaymentId    uuid.UUID `json:"payment_id" validate:"required"`
	AmountCents  int64     `json:"amount_cents" validate:"required,gt=0"`
	Reason       string    `json:"reason" validate:"required,min=10"`
	RefundMethod string    `json:"refund_method,omitempty" validate:"omitempty,oneof=original_payment store_credit manual"`
}

type ReviewRefundRequest struct {
	Action          string `json:"action" validate:"required,oneof=approve reject"`
	RejectionReason string `json:"rejection_reason,omitempty"`
}

type RefundResponse struct {
	Id              uuid.UUID  `json:"id"`
	PaymentId       uuid.UUID  `json:"payment_id"`
	AmountCents     int64      `json:"amount_cents"`
	Reason          string     `json:"reason"`
	Status          string     `json:"status"`
	RefundMethod    string     `json:"refund_method"`
	RejectionReason string     `json:"rejection_reason,omitempty"`
	FailureReason   string     `json:"failure_reason,omitempty"`
	ReviewedAt      *time.Time `json:"reviewed_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

type AdminRefundListResponse struct {
	Id          uuid.UUID        `json:"id"`
	Payment     *PaymentResponse `json:"payment,omitempty"`
	AmountCents int64            `json:"amount_cents"`
	Reason      string           `json:"reason"`
	Status      string           `json:"status"`
	RequestedBy uuid.UUID        `json:"requested_by"`
	CreatedAt   time.Time        `json:"created_at"`
	ReviewedAt  *time.Time       `json:"reviewed_at,omitempty"`
}
