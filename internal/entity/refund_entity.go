package entity

import (
	"time"

	"github.com/google/uuid"
)

// RefundStatus represents the status of a refund request
type RefundStatus string

const (
	RefundStatusPending   RefundStatus = "pending"
	RefundStatusApproved  RefundStatus = "approved"
	RefundStatusRejected  RefundStatus = "rejected"
	RefundStatusCompleted RefundStatus = "completed"
	RefundStatusCancelled RefundStatus = "cancelled"
)

// RefundMethod selects how the money travels back to the client.
type RefundMethod string

const (
	RefundMethodOriginalPayment RefundMethod = "original_payment"
	RefundMethodStoreCredit     RefundMethod = "store_credit"
	RefundMethodManual          RefundMethod = "manual"
)

// RequesterType identifies who raised the request.
type RequesterType string

const (
	RequesterTypeClient RequesterType = "client"
	RequesterTypeCoach  RequesterType = "coach"
	RequesterTypeAdmin  RequesterType = "admin"
)

type RefundRequest struct {
	ID                 uuid.UUID
	PaymentID          uuid.UUID
	ClientID           uuid.UUID
	CoachID            uuid.UUID
	AmountCents        int64
	Reason             string
	Status             RefundStatus
	RefundMethod       RefundMethod
	RequestedBy        uuid.UUID
	RequestedByType    RequesterType
	ReviewedBy         *uuid.UUID
	ReviewedAt         *time.Time
	RejectionReason    string
	ProcessingFeeCents int64
	CoachPenaltyCents  int64
	GatewayRefundID    string
	FailureReason      string
	CreatedAt          time.Time
	UpdatedAt          time.Time

	Payment Payment
}

// Outstanding reports whether the request still blocks new refund
// requests on the same payment.
func (r *RefundRequest) Outstanding() bool {
	return r.Status == RefundStatusPending || r.Status == RefundStatusApproved
}

// Terminal reports whether no further transition is defined.
func (r *RefundRequest) Terminal() bool {
	switch r.Status {
	case RefundStatusCompleted, RefundStatusRejected, RefundStatusCancelled:
		return true
	}
	return false
}

// Reviewable reports whether approve/reject is still possible.
func (r *RefundRequest) Reviewable() bool {
	return r.Status == RefundStatusPending
}

// Cancellable reports whether the requester may withdraw the request.
// Once approved the money is in motion and only the gateway outcome
// decides what happens next.
func (r *RefundRequest) Cancellable() bool {
	return r.Status == RefundStatusPending
}
