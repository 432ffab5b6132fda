// Package gateway abstracts the payment processor. The ledger engine
// only ever talks to the Gateway interface; provider specifics live in
// subpackages.
package gateway

import (
	"context"
	"fmt"
)

// Status is the definite outcome of a gateway operation. Transient
// network failures are reported as a GatewayError with ReasonNetwork
// or ReasonTimeout instead, and must be treated as "unknown outcome":
// the caller retries with the same idempotency key or waits for
// webhook/reconciliation confirmation.
type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusDeclined  Status = "declined"
)

type CaptureResult struct {
	Status     Status
	GatewayRef string
}

type RefundResult struct {
	Status          Status
	GatewayRefundID string
}

type TransferResult struct {
	Status            Status
	GatewayTransferID string
}

// Gateway is the payment processor adapter. Every operation carries an
// idempotency key derived from the local record so that retries never
// move money twice.
type Gateway interface {
	Capture(ctx context.Context, externalPaymentID string, amountCents int64, idempotencyKey string) (*CaptureResult, error)
	Refund(ctx context.Context, externalPaymentID string, amountCents int64, idempotencyKey string) (*RefundResult, error)
	Transfer(ctx context.Context, destinationAccount, bankCode string, amountCents int64, idempotencyKey string) (*TransferResult, error)
}

// Reason classifies a gateway failure.
type Reason string

const (
	ReasonDeclined Reason = "declined"
	ReasonNetwork  Reason = "network"
	ReasonTimeout  Reason = "timeout"
)

// GatewayError carries the failure class so callers can distinguish a
// definite decline (terminal for the attempt) from an unknown outcome
// (retriable with the same key).
type GatewayError struct {
	Reason  Reason
	Message string
	Err     error
}

func (e *GatewayError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("gateway %s: %s: %v", e.Reason, e.Message, e.Err)
	}
	return fmt.Sprintf("gateway %s: %s", e.Reason, e.Message)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

// Retriable reports whether the outcome is unknown and the operation
// may be reattempted with the same idempotency key.
func (e *GatewayError) Retriable() bool {
	return e.Reason == ReasonNetwork || e.Reason == ReasonTimeout
}
