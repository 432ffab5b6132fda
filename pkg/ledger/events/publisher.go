package events

import (
	"context"
	"time"

	"coachpay-be/internal/pkg/logger"
	pkgEvents "coachpay-be/pkg/events"
	pkgNats "coachpay-be/pkg/nats"

	"github.com/google/uuid"
)

// Publisher abstracts event publishing for ledger operations. Every
// terminal-state transition emits exactly one event for the
// notification and audit consumers.
type Publisher interface {
	PublishPaymentCaptured(ctx context.Context, paymentId, clientId, coachId uuid.UUID, amountCents int64)
	PublishPaymentFailed(ctx context.Context, paymentId, clientId uuid.UUID, reason string)
	PublishRefundRequested(ctx context.Context, requestId, paymentId, clientId uuid.UUID, amountCents int64, reason string)
	PublishRefundCompleted(ctx context.Context, requestId, paymentId, clientId, coachId uuid.UUID, amountCents int64, method string)
	PublishRefundRejected(ctx context.Context, requestId, paymentId, clientId uuid.UUID, rejectionReason string)
	PublishRefundCancelled(ctx context.Context, requestId, paymentId, clientId uuid.UUID)
	PublishPayoutCreated(ctx context.Context, payoutId, coachId uuid.UUID, amountCents, netAmountCents int64, paymentCount int)
	PublishPayoutProcessed(ctx context.Context, payoutId, coachId uuid.UUID, netAmountCents int64, gatewayTransferId string)
	PublishPayoutFailed(ctx context.Context, payoutId, coachId uuid.UUID, reason string)
	PublishCreditApplied(ctx context.Context, userId uuid.UUID, amountCents, newBalanceCents int64)
}

// NatsPublisher implements Publisher using NATS
type NatsPublisher struct {
	publisher *pkgNats.Publisher
	logger    logger.ILogger
}

// NewNatsPublisher creates a new NATS-based event publisher
func NewNatsPublisher(publisher *pkgNats.Publisher, logger logger.ILogger) *NatsPublisher {
	return &NatsPublisher{
		publisher: publisher,
		logger:    logger,
	}
}

func (p *NatsPublisher) publish(ctx context.Context, eventType string, data map[string]interface{}) {
	if p.publisher == nil {
		return
	}

	evt := pkgEvents.BaseEvent{
		Type:       eventType,
		Data:       data,
		OccurredAt: time.Now(),
	}

	if err := p.publisher.Publish(ctx, evt); err != nil {
		p.logger.Error("LEDGER", "Failed to publish "+eventType+" event", map[string]interface{}{"error": err.Error()})
	}
}

// PublishPaymentCaptured emits PAYMENT_CAPTURED event
func (p *NatsPublisher) PublishPaymentCaptured(ctx context.Context, paymentId, clientId, coachId uuid.UUID, amountCents int64) {
	p.publish(ctx, "PAYMENT_CAPTURED", map[string]interface{}{
		"payment_id":   paymentId,
		"client_id":    clientId,
		"coach_id":     coachId,
		"amount_cents": amountCents,
		"entity_type":  "payment",
		"entity_id":    paymentId.String(),
	})
}

// PublishPaymentFailed emits PAYMENT_FAILED event
func (p *NatsPublisher) PublishPaymentFailed(ctx context.Context, paymentId, clientId uuid.UUID, reason string) {
	p.publish(ctx, "PAYMENT_FAILED", map[string]interface{}{
		"payment_id":  paymentId,
		"client_id":   clientId,
		"reason":      reason,
		"entity_type": "payment",
		"entity_id":   paymentId.String(),
	})
}

// PublishRefundRequested emits REFUND_REQUESTED event
func (p *NatsPublisher) PublishRefundRequested(ctx context.Context, requestId, paymentId, clientId uuid.UUID, amountCents int64, reason string) {
	p.publish(ctx, "REFUND_REQUESTED", map[string]interface{}{
		"refund_request_id": requestId,
		"payment_id":        paymentId,
		"client_id":         clientId,
		"amount_cents":      amountCents,
		"reason":            reason,
		"entity_type":       "refund_request",
		"entity_id":         requestId.String(),
	})
}

// PublishRefundCompleted emits REFUND_COMPLETED event
func (p *NatsPublisher) PublishRefundCompleted(ctx context.Context, requestId, paymentId, clientId, coachId uuid.UUID, amountCents int64, method string) {
	p.publish(ctx, "REFUND_COMPLETED", map[string]interface{}{
		"refund_request_id": requestId,
		"payment_id":        paymentId,
		"client_id":         clientId,
		"coach_id":          coachId,
		"amount_cents":      amountCents,
		"refund_method":     method,
		"entity_type":       "refund_request",
		"entity_id":         requestId.String(),
	})
}

// PublishRefundRejected emits REFUND_REJECTED event
func (p *NatsPublisher) PublishRefundRejected(ctx context.Context, requestId, paymentId, clientId uuid.UUID, rejectionReason string) {
	p.publish(ctx, "REFUND_REJECTED", map[string]interface{}{
		"refund_request_id": requestId,
		"payment_id":        paymentId,
		"client_id":         clientId,
		"rejection_reason":  rejectionReason,
		"entity_type":       "refund_request",
		"entity_id":         requestId.String(),
	})
}

// PublishRefundCancelled emits REFUND_CANCELLED event
func (p *NatsPublisher) PublishRefundCancelled(ctx context.Context, requestId, paymentId, clientId uuid.UUID) {
	p.publish(ctx, "REFUND_CANCELLED", map[string]interface{}{
		"refund_request_id": requestId,
		"payment_id":        paymentId,
		"client_id":         clientId,
		"entity_type":       "refund_request",
		"entity_id":         requestId.String(),
	})
}

// PublishPayoutCreated emits PAYOUT_CREATED event
func (p *NatsPublisher) PublishPayoutCreated(ctx context.Context, payoutId, coachId uuid.UUID, amountCents, netAmountCents int64, paymentCount int) {
	p.publish(ctx, "PAYOUT_CREATED", map[string]interface{}{
		"payout_id":        payoutId,
		"coach_id":         coachId,
		"amount_cents":     amountCents,
		"net_amount_cents": netAmountCents,
		"payment_count":    paymentCount,
		"entity_type":      "payout",
		"entity_id":        payoutId.String(),
	})
}

// PublishPayoutProcessed emits PAYOUT_PROCESSED event
func (p *NatsPublisher) PublishPayoutProcessed(ctx context.Context, payoutId, coachId uuid.UUID, netAmountCents int64, gatewayTransferId string) {
	p.publish(ctx, "PAYOUT_PROCESSED", map[string]interface{}{
		"payout_id":           payoutId,
		"coach_id":            coachId,
		"net_amount_cents":    netAmountCents,
		"gateway_transfer_id": gatewayTransferId,
		"entity_type":         "payout",
		"entity_id":           payoutId.String(),
	})
}

// PublishPayoutFailed emits PAYOUT_FAILED event
func (p *NatsPublisher) PublishPayoutFailed(ctx context.Context, payoutId, coachId uuid.UUID, reason string) {
	p.publish(ctx, "PAYOUT_FAILED", map[string]interface{}{
		"payout_id":   payoutId,
		"coach_id":    coachId,
		"reason":      reason,
		"entity_type": "payout",
		"entity_id":   payoutId.String(),
	})
}

// PublishCreditApplied emits CREDIT_APPLIED event
func (p *NatsPublisher) PublishCreditApplied(ctx context.Context, userId uuid.UUID, amountCents, newBalanceCents int64) {
	p.publish(ctx, "CREDIT_APPLIED", map[string]interface{}{
		"user_id":           userId,
		"amount_cents":      amountCents,
		"new_balance_cents": newBalanceCents,
		"entity_type":       "user_credit",
		"entity_id":         userId.String(),
	})
}
