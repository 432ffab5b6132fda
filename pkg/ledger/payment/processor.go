package payment

import (
	"context"
	"errors"
	"time"

	"coachpay-be/internal/entity"
	"coachpay-be/internal/pkg/logger"
	"coachpay-be/internal/repository/specification"
	"coachpay-be/internal/repository/unitofwork"
	"coachpay-be/pkg/gateway"
	"coachpay-be/pkg/ledger"
	ledgerEvents "coachpay-be/pkg/ledger/events"

	"github.com/google/uuid"
)

// Processor moves a payment through pending/authorized -> succeeded or
// failed. The local row never shows succeeded unless the gateway
// confirmed the capture.
type Processor struct {
	gateway   gateway.Gateway
	logger    logger.ILogger
	publisher ledgerEvents.Publisher
}

// NewProcessor creates a new payment processor
func NewProcessor(gw gateway.Gateway, logger logger.ILogger, publisher ledgerEvents.Publisher) *Processor {
	return &Processor{
		gateway:   gw,
		logger:    logger,
		publisher: publisher,
	}
}

// Capture finalizes an authorized charge.
//
// A payment already in succeeded is returned as-is: a retried capture
// is a no-op, and the causal-event guard on billing transactions keeps
// the ledger at exactly one entry for the capture.
func (p *Processor) Capture(ctx context.Context, uow unitofwork.UnitOfWork, paymentId uuid.UUID) (*entity.Payment, error) {
	payment, err := uow.PaymentRepository().FindOne(ctx, specification.ByID{ID: paymentId})
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, &ledger.NotFoundError{Entity: "payment", ID: paymentId.String()}
	}

	if payment.Status == entity.PaymentStatusSucceeded {
		return payment, nil
	}
	if !payment.Capturable() {
		return nil, &ledger.InvalidStateError{
			Entity: "payment",
			ID:     paymentId.String(),
			Status: string(payment.Status),
		}
	}

	// Mirror the attempt in the ledger before touching the gateway.
	// The row starts pending and only ever progresses; retries hit the
	// causal-event unique index and write nothing.
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	_, err = uow.BillingTransactionRepository().CreateIfAbsent(ctx, &entity.BillingTransaction{
		UserID:          payment.ClientID,
		UserType:        "client",
		TransactionType: entity.TransactionTypePayment,
		AmountCents:     payment.AmountCents,
		Status:          entity.TransactionStatusPending,
		ReferenceID:     payment.ID,
		ReferenceType:   entity.ReferenceTypePayment,
		Description:     "Session payment capture",
	})
	if err != nil {
		uow.Rollback()
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	// The gateway call runs outside any transaction; the idempotency
	// key makes a concurrent or retried capture harmless.
	result, gwErr := p.gateway.Capture(ctx, payment.ExternalPaymentID, payment.AmountCents, ledger.CaptureKey(payment.ID))

	if gwErr != nil {
		var ge *gateway.GatewayError
		if errors.As(gwErr, &ge) && !ge.Retriable() {
			return nil, p.markFailed(ctx, uow, payment, ge)
		}
		// Unknown outcome. Leave the payment capturable and the ledger
		// row pending; the same call with the same key resolves it.
		p.logger.Warn("PAYMENT", "Capture outcome unknown, leaving retriable", map[string]interface{}{
			"paymentId": payment.ID.String(),
			"error":     gwErr.Error(),
		})
		return nil, gwErr
	}

	if result.Status != gateway.StatusSucceeded {
		return nil, p.markFailed(ctx, uow, payment, &gateway.GatewayError{
			Reason:  gateway.ReasonDeclined,
			Message: "capture declined",
		})
	}

	now := time.Now()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	moved, err := uow.PaymentRepository().UpdateStatusIf(ctx, payment.ID,
		[]entity.PaymentStatus{entity.PaymentStatusPending, entity.PaymentStatusAuthorized},
		entity.PaymentStatusSucceeded, &now)
	if err != nil {
		uow.Rollback()
		return nil, err
	}
	if err := uow.BillingTransactionRepository().UpdateStatusByEvent(ctx,
		entity.ReferenceTypePayment, payment.ID, entity.TransactionTypePayment,
		entity.TransactionStatusCompleted); err != nil {
		uow.Rollback()
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	if moved {
		p.logger.Info("PAYMENT", "Payment captured", map[string]interface{}{
			"paymentId":   payment.ID.String(),
			"amountCents": payment.AmountCents,
			"gatewayRef":  result.GatewayRef,
		})
		p.publisher.PublishPaymentCaptured(ctx, payment.ID, payment.ClientID, payment.CoachID, payment.AmountCents)
	}

	return uow.PaymentRepository().FindOne(ctx, specification.ByID{ID: paymentId})
}

func (p *Processor) markFailed(ctx context.Context, uow unitofwork.UnitOfWork, payment *entity.Payment, ge *gateway.GatewayError) error {
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	_, err := uow.PaymentRepository().UpdateStatusIf(ctx, payment.ID,
		[]entity.PaymentStatus{entity.PaymentStatusPending, entity.PaymentStatusAuthorized},
		entity.PaymentStatusFailed, nil)
	if err != nil {
		uow.Rollback()
		return err
	}
	if err := uow.BillingTransactionRepository().UpdateStatusByEvent(ctx,
		entity.ReferenceTypePayment, payment.ID, entity.TransactionTypePayment,
		entity.TransactionStatusFailed); err != nil {
		uow.Rollback()
		return err
	}
	if err := uow.Commit(); err != nil {
		return err
	}

	p.logger.Warn("PAYMENT", "Payment capture declined", map[string]interface{}{
		"paymentId": payment.ID.String(),
		"reason":    ge.Message,
	})
	p.publisher.PublishPaymentFailed(ctx, payment.ID, payment.ClientID, ge.Message)

	return ge
}
