package refund

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
	"coachpay-be/pkg/ledger/credit"
	ledgerEvents "coachpay-be/pkg/ledger/events"

	"github.com/google/uuid"
)

// ReviewAction is the admin decision on a pending request.
type ReviewAction string

const (
	ActionApprove ReviewAction = "approve"
	ActionReject  ReviewAction = "reject"
)

// CreateParams carries the inputs for a new refund request. Requester
// identity is always explicit; the processor never reads ambient
// session state.
type CreateParams struct {
	PaymentID       uuid.UUID
	AmountCents     int64
	Reason          string
	Method          entity.RefundMethod
	RequestedBy     uuid.UUID
	RequestedByType entity.RequesterType
}

// Processor drives the refund request lifecycle:
// pending -> approved|rejected|cancelled, approved -> completed once
// the money has actually moved.
type Processor struct {
	gateway   gateway.Gateway
	credits   *credit.Applier
	logger    logger.ILogger
	publisher ledgerEvents.Publisher
}

// NewProcessor creates a new refund processor
func NewProcessor(gw gateway.Gateway, credits *credit.Applier, logger logger.ILogger, publisher ledgerEvents.Publisher) *Processor {
	return &Processor{
		gateway:   gw,
		credits:   credits,
		logger:    logger,
		publisher: publisher,
	}
}

// GetAll retrieves paginated refund requests with optional status filter
func (p *Processor) GetAll(ctx context.Context, uow unitofwork.UnitOfWork, page, limit int, status string) ([]*entity.RefundRequest, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	offset := (page - 1) * limit

	var specs []specification.Specification
	if status != "" {
		specs = append(specs, specification.Filter("status", status))
	}
	specs = append(specs, specification.Pagination{Limit: limit, Offset: offset})
	specs = append(specs, specification.OrderBy{Field: "created_at", Desc: true})

	return uow.RefundRequestRepository().FindAllWithPayment(ctx, specs...)
}

// Create opens a refund request in pending.
//
// The amount is capped at the payment's remaining refundable balance
// (original amount minus all completed refunds), and only one
// outstanding request may exist per payment at a time. Both guards and
// the insert run in one transaction under a row lock on the payment,
// so two concurrent creates for the same payment serialize: the loser
// re-reads after the winner's commit and trips a guard.
func (p *Processor) Create(ctx context.Context, uow unitofwork.UnitOfWork, params CreateParams) (*entity.RefundRequest, error) {
	if params.AmountCents <= 0 {
		return nil, &ledger.InvalidAmountError{
			RequestedCents: params.AmountCents,
			Message:        "refund amount must be positive",
		}
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	payment, err := uow.PaymentRepository().FindOne(ctx,
		specification.ByID{ID: params.PaymentID}, specification.LockForUpdate{})
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, &ledger.NotFoundError{Entity: "payment", ID: params.PaymentID.String()}
	}
	if !payment.Refundable() {
		return nil, &ledger.InvalidStateError{
			Entity: "payment",
			ID:     payment.ID.String(),
			Status: string(payment.Status),
		}
	}

	outstanding, err := uow.RefundRequestRepository().FindAll(ctx,
		specification.ByPayment{PaymentID: payment.ID},
		specification.StatusIn{Statuses: []string{
			string(entity.RefundStatusPending),
			string(entity.RefundStatusApproved),
		}})
	if err != nil {
		return nil, err
	}
	if len(outstanding) > 0 {
		return nil, &ledger.ConflictError{Message: "an outstanding refund request already exists for this payment"}
	}

	refunded, err := uow.RefundRequestRepository().SumCompletedByPayment(ctx, payment.ID)
	if err != nil {
		return nil, err
	}
	remaining := payment.AmountCents - refunded
	if params.AmountCents > remaining {
		return nil, &ledger.InvalidAmountError{
			RequestedCents: params.AmountCents,
			AvailableCents: remaining,
		}
	}

	method := params.Method
	if method == "" {
		method = entity.RefundMethodOriginalPayment
	}

	request := &entity.RefundRequest{
		PaymentID:       payment.ID,
		ClientID:        payment.ClientID,
		CoachID:         payment.CoachID,
		AmountCents:     params.AmountCents,
		Reason:          params.Reason,
		Status:          entity.RefundStatusPending,
		RefundMethod:    method,
		RequestedBy:     params.RequestedBy,
		RequestedByType: params.RequestedByType,
	}

	if err := uow.RefundRequestRepository().Create(ctx, request); err != nil {
		return nil, err
	}
	if _, err := uow.BillingTransactionRepository().CreateIfAbsent(ctx, &entity.BillingTransaction{
		UserID:          payment.ClientID,
		UserType:        "client",
		TransactionType: entity.TransactionTypeRefund,
		AmountCents:     params.AmountCents,
		Status:          entity.TransactionStatusPending,
		ReferenceID:     request.ID,
		ReferenceType:   entity.ReferenceTypeRefund,
		Description:     "Refund request: " + params.Reason,
	}); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	p.logger.Info("REFUND", "Refund request created", map[string]interface{}{
		"requestId":   request.ID.String(),
		"paymentId":   payment.ID.String(),
		"amountCents": params.AmountCents,
		"method":      string(method),
	})
	p.publisher.PublishRefundRequested(ctx, request.ID, payment.ID, payment.ClientID, params.AmountCents, params.Reason)

	return request, nil
}

// Review approves or rejects a pending request. The status transition
// is a single compare-and-set: of two concurrent reviewers exactly one
// wins and only the winner ever reaches the gateway.
func (p *Processor) Review(ctx context.Context, uow unitofwork.UnitOfWork, requestId uuid.UUID, action ReviewAction, reviewerId uuid.UUID, rejectionReason string) (*entity.RefundRequest, error) {
	request, err := uow.RefundRequestRepository().FindOne(ctx, specification.ByID{ID: requestId})
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, &ledger.NotFoundError{Entity: "refund request", ID: requestId.String()}
	}

	if reviewerId == request.RequestedBy {
		return nil, &ledger.ConflictError{Message: "a refund request cannot be reviewed by its requester"}
	}

	now := time.Now()

	switch action {
	case ActionReject:
		// The status flip and its ledger row close together or not at
		// all; a gap here is what the integrity check flags.
		if err := uow.Begin(ctx); err != nil {
			return nil, err
		}
		defer uow.Rollback()

		moved, err := uow.RefundRequestRepository().UpdateStatusIf(ctx, requestId,
			entity.RefundStatusPending, entity.RefundStatusRejected,
			map[string]interface{}{
				"reviewed_by":      reviewerId,
				"reviewed_at":      now,
				"rejection_reason": rejectionReason,
			})
		if err != nil {
			return nil, err
		}
		if !moved {
			return nil, &ledger.InvalidStateError{
				Entity:  "refund request",
				ID:      requestId.String(),
				Status:  string(request.Status),
				Message: "this request has already been reviewed",
			}
		}
		if err := uow.BillingTransactionRepository().UpdateStatusByEvent(ctx,
			entity.ReferenceTypeRefund, requestId, entity.TransactionTypeRefund,
			entity.TransactionStatusCancelled); err != nil {
			return nil, err
		}
		if err := uow.Commit(); err != nil {
			return nil, err
		}

		p.logger.Info("REFUND", "Refund request rejected", map[string]interface{}{
			"requestId":  requestId.String(),
			"reviewerId": reviewerId.String(),
			"reason":     rejectionReason,
		})
		p.publisher.PublishRefundRejected(ctx, requestId, request.PaymentID, request.ClientID, rejectionReason)

		return uow.RefundRequestRepository().FindOne(ctx, specification.ByID{ID: requestId})

	case ActionApprove:
		moved, err := uow.RefundRequestRepository().UpdateStatusIf(ctx, requestId,
			entity.RefundStatusPending, entity.RefundStatusApproved,
			map[string]interface{}{
				"reviewed_by": reviewerId,
				"reviewed_at": now,
			})
		if err != nil {
			return nil, err
		}
		if !moved {
			return nil, &ledger.InvalidStateError{
				Entity:  "refund request",
				ID:      requestId.String(),
				Status:  string(request.Status),
				Message: "this request has already been reviewed",
			}
		}

		return p.Execute(ctx, uow, requestId)

	default:
		return nil, &ledger.InvalidStateError{
			Entity:  "refund request",
			ID:      requestId.String(),
			Message: "unknown review action",
		}
	}
}

// Execute moves the money for an approved request. Called by the
// approve path and again by the retry endpoint when an earlier attempt
// hit a gateway failure; the idempotency key stays the same across
// attempts so the gateway refunds at most once.
func (p *Processor) Execute(ctx context.Context, uow unitofwork.UnitOfWork, requestId uuid.UUID) (*entity.RefundRequest, error) {
	request, err := uow.RefundRequestRepository().FindOne(ctx, specification.ByID{ID: requestId})
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, &ledger.NotFoundError{Entity: "refund request", ID: requestId.String()}
	}
	if request.Status != entity.RefundStatusApproved {
		return nil, &ledger.InvalidStateError{
			Entity: "refund request",
			ID:     requestId.String(),
			Status: string(request.Status),
		}
	}

	payment, err := uow.PaymentRepository().FindOne(ctx, specification.ByID{ID: request.PaymentID})
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, &ledger.NotFoundError{Entity: "payment", ID: request.PaymentID.String()}
	}

	// Re-validate the remaining balance at execution time, before any
	// money moves. The creation-time guard holds under the payment row
	// lock, but a request approved against stale history must not push
	// the completed sum past the payment amount.
	refunded, err := uow.RefundRequestRepository().SumCompletedByPayment(ctx, payment.ID)
	if err != nil {
		return nil, err
	}
	if request.AmountCents > payment.AmountCents-refunded {
		return nil, &ledger.InvalidAmountError{
			RequestedCents: request.AmountCents,
			AvailableCents: payment.AmountCents - refunded,
		}
	}

	switch request.RefundMethod {
	case entity.RefundMethodStoreCredit:
		if err := uow.Begin(ctx); err != nil {
			return nil, err
		}
		defer uow.Rollback()

		refId := request.ID
		if _, err := p.credits.Apply(ctx, uow, request.ClientID, request.AmountCents, &refId,
			entity.ReferenceTypeRefund, "Refund as store credit"); err != nil {
			return nil, err
		}
		if err := p.complete(ctx, uow, request, payment, ""); err != nil {
			return nil, err
		}
		if err := uow.Commit(); err != nil {
			return nil, err
		}

	case entity.RefundMethodManual:
		// Back-office override: money moved outside the gateway. The
		// transition is allowed but stands out in the audit trail.
		p.logger.Warn("REFUND", "Manual refund completion", map[string]interface{}{
			"requestId":   request.ID.String(),
			"paymentId":   payment.ID.String(),
			"amountCents": request.AmountCents,
		})
		if err := uow.Begin(ctx); err != nil {
			return nil, err
		}
		defer uow.Rollback()
		if err := p.complete(ctx, uow, request, payment, ""); err != nil {
			return nil, err
		}
		if err := uow.Commit(); err != nil {
			return nil, err
		}

	default: // original_payment
		result, gwErr := p.gateway.Refund(ctx, payment.ExternalPaymentID, request.AmountCents, ledger.RefundKey(request.ID))
		if gwErr != nil {
			// The request stays approved with the failure recorded,
			// whether the gateway declined or the outcome is unknown.
			// Nothing is marked completed on an ambiguous timeout.
			reason := gwErr.Error()
			var ge *gateway.GatewayError
			if errors.As(gwErr, &ge) {
				reason = ge.Message
			}
			request.FailureReason = reason
			if uerr := uow.RefundRequestRepository().Update(ctx, request); uerr != nil {
				return nil, uerr
			}
			p.logger.Error("REFUND", "Gateway refund failed", map[string]interface{}{
				"requestId": request.ID.String(),
				"error":     gwErr.Error(),
			})
			return nil, gwErr
		}
		if result.Status != gateway.StatusSucceeded {
			ge := &gateway.GatewayError{Reason: gateway.ReasonDeclined, Message: "refund declined"}
			request.FailureReason = ge.Message
			if uerr := uow.RefundRequestRepository().Update(ctx, request); uerr != nil {
				return nil, uerr
			}
			return nil, ge
		}

		if err := uow.Begin(ctx); err != nil {
			return nil, err
		}
		defer uow.Rollback()
		if err := p.complete(ctx, uow, request, payment, result.GatewayRefundID); err != nil {
			return nil, err
		}
		if err := uow.Commit(); err != nil {
			return nil, err
		}
	}

	p.logger.Info("REFUND", "Refund completed", map[string]interface{}{
		"requestId":   request.ID.String(),
		"paymentId":   payment.ID.String(),
		"amountCents": request.AmountCents,
		"method":      string(request.RefundMethod),
	})
	p.publisher.PublishRefundCompleted(ctx, request.ID, payment.ID, request.ClientID, request.CoachID,
		request.AmountCents, string(request.RefundMethod))

	return uow.RefundRequestRepository().FindOne(ctx, specification.ByID{ID: requestId})
}

// complete finishes the transition inside an open transaction: request
// approved -> completed, payment marked refunded or partially
// refunded, ledger row progressed.
func (p *Processor) complete(ctx context.Context, uow unitofwork.UnitOfWork, request *entity.RefundRequest, payment *entity.Payment, gatewayRefundId string) error {
	moved, err := uow.RefundRequestRepository().UpdateStatusIf(ctx, request.ID,
		entity.RefundStatusApproved, entity.RefundStatusCompleted,
		map[string]interface{}{
			"gateway_refund_id": gatewayRefundId,
			"failure_reason":    "",
		})
	if err != nil {
		return err
	}
	if !moved {
		return &ledger.InvalidStateError{
			Entity:  "refund request",
			ID:      request.ID.String(),
			Message: "refund already completed",
		}
	}

	refunded, err := uow.RefundRequestRepository().SumCompletedByPayment(ctx, payment.ID)
	if err != nil {
		return err
	}

	target := entity.PaymentStatusPartiallyRefunded
	if refunded >= payment.AmountCents {
		target = entity.PaymentStatusRefunded
	}
	if _, err := uow.PaymentRepository().UpdateStatusIf(ctx, payment.ID,
		[]entity.PaymentStatus{entity.PaymentStatusSucceeded, entity.PaymentStatusPartiallyRefunded},
		target, nil); err != nil {
		return err
	}

	return uow.BillingTransactionRepository().UpdateStatusByEvent(ctx,
		entity.ReferenceTypeRefund, request.ID, entity.TransactionTypeRefund,
		entity.TransactionStatusCompleted)
}

// Cancel withdraws a still-pending request. Only the requester may
// cancel, and nothing monetary has happened yet.
func (p *Processor) Cancel(ctx context.Context, uow unitofwork.UnitOfWork, requestId, byUserId uuid.UUID) (*entity.RefundRequest, error) {
	request, err := uow.RefundRequestRepository().FindOne(ctx, specification.ByID{ID: requestId})
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, &ledger.NotFoundError{Entity: "refund request", ID: requestId.String()}
	}
	if byUserId != request.RequestedBy {
		return nil, &ledger.ConflictError{Message: "only the requester may cancel a refund request"}
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	moved, err := uow.RefundRequestRepository().UpdateStatusIf(ctx, requestId,
		entity.RefundStatusPending, entity.RefundStatusCancelled, nil)
	if err != nil {
		return nil, err
	}
	if !moved {
		return nil, &ledger.InvalidStateError{
			Entity:  "refund request",
			ID:      requestId.String(),
			Status:  string(request.Status),
			Message: "only a pending request can be cancelled",
		}
	}
	if err := uow.BillingTransactionRepository().UpdateStatusByEvent(ctx,
		entity.ReferenceTypeRefund, requestId, entity.TransactionTypeRefund,
		entity.TransactionStatusCancelled); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	p.logger.Info("REFUND", "Refund request cancelled", map[string]interface{}{
		"requestId": requestId.String(),
	})
	p.publisher.PublishRefundCancelled(ctx, requestId, request.PaymentID, request.ClientID)

	return uow.RefundRequestRepository().FindOne(ctx, specification.ByID{ID: requestId})
}
