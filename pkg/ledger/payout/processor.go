package payout

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

// FeePolicy computes the platform's cut of a payout. Basis points plus
// a flat per-transfer fee, both from config.
type FeePolicy struct {
	FlatCents  int64
	PercentBps int64
}

// Fees returns the fee for a gross payout amount.
func (f FeePolicy) Fees(grossCents int64) int64 {
	return f.FlatCents + grossCents*f.PercentBps/10000
}

// EarningsResult is the payable total and the exact contributing set.
type EarningsResult struct {
	TotalCents int64
	Payments   []*entity.Payment
}

// Processor aggregates a coach's settled earnings into immutable
// payout records and drives the transfer.
type Processor struct {
	gateway   gateway.Gateway
	fees      FeePolicy
	logger    logger.ILogger
	publisher ledgerEvents.Publisher
}

// NewProcessor creates a new payout processor
func NewProcessor(gw gateway.Gateway, fees FeePolicy, logger logger.ILogger, publisher ledgerEvents.Publisher) *Processor {
	return &Processor{
		gateway:   gw,
		fees:      fees,
		logger:    logger,
		publisher: publisher,
	}
}

// PendingEarnings computes the coach's payable total and the payments
// backing it. Outside a transaction this is advisory (dashboards); the
// authoritative read happens locked inside Create.
func (p *Processor) PendingEarnings(ctx context.Context, uow unitofwork.UnitOfWork, coachId uuid.UUID) (*EarningsResult, error) {
	return p.pendingEarnings(ctx, uow, coachId, false)
}

func (p *Processor) pendingEarnings(ctx context.Context, uow unitofwork.UnitOfWork, coachId uuid.UUID, lock bool) (*EarningsResult, error) {
	specs := []specification.Specification{
		specification.PayoutEligible{CoachID: coachId},
		specification.OrderBy{Field: "created_at", Desc: false},
	}
	if lock {
		specs = append(specs, specification.LockForUpdate{})
	}

	payments, err := uow.PaymentRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}

	var total int64
	for _, payment := range payments {
		total += payment.CoachEarningsCents
	}

	return &EarningsResult{TotalCents: total, Payments: payments}, nil
}

// Create converts the coach's pending earnings into one payout.
//
// The eligible payments are re-read under row locks inside the
// transaction, so two concurrent calls for the same coach serialize:
// the loser sees an empty set and gets NothingToPayError. The payout
// insert and the payout_id stamps commit or fail as one unit, and a
// stamp is write-once; a shortfall in stamped rows aborts the whole
// payout.
func (p *Processor) Create(ctx context.Context, uow unitofwork.UnitOfWork, coachId uuid.UUID, method entity.PayoutMethod, notes string) (*entity.Payout, error) {
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	earnings, err := p.pendingEarnings(ctx, uow, coachId, true)
	if err != nil {
		return nil, err
	}
	if len(earnings.Payments) == 0 {
		return nil, &ledger.NothingToPayError{CoachID: coachId.String()}
	}

	fees := p.fees.Fees(earnings.TotalCents)
	payout := &entity.Payout{
		CoachID:        coachId,
		AmountCents:    earnings.TotalCents,
		FeesCents:      fees,
		NetAmountCents: earnings.TotalCents - fees,
		Status:         entity.PayoutStatusPending,
		PayoutMethod:   method,
		PaymentCount:   len(earnings.Payments),
		Notes:          notes,
	}
	if err := uow.PayoutRepository().Create(ctx, payout); err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(earnings.Payments))
	for _, payment := range earnings.Payments {
		ids = append(ids, payment.ID)
	}
	stamped, err := uow.PaymentRepository().AssignPayout(ctx, ids, payout.ID)
	if err != nil {
		return nil, err
	}
	if stamped != int64(len(ids)) {
		// A payment in the locked set already carries a payout_id.
		// Should not happen under the row locks; abort rather than
		// create a payout whose sum no longer matches its members.
		return nil, &ledger.ConflictError{Message: "pending earnings changed during payout creation, retry"}
	}

	if _, err := uow.BillingTransactionRepository().CreateIfAbsent(ctx, &entity.BillingTransaction{
		UserID:          coachId,
		UserType:        "coach",
		TransactionType: entity.TransactionTypePayout,
		AmountCents:     payout.NetAmountCents,
		Status:          entity.TransactionStatusPending,
		ReferenceID:     payout.ID,
		ReferenceType:   entity.ReferenceTypePayout,
		Description:     "Coach earnings payout",
	}); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	p.logger.Info("PAYOUT", "Payout created", map[string]interface{}{
		"payoutId":     payout.ID.String(),
		"coachId":      coachId.String(),
		"amountCents":  payout.AmountCents,
		"feesCents":    fees,
		"paymentCount": payout.PaymentCount,
	})
	p.publisher.PublishPayoutCreated(ctx, payout.ID, coachId, payout.AmountCents, payout.NetAmountCents, payout.PaymentCount)

	return payout, nil
}

// Process executes the transfer for a pending (or previously failed)
// payout. The pending->processing transition is a compare-and-set, so
// only one caller reaches the gateway at a time; a failed transfer
// moves back to failed and stays retriable. The payout_id stamps on
// member payments are never unwound; the earnings are claimed once
// aggregated.
func (p *Processor) Process(ctx context.Context, uow unitofwork.UnitOfWork, payoutId uuid.UUID) (*entity.Payout, error) {
	payout, err := uow.PayoutRepository().FindOne(ctx, specification.ByID{ID: payoutId})
	if err != nil {
		return nil, err
	}
	if payout == nil {
		return nil, &ledger.NotFoundError{Entity: "payout", ID: payoutId.String()}
	}

	coach, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: payout.CoachID})
	if err != nil {
		return nil, err
	}
	if coach == nil {
		return nil, &ledger.NotFoundError{Entity: "coach", ID: payout.CoachID.String()}
	}

	moved, err := uow.PayoutRepository().UpdateStatusIf(ctx, payoutId,
		[]entity.PayoutStatus{entity.PayoutStatusPending, entity.PayoutStatusFailed},
		entity.PayoutStatusProcessing, nil)
	if err != nil {
		return nil, err
	}
	if !moved {
		return nil, &ledger.InvalidStateError{
			Entity: "payout",
			ID:     payoutId.String(),
			Status: string(payout.Status),
		}
	}

	result, gwErr := p.gateway.Transfer(ctx, coach.PayoutAccount, coach.PayoutBankCode,
		payout.NetAmountCents, ledger.PayoutKey(payout.ID))

	if gwErr != nil {
		reason := gwErr.Error()
		var ge *gateway.GatewayError
		if errors.As(gwErr, &ge) {
			reason = ge.Message
		}
		// Both a decline and an unknown outcome land in failed with the
		// reason recorded; failed is retriable and the idempotency key
		// is stable, so a retry after a timeout cannot pay twice.
		return nil, p.markFailed(ctx, uow, payout, reason, gwErr)
	}
	if result.Status != gateway.StatusSucceeded {
		ge := &gateway.GatewayError{Reason: gateway.ReasonDeclined, Message: "transfer declined"}
		return nil, p.markFailed(ctx, uow, payout, ge.Message, ge)
	}

	now := time.Now()
	payout.GatewayTransferID = result.GatewayTransferID
	payout.FailureReason = ""
	payout.Status = entity.PayoutStatusCompleted
	payout.ProcessedAt = &now

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()
	if err := uow.PayoutRepository().Update(ctx, payout); err != nil {
		return nil, err
	}
	if err := uow.BillingTransactionRepository().UpdateStatusByEvent(ctx,
		entity.ReferenceTypePayout, payout.ID, entity.TransactionTypePayout,
		entity.TransactionStatusCompleted); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	p.logger.Info("PAYOUT", "Payout processed", map[string]interface{}{
		"payoutId":          payout.ID.String(),
		"coachId":           payout.CoachID.String(),
		"netAmountCents":    payout.NetAmountCents,
		"gatewayTransferId": result.GatewayTransferID,
	})
	p.publisher.PublishPayoutProcessed(ctx, payout.ID, payout.CoachID, payout.NetAmountCents, result.GatewayTransferID)

	return payout, nil
}

func (p *Processor) markFailed(ctx context.Context, uow unitofwork.UnitOfWork, payout *entity.Payout, reason string, cause error) error {
	payout.Status = entity.PayoutStatusFailed
	payout.FailureReason = reason
	if err := uow.PayoutRepository().Update(ctx, payout); err != nil {
		return err
	}

	p.logger.Error("PAYOUT", "Payout transfer failed", map[string]interface{}{
		"payoutId": payout.ID.String(),
		"reason":   reason,
	})
	p.publisher.PublishPayoutFailed(ctx, payout.ID, payout.CoachID, reason)

	return cause
}
