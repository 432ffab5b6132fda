package credit

import (
	"context"

	"coachpay-be/internal/entity"
	"coachpay-be/internal/pkg/logger"
	"coachpay-be/internal/repository/unitofwork"
	"coachpay-be/pkg/ledger"
	ledgerEvents "coachpay-be/pkg/ledger/events"

	"github.com/google/uuid"
)

// Applier maintains store-credit balances. Every change goes through
// Apply so the balance always equals the chained sum of the
// transaction log.
type Applier struct {
	logger    logger.ILogger
	publisher ledgerEvents.Publisher
}

func NewApplier(logger logger.ILogger, publisher ledgerEvents.Publisher) *Applier {
	return &Applier{
		logger:    logger,
		publisher: publisher,
	}
}

// Apply adds amountCents (negative for a debit) to the user's balance
// and appends the chained transaction row. Must be called inside an
// open unit-of-work transaction; the row lock taken here serializes
// concurrent applications for the same user.
func (a *Applier) Apply(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID, amountCents int64, referenceId *uuid.UUID, referenceType entity.ReferenceType, description string) (*entity.UserCredit, error) {
	credit, err := uow.CreditRepository().FindBalanceForUpdate(ctx, userId)
	if err != nil {
		return nil, err
	}

	newBalance := credit.BalanceCents + amountCents
	if newBalance < 0 {
		return nil, &ledger.InvalidAmountError{
			RequestedCents: -amountCents,
			AvailableCents: credit.BalanceCents,
			Message:        "insufficient store credit",
		}
	}

	tx := &entity.CreditTransaction{
		UserID:               userId,
		AmountCents:          amountCents,
		PreviousBalanceCents: credit.BalanceCents,
		NewBalanceCents:      newBalance,
		ReferenceID:          referenceId,
		ReferenceType:        referenceType,
		Description:          description,
	}
	if err := uow.CreditRepository().CreateTransaction(ctx, tx); err != nil {
		return nil, err
	}

	credit.BalanceCents = newBalance
	if err := uow.CreditRepository().UpdateBalance(ctx, credit); err != nil {
		return nil, err
	}

	a.logger.Info("CREDIT", "Store credit applied", map[string]interface{}{
		"userId":          userId.String(),
		"amountCents":     amountCents,
		"newBalanceCents": newBalance,
	})
	a.publisher.PublishCreditApplied(ctx, userId, amountCents, newBalance)

	return credit, nil
}
