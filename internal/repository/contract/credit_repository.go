package contract

import (
	"context"

	"coachpay-be/internal/entity"
	"coachpay-be/internal/repository/specification"

	"github.com/google/uuid"
)

type CreditRepository interface {
	// FindBalanceForUpdate loads (or initializes) the user's credit row
	// under a row lock so concurrent credit applications serialize.
	FindBalanceForUpdate(ctx context.Context, userID uuid.UUID) (*entity.UserCredit, error)
	FindBalance(ctx context.Context, userID uuid.UUID) (*entity.UserCredit, error)
	FindAllBalances(ctx context.Context, specs ...specification.Specification) ([]*entity.UserCredit, error)
	UpdateBalance(ctx context.Context, credit *entity.UserCredit) error

	CreateTransaction(ctx context.Context, tx *entity.CreditTransaction) error
	FindTransactions(ctx context.Context, specs ...specification.Specification) ([]*entity.CreditTransaction, error)
}
