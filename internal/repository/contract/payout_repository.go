package contract

import (
	"context"
	"time"

	"coachpay-be/internal/entity"
	"coachpay-be/internal/repository/specification"

	"github.com/google/uuid"
)

type PayoutRepository interface {
	Create(ctx context.Context, payout *entity.Payout) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Payout, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Payout, error)
	Update(ctx context.Context, payout *entity.Payout) error

	// UpdateStatusIf is the compare-and-set guard for payout
	// processing; only one caller may move pending -> processing.
	UpdateStatusIf(ctx context.Context, id uuid.UUID, from []entity.PayoutStatus, to entity.PayoutStatus, processedAt *time.Time) (bool, error)
}
