package contract

import (
	"context"
	"time"

	"coachpay-be/internal/entity"
	"coachpay-be/internal/repository/specification"

	"github.com/google/uuid"
)

type PaymentRepository interface {
	Create(ctx context.Context, payment *entity.Payment) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Payment, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Payment, error)
	Update(ctx context.Context, payment *entity.Payment) error

	// UpdateStatusIf is the compare-and-set transition guard: the row
	// moves to `to` only if its current status is in `from`, and the
	// caller learns whether it won the race.
	UpdateStatusIf(ctx context.Context, id uuid.UUID, from []entity.PaymentStatus, to entity.PaymentStatus, paidAt *time.Time) (bool, error)

	// AssignPayout stamps payout_id on the given payments, touching
	// only rows not yet claimed by any payout. Returns rows affected so
	// the caller can verify the whole set was claimed.
	AssignPayout(ctx context.Context, ids []uuid.UUID, payoutID uuid.UUID) (int64, error)
}
