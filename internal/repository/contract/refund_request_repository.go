package contract

import (
	"context"

	"coachpay-be/internal/entity"
	"coachpay-be/internal/repository/specification"

	"github.com/google/uuid"
)

type RefundRequestRepository interface {
	Create(ctx context.Context, request *entity.RefundRequest) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.RefundRequest, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.RefundRequest, error)
	FindAllWithPayment(ctx context.Context, specs ...specification.Specification) ([]*entity.RefundRequest, error)
	Update(ctx context.Context, request *entity.RefundRequest) error

	// UpdateStatusIf performs the atomic status-check-then-transition.
	// The losing caller of a concurrent review sees false and must not
	// touch the gateway.
	UpdateStatusIf(ctx context.Context, id uuid.UUID, from, to entity.RefundStatus, fields map[string]interface{}) (bool, error)

	// SumCompletedByPayment returns the total already refunded against
	// a payment; the remaining refundable balance is derived from it.
	SumCompletedByPayment(ctx context.Context, paymentID uuid.UUID) (int64, error)
}
