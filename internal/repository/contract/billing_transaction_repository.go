package contract

import (
	"context"

	"coachpay-be/internal/entity"
	"coachpay-be/internal/repository/specification"

	"github.com/google/uuid"
)

type BillingTransactionRepository interface {
	// CreateIfAbsent appends the ledger entry unless one already exists
	// for the same causal event (reference type + id + transaction
	// type). Returns whether a row was written, so retried operations
	// never double-append.
	CreateIfAbsent(ctx context.Context, tx *entity.BillingTransaction) (bool, error)

	// UpdateStatusByEvent progresses the status of the single entry
	// mirroring a causal event.
	UpdateStatusByEvent(ctx context.Context, refType entity.ReferenceType, refID uuid.UUID, txType entity.TransactionType, status entity.TransactionStatus) error

	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.BillingTransaction, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.BillingTransaction, error)
}
