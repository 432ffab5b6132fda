package unitofwork

import (
	"context"

	"coachpay-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	PaymentRepository() contract.PaymentRepository
	RefundRequestRepository() contract.RefundRequestRepository
	BillingTransactionRepository() contract.BillingTransactionRepository
	CreditRepository() contract.CreditRepository
	PayoutRepository() contract.PayoutRepository
}
