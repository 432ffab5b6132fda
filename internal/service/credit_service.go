package service

import (
	"context"

	"coachpay-be/internal/dto"
	"coachpay-be/internal/repository/specification"
	"coachpay-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type ICreditService interface {
	GetBalance(ctx context.Context, userId uuid.UUID) (*dto.CreditBalanceResponse, error)
	GetTransactions(ctx context.Context, userId uuid.UUID) ([]*dto.CreditTransactionResponse, error)
}

type creditService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewCreditService(uowFactory unitofwork.RepositoryFactory) ICreditService {
	return &creditService{uowFactory: uowFactory}
}

func (s *creditService) GetBalance(ctx context.Context, userId uuid.UUID) (*dto.CreditBalanceResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	credit, err := uow.CreditRepository().FindBalance(ctx, userId)
	if err != nil {
		return nil, err
	}

	res := &dto.CreditBalanceResponse{UserId: userId}
	if credit != nil {
		res.BalanceCents = credit.BalanceCents
	}
	return res, nil
}

func (s *creditService) GetTransactions(ctx context.Context, userId uuid.UUID) ([]*dto.CreditTransactionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	txs, err := uow.CreditRepository().FindTransactions(ctx,
		specification.OwnedBy{Field: "user_id", UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.CreditTransactionResponse, 0, len(txs))
	for _, tx := range txs {
		res = append(res, &dto.CreditTransactionResponse{
			Id:                   tx.ID,
			AmountCents:          tx.AmountCents,
			PreviousBalanceCents: tx.PreviousBalanceCents,
			NewBalanceCents:      tx.NewBalanceCents,
			ReferenceId:          tx.ReferenceID,
			ReferenceType:        string(tx.ReferenceType),
			Description:          tx.Description,
			CreatedAt:            tx.CreatedAt,
		})
	}
	return res, nil
}
