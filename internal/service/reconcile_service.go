package service

import (
	"context"

	"coachpay-be/internal/repository/unitofwork"
	"coachpay-be/pkg/ledger/reconcile"
)

type IReconcileService interface {
	RunIntegrityCheck(ctx context.Context) (*reconcile.Report, error)
}

type reconcileService struct {
	uowFactory unitofwork.RepositoryFactory
	checker    *reconcile.Checker
}

func NewReconcileService(uowFactory unitofwork.RepositoryFactory, checker *reconcile.Checker) IReconcileService {
	return &reconcileService{
		uowFactory: uowFactory,
		checker:    checker,
	}
}

func (s *reconcileService) RunIntegrityCheck(ctx context.Context) (*reconcile.Report, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return s.checker.Run(ctx, uow)
}
