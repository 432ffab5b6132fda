package service

import (
	"context"
	"time"

	"coachpay-be/internal/dto"
	"coachpay-be/internal/entity"
	"coachpay-be/internal/repository/specification"
	"coachpay-be/internal/repository/unitofwork"
	"coachpay-be/pkg/ledger"
	"coachpay-be/pkg/ledger/payout"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
)

type IPayoutService interface {
	GetPendingEarnings(ctx context.Context, coachId uuid.UUID) (*dto.EarningsResponse, error)
	CreatePayout(ctx context.Context, req *dto.CreatePayoutRequest) (*dto.PayoutResponse, error)
	ProcessPayout(ctx context.Context, payoutId uuid.UUID) (*dto.PayoutResponse, error)
	GetPayout(ctx context.Context, payoutId uuid.UUID) (*dto.PayoutResponse, error)
	GetCoachPayouts(ctx context.Context, coachId uuid.UUID) ([]*dto.PayoutResponse, error)
}

type payoutService struct {
	uowFactory    unitofwork.RepositoryFactory
	processor     *payout.Processor
	defaultMethod entity.PayoutMethod

	// Dashboard cache only. The authoritative earnings read happens
	// locked inside the processor's Create; serving a slightly stale
	// total on the coach dashboard is fine.
	earningsCache *gocache.Cache
}

func NewPayoutService(uowFactory unitofwork.RepositoryFactory, processor *payout.Processor, defaultMethod string, earningsTTL time.Duration) IPayoutService {
	return &payoutService{
		uowFactory:    uowFactory,
		processor:     processor,
		defaultMethod: entity.PayoutMethod(defaultMethod),
		earningsCache: gocache.New(earningsTTL, 2*earningsTTL),
	}
}

func (s *payoutService) GetPendingEarnings(ctx context.Context, coachId uuid.UUID) (*dto.EarningsResponse, error) {
	if cached, found := s.earningsCache.Get(coachId.String()); found {
		return cached.(*dto.EarningsResponse), nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	earnings, err := s.processor.PendingEarnings(ctx, uow, coachId)
	if err != nil {
		return nil, err
	}

	res := &dto.EarningsResponse{
		CoachId:    coachId,
		TotalCents: earnings.TotalCents,
		Payments:   make([]*dto.PaymentResponse, 0, len(earnings.Payments)),
	}
	for _, p := range earnings.Payments {
		res.Payments = append(res.Payments, paymentToResponse(p))
	}

	s.earningsCache.SetDefault(coachId.String(), res)
	return res, nil
}

func (s *payoutService) CreatePayout(ctx context.Context, req *dto.CreatePayoutRequest) (*dto.PayoutResponse, error) {
	method := entity.PayoutMethod(req.Method)
	if method == "" {
		method = s.defaultMethod
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	p, err := s.processor.Create(ctx, uow, req.CoachId, method, req.Notes)
	if err != nil {
		return nil, err
	}

	// The coach's claimable earnings just changed.
	s.earningsCache.Delete(req.CoachId.String())

	return payoutToResponse(p), nil
}

func (s *payoutService) ProcessPayout(ctx context.Context, payoutId uuid.UUID) (*dto.PayoutResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	p, err := s.processor.Process(ctx, uow, payoutId)
	if err != nil {
		return nil, err
	}
	return payoutToResponse(p), nil
}

func (s *payoutService) GetPayout(ctx context.Context, payoutId uuid.UUID) (*dto.PayoutResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	p, err := uow.PayoutRepository().FindOne(ctx, specification.ByID{ID: payoutId})
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, &ledger.NotFoundError{Entity: "payout", ID: payoutId.String()}
	}
	return payoutToResponse(p), nil
}

func (s *payoutService) GetCoachPayouts(ctx context.Context, coachId uuid.UUID) ([]*dto.PayoutResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	payouts, err := uow.PayoutRepository().FindAll(ctx,
		specification.OwnedBy{Field: "coach_id", UserID: coachId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.PayoutResponse, 0, len(payouts))
	for _, p := range payouts {
		res = append(res, payoutToResponse(p))
	}
	return res, nil
}

func payoutToResponse(p *entity.Payout) *dto.PayoutResponse {
	return &dto.PayoutResponse{
		Id:                p.ID,
		CoachId:           p.CoachID,
		AmountCents:       p.AmountCents,
		FeesCents:         p.FeesCents,
		NetAmountCents:    p.NetAmountCents,
		Status:            string(p.Status),
		PayoutMethod:      string(p.PayoutMethod),
		GatewayTransferId: p.GatewayTransferID,
		FailureReason:     p.FailureReason,
		PaymentCount:      p.PaymentCount,
		CreatedAt:         p.CreatedAt,
		ProcessedAt:       p.ProcessedAt,
	}
}
