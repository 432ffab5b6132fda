package service

import (
	"context"

	"coachpay-be/internal/dto"
	"coachpay-be/internal/entity"
	"coachpay-be/internal/repository/specification"
	"coachpay-be/internal/repository/unitofwork"
	"coachpay-be/pkg/ledger"
	"coachpay-be/pkg/ledger/refund"

	"github.com/google/uuid"
)

type IRefundService interface {
	CreateRefundRequest(ctx context.Context, requesterId uuid.UUID, requesterRole string, req *dto.CreateRefundRequest) (*dto.RefundResponse, error)
	ReviewRefundRequest(ctx context.Context, requestId, reviewerId uuid.UUID, req *dto.ReviewRefundRequest) (*dto.RefundResponse, error)
	CancelRefundRequest(ctx context.Context, requestId, userId uuid.UUID) (*dto.RefundResponse, error)
	RetryRefund(ctx context.Context, requestId uuid.UUID) (*dto.RefundResponse, error)
	GetRefundRequest(ctx context.Context, requestId uuid.UUID) (*dto.RefundResponse, error)
	GetMyRefundRequests(ctx context.Context, userId uuid.UUID) ([]*dto.RefundResponse, error)
	GetAllRefundRequests(ctx context.Context, page, limit int, status string) ([]*dto.AdminRefundListResponse, error)
}

type refundService struct {
	uowFactory unitofwork.RepositoryFactory
	processor  *refund.Processor
}

func NewRefundService(uowFactory unitofwork.RepositoryFactory, processor *refund.Processor) IRefundService {
	return &refundService{
		uowFactory: uowFactory,
		processor:  processor,
	}
}

func (s *refundService) CreateRefundRequest(ctx context.Context, requesterId uuid.UUID, requesterRole string, req *dto.CreateRefundRequest) (*dto.RefundResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	request, err := s.processor.Create(ctx, uow, refund.CreateParams{
		PaymentID:       req.PaymentId,
		AmountCents:     req.AmountCents,
		Reason:          req.Reason,
		Method:          entity.RefundMethod(req.RefundMethod),
		RequestedBy:     requesterId,
		RequestedByType: entity.RequesterType(requesterRole),
	})
	if err != nil {
		return nil, err
	}
	return refundToResponse(request), nil
}

func (s *refundService) ReviewRefundRequest(ctx context.Context, requestId, reviewerId uuid.UUID, req *dto.ReviewRefundRequest) (*dto.RefundResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	request, err := s.processor.Review(ctx, uow, requestId, refund.ReviewAction(req.Action), reviewerId, req.RejectionReason)
	if err != nil {
		return nil, err
	}
	return refundToResponse(request), nil
}

func (s *refundService) CancelRefundRequest(ctx context.Context, requestId, userId uuid.UUID) (*dto.RefundResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	request, err := s.processor.Cancel(ctx, uow, requestId, userId)
	if err != nil {
		return nil, err
	}
	return refundToResponse(request), nil
}

// RetryRefund re-runs the money movement for an approved request whose
// earlier gateway attempt failed. Same idempotency key, so the gateway
// refunds at most once no matter how often this is called.
func (s *refundService) RetryRefund(ctx context.Context, requestId uuid.UUID) (*dto.RefundResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	request, err := s.processor.Execute(ctx, uow, requestId)
	if err != nil {
		return nil, err
	}
	return refundToResponse(request), nil
}

func (s *refundService) GetRefundRequest(ctx context.Context, requestId uuid.UUID) (*dto.RefundResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	request, err := uow.RefundRequestRepository().FindOne(ctx, specification.ByID{ID: requestId})
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, &ledger.NotFoundError{Entity: "refund request", ID: requestId.String()}
	}
	return refundToResponse(request), nil
}

func (s *refundService) GetMyRefundRequests(ctx context.Context, userId uuid.UUID) ([]*dto.RefundResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	requests, err := uow.RefundRequestRepository().FindAll(ctx,
		specification.OwnedBy{Field: "requested_by", UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.RefundResponse, 0, len(requests))
	for _, request := range requests {
		res = append(res, refundToResponse(request))
	}
	return res, nil
}

func (s *refundService) GetAllRefundRequests(ctx context.Context, page, limit int, status string) ([]*dto.AdminRefundListResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	requests, err := s.processor.GetAll(ctx, uow, page, limit, status)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.AdminRefundListResponse, 0, len(requests))
	for _, request := range requests {
		item := &dto.AdminRefundListResponse{
			Id:          request.ID,
			AmountCents: request.AmountCents,
			Reason:      request.Reason,
			Status:      string(request.Status),
			RequestedBy: request.RequestedBy,
			CreatedAt:   request.CreatedAt,
			ReviewedAt:  request.ReviewedAt,
		}
		if request.Payment.ID != uuid.Nil {
			item.Payment = paymentToResponse(&request.Payment)
		}
		res = append(res, item)
	}
	return res, nil
}

func refundToResponse(r *entity.RefundRequest) *dto.RefundResponse {
	return &dto.RefundResponse{
		Id:              r.ID,
		PaymentId:       r.PaymentID,
		AmountCents:     r.AmountCents,
		Reason:          r.Reason,
		Status:          string(r.Status),
		RefundMethod:    string(r.RefundMethod),
		RejectionReason: r.RejectionReason,
		FailureReason:   r.FailureReason,
		ReviewedAt:      r.ReviewedAt,
		CreatedAt:       r.CreatedAt,
	}
}
