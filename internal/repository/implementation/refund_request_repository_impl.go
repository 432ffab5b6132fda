package implementation

import (
	"context"

	"coachpay-be/internal/entity"
	"coachpay-be/internal/model"
	"coachpay-be/internal/repository/contract"
	"coachpay-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type refundRequestRepositoryImpl struct {
	db *gorm.DB
}

func NewRefundRequestRepository(db *gorm.DB) contract.RefundRequestRepository {
	return &refundRequestRepositoryImpl{db: db}
}

func (r *refundRequestRepositoryImpl) Create(ctx context.Context, request *entity.RefundRequest) error {
	m := refundRequestToModel(request)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	request.ID = m.ID
	request.CreatedAt = m.CreatedAt
	return nil
}

func (r *refundRequestRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.RefundRequest, error) {
	var m model.RefundRequest
	query := r.db.WithContext(ctx)

	for _, spec := range specs {
		query = spec.Apply(query)
	}

	if err := query.First(&m).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}

	return refundRequestToEntity(&m), nil
}

func (r *refundRequestRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.RefundRequest, error) {
	return r.findAll(ctx, false, specs...)
}

func (r *refundRequestRepositoryImpl) FindAllWithPayment(ctx context.Context, specs ...specification.Specification) ([]*entity.RefundRequest, error) {
	return r.findAll(ctx, true, specs...)
}

func (r *refundRequestRepositoryImpl) findAll(ctx context.Context, withPayment bool, specs ...specification.Specification) ([]*entity.RefundRequest, error) {
	var ms []*model.RefundRequest
	query := r.db.WithContext(ctx)
	if withPayment {
		query = query.Preload("Payment")
	}

	for _, spec := range specs {
		query = spec.Apply(query)
	}

	if err := query.Find(&ms).Error; err != nil {
		return nil, err
	}

	var requests []*entity.RefundRequest
	for _, m := range ms {
		e := refundRequestToEntity(m)
		if withPayment {
			e.Payment = *paymentToEntity(&m.Payment)
		}
		requests = append(requests, e)
	}

	return requests, nil
}

func (r *refundRequestRepositoryImpl) Update(ctx context.Context, request *entity.RefundRequest) error {
	return r.db.WithContext(ctx).Model(&model.RefundRequest{}).
		Where("id = ?", request.ID).
		Updates(map[string]interface{}{
			"status":            string(request.Status),
			"reviewed_by":       request.ReviewedBy,
			"reviewed_at":       request.ReviewedAt,
			"rejection_reason":  request.RejectionReason,
			"gateway_refund_id": request.GatewayRefundID,
			"failure_reason":    request.FailureReason,
		}).Error
}

func (r *refundRequestRepositoryImpl) UpdateStatusIf(ctx context.Context, id uuid.UUID, from, to entity.RefundStatus, fields map[string]interface{}) (bool, error) {
	updates := map[string]interface{}{"status": string(to)}
	for k, v := range fields {
		updates[k] = v
	}

	res := r.db.WithContext(ctx).Model(&model.RefundRequest{}).
		Where("id = ? AND status = ?", id, string(from)).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *refundRequestRepositoryImpl) SumCompletedByPayment(ctx context.Context, paymentID uuid.UUID) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.RefundRequest{}).
		Select("COALESCE(SUM(amount_cents), 0)").
		Where("payment_id = ? AND status = ?", paymentID, string(entity.RefundStatusCompleted)).
		Scan(&total).Error
	return total, err
}

func refundRequestToModel(r *entity.RefundRequest) *model.RefundRequest {
	return &model.RefundRequest{
		ID:                 r.ID,
		PaymentID:          r.PaymentID,
		ClientID:           r.ClientID,
		CoachID:            r.CoachID,
		AmountCents:        r.AmountCents,
		Reason:             r.Reason,
		Status:             string(r.Status),
		RefundMethod:       string(r.RefundMethod),
		RequestedBy:        r.RequestedBy,
		RequestedByType:    string(r.RequestedByType),
		ReviewedBy:         r.ReviewedBy,
		ReviewedAt:         r.ReviewedAt,
		RejectionReason:    r.RejectionReason,
		ProcessingFeeCents: r.ProcessingFeeCents,
		CoachPenaltyCents:  r.CoachPenaltyCents,
		GatewayRefundID:    r.GatewayRefundID,
		FailureReason:      r.FailureReason,
	}
}

func refundRequestToEntity(m *model.RefundRequest) *entity.RefundRequest {
	return &entity.RefundRequest{
		ID:                 m.ID,
		PaymentID:          m.PaymentID,
		ClientID:           m.ClientID,
		CoachID:            m.CoachID,
		AmountCents:        m.AmountCents,
		Reason:             m.Reason,
		Status:             entity.RefundStatus(m.Status),
		RefundMethod:       entity.RefundMethod(m.RefundMethod),
		RequestedBy:        m.RequestedBy,
		RequestedByType:    entity.RequesterType(m.RequestedByType),
		ReviewedBy:         m.ReviewedBy,
		ReviewedAt:         m.ReviewedAt,
		RejectionReason:    m.RejectionReason,
		ProcessingFeeCents: m.ProcessingFeeCents,
		CoachPenaltyCents:  m.CoachPenaltyCents,
		GatewayRefundID:    m.GatewayRefundID,
		FailureReason:      m.FailureReason,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
}
