package implementation

import (
	"context"
	"time"

	"coachpay-be/internal/entity"
	"coachpay-be/internal/model"
	"coachpay-be/internal/repository/contract"
	"coachpay-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type paymentRepositoryImpl struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) contract.PaymentRepository {
	return &paymentRepositoryImpl{db: db}
}

func (r *paymentRepositoryImpl) Create(ctx context.Context, payment *entity.Payment) error {
	return r.db.WithContext(ctx).Create(paymentToModel(payment)).Error
}

func (r *paymentRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Payment, error) {
	var m model.Payment
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

	return paymentToEntity(&m), nil
}

func (r *paymentRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Payment, error) {
	var ms []*model.Payment
	query := r.db.WithContext(ctx)

	for _, spec := range specs {
		query = spec.Apply(query)
	}

	if err := query.Find(&ms).Error; err != nil {
		return nil, err
	}

	var payments []*entity.Payment
	for _, m := range ms {
		payments = append(payments, paymentToEntity(m))
	}

	return payments, nil
}

func (r *paymentRepositoryImpl) Update(ctx context.Context, payment *entity.Payment) error {
	return r.db.WithContext(ctx).Model(&model.Payment{}).
		Where("id = ?", payment.ID).
		Updates(map[string]interface{}{
			"status":      string(payment.Status),
			"payout_id":   payment.PayoutID,
			"paid_at":     payment.PaidAt,
			"description": payment.Description,
		}).Error
}

func (r *paymentRepositoryImpl) UpdateStatusIf(ctx context.Context, id uuid.UUID, from []entity.PaymentStatus, to entity.PaymentStatus, paidAt *time.Time) (bool, error) {
	fromStrs := make([]string, 0, len(from))
	for _, s := range from {
		fromStrs = append(fromStrs, string(s))
	}

	updates := map[string]interface{}{"status": string(to)}
	if paidAt != nil {
		updates["paid_at"] = paidAt
	}

	res := r.db.WithContext(ctx).Model(&model.Payment{}).
		Where("id = ? AND status IN ?", id, fromStrs).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *paymentRepositoryImpl) AssignPayout(ctx context.Context, ids []uuid.UUID, payoutID uuid.UUID) (int64, error) {
	// payout_id IS NULL keeps the assignment write-once: a payment
	// claimed by another payout is simply not matched, and the caller
	// detects the shortfall via the affected-row count.
	res := r.db.WithContext(ctx).Model(&model.Payment{}).
		Where("id IN ? AND payout_id IS NULL", ids).
		Update("payout_id", payoutID)
	return res.RowsAffected, res.Error
}

func paymentToModel(p *entity.Payment) *model.Payment {
	return &model.Payment{
		ID:                 p.ID,
		ClientID:           p.ClientID,
		CoachID:            p.CoachID,
		SessionID:          p.SessionID,
		AmountCents:        p.AmountCents,
		CoachEarningsCents: p.CoachEarningsCents,
		Status:             string(p.Status),
		ExternalPaymentID:  p.ExternalPaymentID,
		PayoutID:           p.PayoutID,
		Description:        p.Description,
		PaidAt:             p.PaidAt,
	}
}

func paymentToEntity(m *model.Payment) *entity.Payment {
	return &entity.Payment{
		ID:                 m.ID,
		ClientID:           m.ClientID,
		CoachID:            m.CoachID,
		SessionID:          m.SessionID,
		AmountCents:        m.AmountCents,
		CoachEarningsCents: m.CoachEarningsCents,
		Status:             entity.PaymentStatus(m.Status),
		ExternalPaymentID:  m.ExternalPaymentID,
		PayoutID:           m.PayoutID,
		Description:        m.Description,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
		PaidAt:             m.PaidAt,
	}
}
