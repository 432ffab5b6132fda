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

type payoutRepositoryImpl struct {
	db *gorm.DB
}

func NewPayoutRepository(db *gorm.DB) contract.PayoutRepository {
	return &payoutRepositoryImpl{db: db}
}

func (r *payoutRepositoryImpl) Create(ctx context.Context, payout *entity.Payout) error {
	m := payoutToModel(payout)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	payout.ID = m.ID
	payout.CreatedAt = m.CreatedAt
	return nil
}

func (r *payoutRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Payout, error) {
	var m model.Payout
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

	return payoutToEntity(&m), nil
}

func (r *payoutRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Payout, error) {
	var ms []*model.Payout
	query := r.db.WithContext(ctx)

	for _, spec := range specs {
		query = spec.Apply(query)
	}

	if err := query.Find(&ms).Error; err != nil {
		return nil, err
	}

	var payouts []*entity.Payout
	for _, m := range ms {
		payouts = append(payouts, payoutToEntity(m))
	}

	return payouts, nil
}

func (r *payoutRepositoryImpl) Update(ctx context.Context, payout *entity.Payout) error {
	return r.db.WithContext(ctx).Model(&model.Payout{}).
		Where("id = ?", payout.ID).
		Updates(map[string]interface{}{
			"status":              string(payout.Status),
			"gateway_transfer_id": payout.GatewayTransferID,
			"failure_reason":      payout.FailureReason,
			"processed_at":        payout.ProcessedAt,
			"notes":               payout.Notes,
		}).Error
}

func (r *payoutRepositoryImpl) UpdateStatusIf(ctx context.Context, id uuid.UUID, from []entity.PayoutStatus, to entity.PayoutStatus, processedAt *time.Time) (bool, error) {
	fromStrs := make([]string, 0, len(from))
	for _, s := range from {
		fromStrs = append(fromStrs, string(s))
	}

	updates := map[string]interface{}{"status": string(to)}
	if processedAt != nil {
		updates["processed_at"] = processedAt
	}

	res := r.db.WithContext(ctx).Model(&model.Payout{}).
		Where("id = ? AND status IN ?", id, fromStrs).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func payoutToModel(p *entity.Payout) *model.Payout {
	return &model.Payout{
		ID:                p.ID,
		CoachID:           p.CoachID,
		AmountCents:       p.AmountCents,
		FeesCents:         p.FeesCents,
		NetAmountCents:    p.NetAmountCents,
		Status:            string(p.Status),
		PayoutMethod:      string(p.PayoutMethod),
		GatewayTransferID: p.GatewayTransferID,
		FailureReason:     p.FailureReason,
		PaymentCount:      p.PaymentCount,
		Notes:             p.Notes,
		ProcessedAt:       p.ProcessedAt,
	}
}

func payoutToEntity(m *model.Payout) *entity.Payout {
	return &entity.Payout{
		ID:                m.ID,
		CoachID:           m.CoachID,
		AmountCents:       m.AmountCents,
		FeesCents:         m.FeesCents,
		NetAmountCents:    m.NetAmountCents,
		Status:            entity.PayoutStatus(m.Status),
		PayoutMethod:      entity.PayoutMethod(m.PayoutMethod),
		GatewayTransferID: m.GatewayTransferID,
		FailureReason:     m.FailureReason,
		PaymentCount:      m.PaymentCount,
		Notes:             m.Notes,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
		ProcessedAt:       m.ProcessedAt,
	}
}
