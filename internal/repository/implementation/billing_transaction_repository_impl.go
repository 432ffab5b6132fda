package implementation

import (
	"context"
	"encoding/json"

	"coachpay-be/internal/entity"
	"coachpay-be/internal/model"
	"coachpay-be/internal/repository/contract"
	"coachpay-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type billingTransactionRepositoryImpl struct {
	db *gorm.DB
}

func NewBillingTransactionRepository(db *gorm.DB) contract.BillingTransactionRepository {
	return &billingTransactionRepositoryImpl{db: db}
}

func (r *billingTransactionRepositoryImpl) CreateIfAbsent(ctx context.Context, tx *entity.BillingTransaction) (bool, error) {
	m := billingTransactionToModel(tx)

	// ON CONFLICT DO NOTHING against the causal-event unique index.
	// RowsAffected == 0 means the event was already mirrored.
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "reference_type"},
			{Name: "reference_id"},
			{Name: "transaction_type"},
		},
		DoNothing: true,
	}).Create(m)
	if res.Error != nil {
		return false, res.Error
	}

	tx.ID = m.ID
	return res.RowsAffected == 1, nil
}

func (r *billingTransactionRepositoryImpl) UpdateStatusByEvent(ctx context.Context, refType entity.ReferenceType, refID uuid.UUID, txType entity.TransactionType, status entity.TransactionStatus) error {
	return r.db.WithContext(ctx).Model(&model.BillingTransaction{}).
		Where("reference_type = ? AND reference_id = ? AND transaction_type = ?", string(refType), refID, string(txType)).
		Update("status", string(status)).Error
}

func (r *billingTransactionRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.BillingTransaction, error) {
	var m model.BillingTransaction
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

	return billingTransactionToEntity(&m), nil
}

func (r *billingTransactionRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.BillingTransaction, error) {
	var ms []*model.BillingTransaction
	query := r.db.WithContext(ctx)

	for _, spec := range specs {
		query = spec.Apply(query)
	}

	if err := query.Find(&ms).Error; err != nil {
		return nil, err
	}

	var txs []*entity.BillingTransaction
	for _, m := range ms {
		txs = append(txs, billingTransactionToEntity(m))
	}

	return txs, nil
}

func billingTransactionToModel(t *entity.BillingTransaction) *model.BillingTransaction {
	var metadata datatypes.JSON
	if t.Metadata != nil {
		raw, _ := json.Marshal(t.Metadata)
		metadata = raw
	}

	return &model.BillingTransaction{
		ID:              t.ID,
		UserID:          t.UserID,
		UserType:        t.UserType,
		TransactionType: string(t.TransactionType),
		AmountCents:     t.AmountCents,
		Status:          string(t.Status),
		ReferenceID:     t.ReferenceID,
		ReferenceType:   string(t.ReferenceType),
		Description:     t.Description,
		Metadata:        metadata,
	}
}

func billingTransactionToEntity(m *model.BillingTransaction) *entity.BillingTransaction {
	var metadata map[string]interface{}
	if len(m.Metadata) > 0 {
		_ = json.Unmarshal(m.Metadata, &metadata)
	}

	return &entity.BillingTransaction{
		ID:              m.ID,
		UserID:          m.UserID,
		UserType:        m.UserType,
		TransactionType: entity.TransactionType(m.TransactionType),
		AmountCents:     m.AmountCents,
		Status:          entity.TransactionStatus(m.Status),
		ReferenceID:     m.ReferenceID,
		ReferenceType:   entity.ReferenceType(m.ReferenceType),
		Description:     m.Description,
		Metadata:        metadata,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}
