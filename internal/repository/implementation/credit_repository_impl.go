package implementation

import (
	"context"

	"coachpay-be/internal/entity"
	"coachpay-be/internal/model"
	"coachpay-be/internal/repository/contract"
	"coachpay-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type creditRepositoryImpl struct {
	db *gorm.DB
}

func NewCreditRepository(db *gorm.DB) contract.CreditRepository {
	return &creditRepositoryImpl{db: db}
}

func (r *creditRepositoryImpl) FindBalanceForUpdate(ctx context.Context, userID uuid.UUID) (*entity.UserCredit, error) {
	var m model.UserCredit
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		First(&m).Error
	if err == gorm.ErrRecordNotFound {
		// First credit for this user. Insert the zero row, then lock it.
		m = model.UserCredit{UserID: userID, BalanceCents: 0}
		if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoNothing: true,
		}).Create(&m).Error; err != nil {
			return nil, err
		}
		err = r.db.WithContext(ctx).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ?", userID).
			First(&m).Error
	}
	if err != nil {
		return nil, err
	}

	return userCreditToEntity(&m), nil
}

func (r *creditRepositoryImpl) FindBalance(ctx context.Context, userID uuid.UUID) (*entity.UserCredit, error) {
	var m model.UserCredit
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&m).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}

	return userCreditToEntity(&m), nil
}

func (r *creditRepositoryImpl) FindAllBalances(ctx context.Context, specs ...specification.Specification) ([]*entity.UserCredit, error) {
	var ms []*model.UserCredit
	query := r.db.WithContext(ctx)

	for _, spec := range specs {
		query = spec.Apply(query)
	}

	if err := query.Find(&ms).Error; err != nil {
		return nil, err
	}

	var credits []*entity.UserCredit
	for _, m := range ms {
		credits = append(credits, userCreditToEntity(m))
	}

	return credits, nil
}

func (r *creditRepositoryImpl) UpdateBalance(ctx context.Context, credit *entity.UserCredit) error {
	return r.db.WithContext(ctx).Model(&model.UserCredit{}).
		Where("id = ?", credit.ID).
		Update("balance_cents", credit.BalanceCents).Error
}

func (r *creditRepositoryImpl) CreateTransaction(ctx context.Context, tx *entity.CreditTransaction) error {
	m := &model.CreditTransaction{
		ID:                   tx.ID,
		UserID:               tx.UserID,
		AmountCents:          tx.AmountCents,
		PreviousBalanceCents: tx.PreviousBalanceCents,
		NewBalanceCents:      tx.NewBalanceCents,
		ReferenceID:          tx.ReferenceID,
		ReferenceType:        string(tx.ReferenceType),
		Description:          tx.Description,
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	tx.ID = m.ID
	return nil
}

func (r *creditRepositoryImpl) FindTransactions(ctx context.Context, specs ...specification.Specification) ([]*entity.CreditTransaction, error) {
	var ms []*model.CreditTransaction
	query := r.db.WithContext(ctx)

	for _, spec := range specs {
		query = spec.Apply(query)
	}

	if err := query.Find(&ms).Error; err != nil {
		return nil, err
	}

	var txs []*entity.CreditTransaction
	for _, m := range ms {
		txs = append(txs, &entity.CreditTransaction{
			ID:                   m.ID,
			UserID:               m.UserID,
			AmountCents:          m.AmountCents,
			PreviousBalanceCents: m.PreviousBalanceCents,
			NewBalanceCents:      m.NewBalanceCents,
			ReferenceID:          m.ReferenceID,
			ReferenceType:        entity.ReferenceType(m.ReferenceType),
			Description:          m.Description,
			CreatedAt:            m.CreatedAt,
		})
	}

	return txs, nil
}

func userCreditToEntity(m *model.UserCredit) *entity.UserCredit {
	return &entity.UserCredit{
		ID:           m.ID,
		UserID:       m.UserID,
		BalanceCents: m.BalanceCents,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}
