package implementation

import (
	"context"

	"coachpay-be/internal/entity"
	"coachpay-be/internal/model"
	"coachpay-be/internal/repository/contract"
	"coachpay-be/internal/repository/specification"

	"gorm.io/gorm"
)

type userRepositoryImpl struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) contract.UserRepository {
	return &userRepositoryImpl{db: db}
}

func (r *userRepositoryImpl) Create(ctx context.Context, user *entity.User) error {
	m := userToModel(user)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	user.Id = m.Id
	return nil
}

func (r *userRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	var m model.User
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

	return userToEntity(&m), nil
}

func (r *userRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.User, error) {
	var ms []*model.User
	query := r.db.WithContext(ctx)

	for _, spec := range specs {
		query = spec.Apply(query)
	}

	if err := query.Find(&ms).Error; err != nil {
		return nil, err
	}

	var users []*entity.User
	for _, m := range ms {
		users = append(users, userToEntity(m))
	}

	return users, nil
}

func (r *userRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.User{}).Count(&count).Error
	return count, err
}

func userToModel(u *entity.User) *model.User {
	return &model.User{
		Id:             u.Id,
		Email:          u.Email,
		FullName:       u.FullName,
		Role:           u.Role,
		Status:         u.Status,
		PayoutAccount:  u.PayoutAccount,
		PayoutBankCode: u.PayoutBankCode,
	}
}

func userToEntity(m *model.User) *entity.User {
	return &entity.User{
		Id:             m.Id,
		Email:          m.Email,
		FullName:       m.FullName,
		Role:           m.Role,
		Status:         m.Status,
		PayoutAccount:  m.PayoutAccount,
		PayoutBankCode: m.PayoutBankCode,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}
