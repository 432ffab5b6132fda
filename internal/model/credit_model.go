package model

import (
	"time"

	"github.com/google/uuid"
)

type UserCredit struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	BalanceCents int64     `gorm:"not null;default:0;check:balance_cents >= 0"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (UserCredit) TableName() string {
	return "user_credits"
}

type CreditTransaction struct {
	ID                   uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID               uuid.UUID  `gorm:"type:uuid;not null;index:idx_credit_tx_user_created,priority:1"`
	AmountCents          int64      `gorm:"not null"`
	PreviousBalanceCents int64      `gorm:"not null"`
	NewBalanceCents      int64      `gorm:"not null"`
	ReferenceID          *uuid.UUID `gorm:"type:uuid;index"`
	ReferenceType        string     `gorm:"type:varchar(32)"`
	Description          string     `gorm:"type:text"`
	CreatedAt            time.Time  `gorm:"index:idx_credit_tx_user_created,priority:2"`
}

func (CreditTransaction) TableName() string {
	return "credit_transactions"
}
