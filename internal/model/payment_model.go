package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Payment struct {
	ID                 uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ClientID           uuid.UUID  `gorm:"type:uuid;not null;index"`
	CoachID            uuid.UUID  `gorm:"type:uuid;not null;index:idx_payments_coach_payout,priority:1"`
	SessionID          *uuid.UUID `gorm:"type:uuid;index"`
	AmountCents        int64      `gorm:"not null;check:amount_cents >= 0"`
	CoachEarningsCents int64      `gorm:"not null;check:coach_earnings_cents >= 0"`
	Status             string     `gorm:"type:varchar(32);not null;default:'pending';index:idx_payments_coach_payout,priority:2"`
	ExternalPaymentID  string     `gorm:"type:varchar(128);index"`
	PayoutID           *uuid.UUID `gorm:"type:uuid;index:idx_payments_coach_payout,priority:3"`
	Description        string     `gorm:"type:text"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
	PaidAt             *time.Time
	DeletedAt          gorm.DeletedAt `gorm:"index"`
}

func (Payment) TableName() string {
	return "payments"
}
