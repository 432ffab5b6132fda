package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Payout struct {
	ID                uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	CoachID           uuid.UUID      `gorm:"type:uuid;not null;index"`
	AmountCents       int64          `gorm:"not null;check:amount_cents > 0"`
	FeesCents         int64          `gorm:"not null;default:0"`
	NetAmountCents    int64          `gorm:"not null"`
	Status            string         `gorm:"type:varchar(32);not null;default:'pending';index"`
	PayoutMethod      string         `gorm:"type:varchar(32);not null"`
	GatewayTransferID string         `gorm:"type:varchar(128)"`
	FailureReason     string         `gorm:"type:text"`
	PaymentCount      int            `gorm:"not null;default:0"`
	Notes             string         `gorm:"type:text"`
	Metadata          datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
	ProcessedAt       *time.Time
}

func (Payout) TableName() string {
	return "payouts"
}
