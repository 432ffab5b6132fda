package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RefundRequest struct {
	ID                 uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	PaymentID          uuid.UUID  `gorm:"type:uuid;not null;index"`
	ClientID           uuid.UUID  `gorm:"type:uuid;not null;index"`
	CoachID            uuid.UUID  `gorm:"type:uuid;not null;index"`
	AmountCents        int64      `gorm:"not null;check:amount_cents > 0"`
	Reason             string     `gorm:"type:text"`
	Status             string     `gorm:"type:varchar(32);not null;default:'pending';index"`
	RefundMethod       string     `gorm:"type:varchar(32);not null;default:'original_payment'"`
	RequestedBy        uuid.UUID  `gorm:"type:uuid;not null"`
	RequestedByType    string     `gorm:"type:varchar(16);not null"`
	ReviewedBy         *uuid.UUID `gorm:"type:uuid"`
	ReviewedAt         *time.Time
	RejectionReason    string `gorm:"type:text"`
	ProcessingFeeCents int64  `gorm:"not null;default:0"`
	CoachPenaltyCents  int64  `gorm:"not null;default:0"`
	GatewayRefundID    string `gorm:"type:varchar(128)"`
	FailureReason      string `gorm:"type:text"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
	DeletedAt          gorm.DeletedAt `gorm:"index"`

	Payment Payment `gorm:"foreignKey:PaymentID"`
}

func (RefundRequest) TableName() string {
	return "refund_requests"
}
