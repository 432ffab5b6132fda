package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// BillingTransaction mirrors one monetary event. The composite unique
// index is the idempotency guard: one causal event writes exactly one
// row, no matter how often the operation is retried.
type BillingTransaction struct {
	ID              uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID          uuid.UUID      `gorm:"type:uuid;not null;index"`
	UserType        string         `gorm:"type:varchar(16);not null"`
	TransactionType string         `gorm:"type:varchar(16);not null;uniqueIndex:idx_billing_causal_event,priority:3"`
	AmountCents     int64          `gorm:"not null"`
	Status          string         `gorm:"type:varchar(16);not null;default:'pending';index"`
	ReferenceID     uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_billing_causal_event,priority:2;index"`
	ReferenceType   string         `gorm:"type:varchar(32);not null;uniqueIndex:idx_billing_causal_event,priority:1"`
	Description     string         `gorm:"type:text"`
	Metadata        datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (BillingTransaction) TableName() string {
	return "billing_transactions"
}
