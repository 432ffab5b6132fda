package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PayoutEligible selects the payments whose earnings are still
// claimable: settled money that no payout has consumed.
type PayoutEligible struct {
	CoachID uuid.UUID
}

func (s PayoutEligible) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("coach_id = ? AND status IN ? AND payout_id IS NULL",
		s.CoachID, []string{"succeeded", "partially_refunded"})
}

// PayoutAssigned selects payments already consumed by some payout.
type PayoutAssigned struct{}

func (s PayoutAssigned) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("payout_id IS NOT NULL")
}

// ByPayment filters refund requests (or billing rows) by payment.
type ByPayment struct {
	PaymentID uuid.UUID
}

func (s ByPayment) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("payment_id = ?", s.PaymentID)
}

// StatusIn filters by a set of statuses.
type StatusIn struct {
	Statuses []string
}

func (s StatusIn) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status IN ?", s.Statuses)
}

// OwnedBy filters by the owning user column.
type OwnedBy struct {
	Field  string // e.g. "client_id", "coach_id", "user_id"
	UserID uuid.UUID
}

func (s OwnedBy) Apply(db *gorm.DB) *gorm.DB {
	return db.Where(s.Field+" = ?", s.UserID)
}
