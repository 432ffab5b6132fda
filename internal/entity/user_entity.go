package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is the slice of marketplace identity the ledger needs: who to
// notify and where a coach's payouts go. Account management lives in
// the main platform backend.
type User struct {
	Id             uuid.UUID
	Email          string
	FullName       string
	Role           string // client | coach | admin
	Status         string
	PayoutAccount  string // destination account for coach transfers
	PayoutBankCode string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
