package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreditBalanceResponse struct {
	UserId       uuid.UUID `json:"user_id"`
	BalanceCents int64     `json:"balance_cents"`
}

type CreditTransactionResponse struct {
	Id                   uuid.UUID  `json:"id"`
	AmountCents          int64      `json:"amount_cents"`
	PreviousBalanceCents int64      `json:"previous_balance_cents"`
	NewBalanceCents      int64      `json:"new_balance_cents"`
	ReferenceId          *uuid.UUID `json:"reference_id,omitempty"`
	ReferenceType        string     `json:"reference_type,omitempty"`
	Description          string     `json:"description,omitempty"`
	CreatedAt            time.Time  `json:"created_at"`
}
