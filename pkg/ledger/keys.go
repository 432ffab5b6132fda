package ledger

import "github.com/google/uuid"

// Idempotency keys for gateway calls. Derived from the local record id
// so a retried operation reuses the same key and the processor
// deduplicates on its side; one logical operation moves money at most
// once no matter how often the network forces a retry.

func CaptureKey(paymentID uuid.UUID) string {
	return "capture:" + paymentID.String()
}

func RefundKey(requestID uuid.UUID) string {
	return "refund:" + requestID.String()
}

func PayoutKey(payoutID uuid.UUID) string {
	return "payout:" + payoutID.String()
}
