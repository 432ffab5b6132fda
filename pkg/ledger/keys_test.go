package ledger

import (
	"testing"

	"github.com/google/uuid"
)

// The key formats are part of the gateway contract: a retried
// operation must always derive the exact same key from the same local
// record. Changing these breaks at-most-once money movement for
// in-flight operations.
func TestIdempotencyKeyFormats(t *testing.T) {
	id := uuid.MustParse("7e57ed11-0000-4000-8000-0000000000aa")

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"capture", CaptureKey(id), "capture:7e57ed11-0000-4000-8000-0000000000aa"},
		{"refund", RefundKey(id), "refund:7e57ed11-0000-4000-8000-0000000000aa"},
		{"payout", PayoutKey(id), "payout:7e57ed11-0000-4000-8000-0000000000aa"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("key = %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestIdempotencyKeysStableAcrossCalls(t *testing.T) {
	id := uuid.New()
	if CaptureKey(id) != CaptureKey(id) {
		t.Error("CaptureKey is not deterministic")
	}
	if RefundKey(id) == CaptureKey(id) {
		t.Error("refund and capture keys must not collide for the same id")
	}
}
