package entity

import "testing"

func TestCreditTransactionChained(t *testing.T) {
	tests := []struct {
		name     string
		previous int64
		amount   int64
		next     int64
		want     bool
	}{
		{"positive delta", 0, 500, 500, true},
		{"negative delta", 500, -200, 300, true},
		{"zero delta", 300, 0, 300, true},
		{"broken arithmetic", 0, 500, 400, false},
		{"drifted previous", 100, 500, 500, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := &CreditTransaction{
				PreviousBalanceCents: tt.previous,
				AmountCents:          tt.amount,
				NewBalanceCents:      tt.next,
			}
			if got := tx.Chained(); got != tt.want {
				t.Errorf("Chained() = %v, want %v", got, tt.want)
			}
		})
	}
}
