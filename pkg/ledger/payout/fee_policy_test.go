package payout

import "testing"

func TestFeePolicyFees(t *testing.T) {
	tests := []struct {
		name   string
		policy FeePolicy
		gross  int64
		want   int64
	}{
		{"flat only", FeePolicy{FlatCents: 2500}, 100000, 2500},
		{"percent only", FeePolicy{PercentBps: 150}, 100000, 1500},
		{"flat plus percent", FeePolicy{FlatCents: 2500, PercentBps: 150}, 100000, 4000},
		{"zero gross", FeePolicy{FlatCents: 2500, PercentBps: 150}, 0, 2500},
		{"bps truncates toward zero", FeePolicy{PercentBps: 1}, 9999, 0},
		{"no fees configured", FeePolicy{}, 100000, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.policy.Fees(tt.gross); got != tt.want {
				t.Errorf("Fees(%d) = %d, want %d", tt.gross, got, tt.want)
			}
		})
	}
}
