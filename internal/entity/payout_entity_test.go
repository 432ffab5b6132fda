package entity

import "testing"

func TestPayoutProcessable(t *testing.T) {
	tests := []struct {
		status PayoutStatus
		want   bool
	}{
		{PayoutStatusPending, true},
		{PayoutStatusFailed, true}, // failed payouts retry, never unwind
		{PayoutStatusProcessing, false},
		{PayoutStatusCompleted, false},
		{PayoutStatusCancelled, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			p := &Payout{Status: tt.status}
			if got := p.Processable(); got != tt.want {
				t.Errorf("Processable() with status %s = %v, want %v", tt.status, got, tt.want)
			}
		})
	}
}

func TestPayoutTerminal(t *testing.T) {
	tests := []struct {
		status PayoutStatus
		want   bool
	}{
		{PayoutStatusCompleted, true},
		{PayoutStatusCancelled, true},
		{PayoutStatusPending, false},
		{PayoutStatusProcessing, false},
		{PayoutStatusFailed, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			p := &Payout{Status: tt.status}
			if got := p.Terminal(); got != tt.want {
				t.Errorf("Terminal() with status %s = %v, want %v", tt.status, got, tt.want)
			}
		})
	}
}
