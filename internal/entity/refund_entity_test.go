package entity

import "testing"

func TestRefundRequestLifecycleGuards(t *testing.T) {
	tests := []struct {
		status          RefundStatus
		wantOutstanding bool
		wantTerminal    bool
		wantReviewable  bool
		wantCancellable bool
	}{
		{RefundStatusPending, true, false, true, true},
		{RefundStatusApproved, true, false, false, false},
		{RefundStatusRejected, false, true, false, false},
		{RefundStatusCompleted, false, true, false, false},
		{RefundStatusCancelled, false, true, false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			r := &RefundRequest{Status: tt.status}
			if got := r.Outstanding(); got != tt.wantOutstanding {
				t.Errorf("Outstanding() = %v, want %v", got, tt.wantOutstanding)
			}
			if got := r.Terminal(); got != tt.wantTerminal {
				t.Errorf("Terminal() = %v, want %v", got, tt.wantTerminal)
			}
			if got := r.Reviewable(); got != tt.wantReviewable {
				t.Errorf("Reviewable() = %v, want %v", got, tt.wantReviewable)
			}
			if got := r.Cancellable(); got != tt.wantCancellable {
				t.Errorf("Cancellable() = %v, want %v", got, tt.wantCancellable)
			}
		})
	}
}
