package entity

import (
	"testing"

	"github.com/google/uuid"
)

func TestPaymentCapturable(t *testing.T) {
	tests := []struct {
		status PaymentStatus
		want   bool
	}{
		{PaymentStatusPending, true},
		{PaymentStatusAuthorized, true},
		{PaymentStatusSucceeded, false},
		{PaymentStatusPartiallyRefunded, false},
		{PaymentStatusRefunded, false},
		{PaymentStatusFailed, false},
		{PaymentStatusCancelled, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			p := &Payment{Status: tt.status}
			if got := p.Capturable(); got != tt.want {
				t.Errorf("Capturable() with status %s = %v, want %v", tt.status, got, tt.want)
			}
		})
	}
}

func TestPaymentPayoutEligible(t *testing.T) {
	payoutId := uuid.New()

	tests := []struct {
		name     string
		status   PaymentStatus
		payoutId *uuid.UUID
		want     bool
	}{
		{"succeeded unclaimed", PaymentStatusSucceeded, nil, true},
		{"partially refunded unclaimed", PaymentStatusPartiallyRefunded, nil, true},
		{"succeeded already claimed", PaymentStatusSucceeded, &payoutId, false},
		{"fully refunded", PaymentStatusRefunded, nil, false},
		{"pending", PaymentStatusPending, nil, false},
		{"failed", PaymentStatusFailed, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Payment{Status: tt.status, PayoutID: tt.payoutId}
			if got := p.PayoutEligible(); got != tt.want {
				t.Errorf("PayoutEligible() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPaymentRefundable(t *testing.T) {
	tests := []struct {
		status PaymentStatus
		want   bool
	}{
		{PaymentStatusSucceeded, true},
		{PaymentStatusPartiallyRefunded, true},
		{PaymentStatusPending, false},
		{PaymentStatusAuthorized, false},
		{PaymentStatusRefunded, false},
		{PaymentStatusFailed, false},
		{PaymentStatusCancelled, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			p := &Payment{Status: tt.status}
			if got := p.Refundable(); got != tt.want {
				t.Errorf("Refundable() with status %s = %v, want %v", tt.status, got, tt.want)
			}
		})
	}
}
