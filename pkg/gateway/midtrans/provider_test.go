package midtrans

import (
	"context"
	"errors"
	"testing"

	"coachpay-be/pkg/ledger"
)

// A sub-unit refund amount must be rejected before the request is
// built: the refund API takes whole currency units and would silently
// truncate the remainder.
func TestRefundRejectsSubUnitAmount(t *testing.T) {
	p := NewProvider("server-key", "iris-key", false)

	_, err := p.Refund(context.Background(), "ext-payment-1", 3050, "refund:abc")

	var iae *ledger.InvalidAmountError
	if !errors.As(err, &iae) {
		t.Fatalf("want InvalidAmountError, got %v", err)
	}
	if iae.RequestedCents != 3050 {
		t.Errorf("RequestedCents = %d, want 3050", iae.RequestedCents)
	}
}
