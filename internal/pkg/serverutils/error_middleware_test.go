package serverutils

import (
	"errors"
	"testing"

	"coachpay-be/pkg/gateway"
	"coachpay-be/pkg/ledger"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"not found", &ledger.NotFoundError{Entity: "payment", ID: "x"}, fiber.StatusNotFound},
		{"invalid state", &ledger.InvalidStateError{Entity: "payment", ID: "x", Status: "failed"}, fiber.StatusConflict},
		{"invalid amount", &ledger.InvalidAmountError{RequestedCents: 100, AvailableCents: 50}, fiber.StatusUnprocessableEntity},
		{"conflict", &ledger.ConflictError{Message: "raced"}, fiber.StatusConflict},
		{"nothing to pay", &ledger.NothingToPayError{CoachID: "x"}, fiber.StatusConflict},
		{"gateway declined", &gateway.GatewayError{Reason: gateway.ReasonDeclined, Message: "card declined"}, fiber.StatusPaymentRequired},
		{"gateway network", &gateway.GatewayError{Reason: gateway.ReasonNetwork, Message: "unknown"}, fiber.StatusBadGateway},
		{"gateway timeout", &gateway.GatewayError{Reason: gateway.ReasonTimeout, Message: "unknown"}, fiber.StatusBadGateway},
		{"fiber error passthrough", fiber.NewError(fiber.StatusUnauthorized, "nope"), fiber.StatusUnauthorized},
		{"unknown error", errors.New("boom"), fiber.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, message := MapError(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.NotEmpty(t, message)
		})
	}
}

// Retriable gateway failures must not leak processor internals to the
// caller; they get a generic retry message.
func TestMapErrorHidesGatewayInternals(t *testing.T) {
	_, message := MapError(&gateway.GatewayError{
		Reason:  gateway.ReasonTimeout,
		Message: "iris endpoint 10.0.3.7 timed out",
	})
	assert.Equal(t, "payment processor unavailable, please retry", message)
}

func TestMapErrorUnknownHidesDetails(t *testing.T) {
	_, message := MapError(errors.New("pq: connection refused at db-primary:5432"))
	assert.Equal(t, "internal server error", message)
}
