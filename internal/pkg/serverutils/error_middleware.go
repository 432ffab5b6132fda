package serverutils

import (
	"errors"

	"coachpay-be/pkg/gateway"
	"coachpay-be/pkg/ledger"

	"github.com/gofiber/fiber/v2"
)

// MapError translates the ledger error taxonomy to an HTTP status and
// a user-safe message. Gateway internals never leak to callers.
func MapError(err error) (int, string) {
	var notFound *ledger.NotFoundError
	if errors.As(err, &notFound) {
		return fiber.StatusNotFound, notFound.Error()
	}

	var invalidState *ledger.InvalidStateError
	if errors.As(err, &invalidState) {
		return fiber.StatusConflict, invalidState.Error()
	}

	var invalidAmount *ledger.InvalidAmountError
	if errors.As(err, &invalidAmount) {
		return fiber.StatusUnprocessableEntity, invalidAmount.Error()
	}

	var conflict *ledger.ConflictError
	if errors.As(err, &conflict) {
		return fiber.StatusConflict, conflict.Error()
	}

	var nothingToPay *ledger.NothingToPayError
	if errors.As(err, &nothingToPay) {
		return fiber.StatusConflict, nothingToPay.Error()
	}

	var gw *gateway.GatewayError
	if errors.As(err, &gw) {
		if gw.Retriable() {
			return fiber.StatusBadGateway, "payment processor unavailable, please retry"
		}
		return fiber.StatusPaymentRequired, gw.Message
	}

	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code, fe.Message
	}

	return fiber.StatusInternalServerError, "internal server error"
}

// ErrorHandlerMiddleware converts errors returned by handlers into the
// shared error envelope.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		status, message := MapError(err)
		return ctx.Status(status).JSON(ErrorResponse(status, message))
	}
}
