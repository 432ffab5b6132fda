// Package midtrans implements the gateway adapter on top of the
// midtrans Core API (capture, refund) and Iris (coach payouts).
package midtrans

import (
	"context"
	"fmt"
	"net"
	"strings"

	"coachpay-be/pkg/gateway"
	"coachpay-be/pkg/ledger"

	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/coreapi"
	"github.com/midtrans/midtrans-go/iris"
)

type Provider struct {
	core coreapi.Client
	iris iris.Client
}

func NewProvider(serverKey, irisKey string, production bool) *Provider {
	env := midtrans.Sandbox
	if production {
		env = midtrans.Production
	}

	var core coreapi.Client
	core.New(serverKey, env)

	var irisClient iris.Client
	irisClient.New(irisKey, env)

	return &Provider{core: core, iris: irisClient}
}

func (p *Provider) Capture(ctx context.Context, externalPaymentID string, amountCents int64, idempotencyKey string) (*gateway.CaptureResult, error) {
	p.core.Options = &midtrans.ConfigOptions{PaymentIdempotencyKey: &idempotencyKey}

	res, err := p.core.CaptureTransaction(&coreapi.CaptureReq{
		TransactionID: externalPaymentID,
		GrossAmt:      float64(amountCents) / 100,
	})
	if err != nil {
		return nil, classify("capture", err)
	}

	switch res.TransactionStatus {
	case "capture", "settlement":
		return &gateway.CaptureResult{Status: gateway.StatusSucceeded, GatewayRef: res.TransactionID}, nil
	default:
		return &gateway.CaptureResult{Status: gateway.StatusDeclined, GatewayRef: res.TransactionID}, nil
	}
}

func (p *Provider) Refund(ctx context.Context, externalPaymentID string, amountCents int64, idempotencyKey string) (*gateway.RefundResult, error) {
	// The refund API takes whole currency units; a sub-unit amount
	// would be silently truncated and desynchronize the ledger from
	// the money actually returned.
	if amountCents%100 != 0 {
		return nil, &ledger.InvalidAmountError{
			RequestedCents: amountCents,
			Message:        "refund amount must be a whole currency unit",
		}
	}

	// RefundKey doubles as the idempotency key on the midtrans side:
	// re-submitting the same key never creates a second refund.
	res, err := p.core.RefundTransaction(externalPaymentID, &coreapi.RefundReq{
		RefundKey: idempotencyKey,
		Amount:    amountCents / 100,
		Reason:    "marketplace refund",
	})
	if err != nil {
		return nil, classify("refund", err)
	}

	return &gateway.RefundResult{
		Status:          gateway.StatusSucceeded,
		GatewayRefundID: res.RefundKey,
	}, nil
}

func (p *Provider) Transfer(ctx context.Context, destinationAccount, bankCode string, amountCents int64, idempotencyKey string) (*gateway.TransferResult, error) {
	p.iris.Options = &midtrans.ConfigOptions{IrisIdempotencyKey: &idempotencyKey}

	res, err := p.iris.CreatePayout(iris.CreatePayoutReq{
		Payouts: []iris.CreatePayoutDetailReq{
			{
				BeneficiaryAccount: destinationAccount,
				BeneficiaryBank:    bankCode,
				Amount:             fmt.Sprintf("%.2f", float64(amountCents)/100),
				Notes:              idempotencyKey,
			},
		},
	})
	if err != nil {
		return nil, classify("transfer", err)
	}
	if len(res.Payouts) == 0 {
		return nil, &gateway.GatewayError{Reason: gateway.ReasonDeclined, Message: "transfer rejected: empty payout response"}
	}

	return &gateway.TransferResult{
		Status:            gateway.StatusSucceeded,
		GatewayTransferID: res.Payouts[0].ReferenceNo,
	}, nil
}

// classify maps a midtrans error to the adapter taxonomy. StatusCode 0
// means the HTTP round-trip itself failed: outcome unknown, retriable.
func classify(op string, err *midtrans.Error) *gateway.GatewayError {
	if err.StatusCode == 0 {
		reason := gateway.ReasonNetwork
		if netErr, ok := err.RawError.(net.Error); ok && netErr.Timeout() {
			reason = gateway.ReasonTimeout
		}
		if err.RawError != nil && strings.Contains(err.RawError.Error(), "timeout") {
			reason = gateway.ReasonTimeout
		}
		return &gateway.GatewayError{Reason: reason, Message: op + " outcome unknown", Err: err}
	}
	if err.StatusCode >= 500 {
		return &gateway.GatewayError{Reason: gateway.ReasonNetwork, Message: op + " outcome unknown", Err: err}
	}
	return &gateway.GatewayError{Reason: gateway.ReasonDeclined, Message: err.Message, Err: err}
}
