package service

import (
	"context"
	"crypto/sha512"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"coachpay-be/internal/dto"
	"coachpay-be/internal/pkg/logger"
	"coachpay-be/pkg/store"

	"github.com/stretchr/testify/assert"
)

const testSignKey = "test-server-key"

func newWebhookService(t *testing.T) IPaymentService {
	t.Helper()
	log := logger.NewIsolatedLogger(filepath.Join(t.TempDir(), "test.log"))
	return NewPaymentService(nil, nil, store.NewDedupStore(nil, time.Minute), testSignKey, log)
}

func signWebhook(req *dto.MidtransWebhookRequest, key string) {
	input := req.OrderId + req.StatusCode + req.GrossAmount + key
	req.SignatureKey = fmt.Sprintf("%x", sha512.Sum512([]byte(input)))
}

func TestHandleNotificationRejectsBadSignature(t *testing.T) {
	svc := newWebhookService(t)

	req := &dto.MidtransWebhookRequest{
		OrderId:           "7e57ed11-0000-4000-8000-0000000000aa",
		StatusCode:        "200",
		GrossAmount:       "150000.00",
		TransactionStatus: "settlement",
		SignatureKey:      "deadbeef",
	}

	err := svc.HandleNotification(context.Background(), req)
	assert.EqualError(t, err, "invalid signature")
}

func TestHandleNotificationRejectsWrongKey(t *testing.T) {
	svc := newWebhookService(t)

	req := &dto.MidtransWebhookRequest{
		OrderId:           "7e57ed11-0000-4000-8000-0000000000aa",
		StatusCode:        "200",
		GrossAmount:       "150000.00",
		TransactionStatus: "settlement",
	}
	signWebhook(req, "attacker-guessed-key")

	err := svc.HandleNotification(context.Background(), req)
	assert.EqualError(t, err, "invalid signature")
}

// A pending status is acknowledged without touching the ledger: the
// gateway will deliver the final verdict later.
func TestHandleNotificationPendingIsNoop(t *testing.T) {
	svc := newWebhookService(t)

	req := &dto.MidtransWebhookRequest{
		OrderId:           "7e57ed11-0000-4000-8000-0000000000aa",
		StatusCode:        "201",
		GrossAmount:       "150000.00",
		TransactionStatus: "pending",
	}
	signWebhook(req, testSignKey)

	assert.NoError(t, svc.HandleNotification(context.Background(), req))
}

func TestHandleNotificationRejectsMalformedOrderId(t *testing.T) {
	svc := newWebhookService(t)

	req := &dto.MidtransWebhookRequest{
		OrderId:           "not-a-uuid",
		StatusCode:        "200",
		GrossAmount:       "150000.00",
		TransactionStatus: "settlement",
	}
	signWebhook(req, testSignKey)

	err := svc.HandleNotification(context.Background(), req)
	assert.EqualError(t, err, "invalid order id format")
}

// Unknown statuses must be acknowledged, not errored: returning an
// error would make the gateway redeliver a notification we will never
// act on.
func TestHandleNotificationUnknownStatusIsAcknowledged(t *testing.T) {
	svc := newWebhookService(t)

	req := &dto.MidtransWebhookRequest{
		OrderId:           "7e57ed11-0000-4000-8000-0000000000aa",
		StatusCode:        "202",
		GrossAmount:       "150000.00",
		TransactionStatus: "chargeback",
	}
	signWebhook(req, testSignKey)

	assert.NoError(t, svc.HandleNotification(context.Background(), req))
}
