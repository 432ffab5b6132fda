package integration

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"coachpay-be/internal/entity"
	"coachpay-be/internal/model"
	"coachpay-be/internal/pkg/logger"
	"coachpay-be/internal/repository/specification"
	"coachpay-be/internal/repository/unitofwork"
	"coachpay-be/pkg/database"
	"coachpay-be/pkg/gateway"
	"coachpay-be/pkg/ledger"
	"coachpay-be/pkg/ledger/credit"
	ledgerEvents "coachpay-be/pkg/ledger/events"
	"coachpay-be/pkg/ledger/payment"
	"coachpay-be/pkg/ledger/payout"
	"coachpay-be/pkg/ledger/reconcile"
	"coachpay-be/pkg/ledger/refund"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubGateway approves everything and counts calls, so the tests can
// assert how often the ledger reached for real money movement.
type stubGateway struct {
	captures  int
	refunds   int
	transfers int
}

func (s *stubGateway) Capture(ctx context.Context, externalPaymentID string, amountCents int64, idempotencyKey string) (*gateway.CaptureResult, error) {
	s.captures++
	return &gateway.CaptureResult{Status: gateway.StatusSucceeded, GatewayRef: "stub-capture-" + idempotencyKey}, nil
}

func (s *stubGateway) Refund(ctx context.Context, externalPaymentID string, amountCents int64, idempotencyKey string) (*gateway.RefundResult, error) {
	s.refunds++
	return &gateway.RefundResult{Status: gateway.StatusSucceeded, GatewayRefundID: "stub-refund-" + idempotencyKey}, nil
}

func (s *stubGateway) Transfer(ctx context.Context, destinationAccount, bankCode string, amountCents int64, idempotencyKey string) (*gateway.TransferResult, error) {
	s.transfers++
	return &gateway.TransferResult{Status: gateway.StatusSucceeded, GatewayTransferID: "stub-transfer-" + idempotencyKey}, nil
}

type ledgerFixture struct {
	uowFactory unitofwork.RepositoryFactory
	gateway    *stubGateway
	payments   *payment.Processor
	refunds    *refund.Processor
	payouts    *payout.Processor
	checker    *reconcile.Checker

	client *entity.User
	coach  *entity.User
	admin  *entity.User
}

func setupLedger(t *testing.T) *ledgerFixture {
	t.Helper()

	if err := godotenv.Load("../../.env"); err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	require.NoError(t, err, "failed to connect to DB")

	require.NoError(t, gormDB.AutoMigrate(
		&model.User{},
		&model.Payment{},
		&model.RefundRequest{},
		&model.Payout{},
		&model.BillingTransaction{},
		&model.UserCredit{},
		&model.CreditTransaction{},
	))

	testLogger := logger.NewIsolatedLogger(filepath.Join(t.TempDir(), "ledger_test.log"))
	publisher := ledgerEvents.NewNatsPublisher(nil, testLogger) // nil bus: events dropped
	gw := &stubGateway{}

	f := &ledgerFixture{
		uowFactory: unitofwork.NewRepositoryFactory(gormDB),
		gateway:    gw,
		payments:   payment.NewProcessor(gw, testLogger, publisher),
		refunds:    refund.NewProcessor(gw, credit.NewApplier(testLogger, publisher), testLogger, publisher),
		payouts: payout.NewProcessor(gw, payout.FeePolicy{FlatCents: 2500, PercentBps: 100},
			testLogger, publisher),
		checker: reconcile.NewChecker(testLogger),
	}

	ctx := context.Background()
	uow := f.uowFactory.NewUnitOfWork(ctx)
	f.client = newTestUser(t, ctx, uow, "client")
	f.coach = newTestUser(t, ctx, uow, "coach")
	f.admin = newTestUser(t, ctx, uow, "admin")

	return f
}

func newTestUser(t *testing.T, ctx context.Context, uow unitofwork.UnitOfWork, role string) *entity.User {
	t.Helper()
	u := &entity.User{
		Id:             uuid.New(),
		Email:          fmt.Sprintf("%s-%s@test.local", role, uuid.NewString()[:8]),
		FullName:       "Test " + role,
		Role:           role,
		Status:         "active",
		PayoutAccount:  "1234567890",
		PayoutBankCode: "bca",
	}
	require.NoError(t, uow.UserRepository().Create(ctx, u))
	return u
}

func (f *ledgerFixture) newPayment(t *testing.T, ctx context.Context, amountCents, earningsCents int64) *entity.Payment {
	t.Helper()
	uow := f.uowFactory.NewUnitOfWork(ctx)
	p := &entity.Payment{
		ClientID:           f.client.Id,
		CoachID:            f.coach.Id,
		AmountCents:        amountCents,
		CoachEarningsCents: earningsCents,
		Status:             entity.PaymentStatusPending,
		ExternalPaymentID:  "ext-" + uuid.NewString(),
		Description:        "1h coaching session",
	}
	require.NoError(t, uow.PaymentRepository().Create(ctx, p))
	return p
}

func TestCaptureIsIdempotent(t *testing.T) {
	f := setupLedger(t)
	ctx := context.Background()

	p := f.newPayment(t, ctx, 150000, 120000)

	captured, err := f.payments.Capture(ctx, f.uowFactory.NewUnitOfWork(ctx), p.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusSucceeded, captured.Status)
	assert.NotNil(t, captured.PaidAt)
	assert.Equal(t, 1, f.gateway.captures)

	// Second capture: no-op success, no second gateway call, still one
	// ledger entry.
	again, err := f.payments.Capture(ctx, f.uowFactory.NewUnitOfWork(ctx), p.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusSucceeded, again.Status)
	assert.Equal(t, 1, f.gateway.captures)

	uow := f.uowFactory.NewUnitOfWork(ctx)
	rows, err := uow.BillingTransactionRepository().FindAll(ctx,
		specification.Filter("reference_id", p.ID),
		specification.Filter("transaction_type", string(entity.TransactionTypePayment)))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, entity.TransactionStatusCompleted, rows[0].Status)
}

func TestRefundLifecycleWithStoreCredit(t *testing.T) {
	f := setupLedger(t)
	ctx := context.Background()

	p := f.newPayment(t, ctx, 150000, 120000)
	_, err := f.payments.Capture(ctx, f.uowFactory.NewUnitOfWork(ctx), p.ID)
	require.NoError(t, err)

	request, err := f.refunds.Create(ctx, f.uowFactory.NewUnitOfWork(ctx), refund.CreateParams{
		PaymentID:       p.ID,
		AmountCents:     50000,
		Reason:          "coach cancelled the second half of the session",
		Method:          entity.RefundMethodStoreCredit,
		RequestedBy:     f.client.Id,
		RequestedByType: entity.RequesterTypeClient,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.RefundStatusPending, request.Status)

	// Only one outstanding request per payment.
	_, err = f.refunds.Create(ctx, f.uowFactory.NewUnitOfWork(ctx), refund.CreateParams{
		PaymentID:       p.ID,
		AmountCents:     10000,
		Reason:          "duplicate request while the first is open",
		RequestedBy:     f.client.Id,
		RequestedByType: entity.RequesterTypeClient,
	})
	assert.Error(t, err)

	// The requester cannot review their own request.
	_, err = f.refunds.Review(ctx, f.uowFactory.NewUnitOfWork(ctx), request.ID,
		refund.ActionApprove, f.client.Id, "")
	assert.Error(t, err)

	reviewed, err := f.refunds.Review(ctx, f.uowFactory.NewUnitOfWork(ctx), request.ID,
		refund.ActionApprove, f.admin.Id, "")
	require.NoError(t, err)
	assert.Equal(t, entity.RefundStatusCompleted, reviewed.Status)
	assert.Equal(t, 0, f.gateway.refunds, "store credit refund must not call the gateway")

	uow := f.uowFactory.NewUnitOfWork(ctx)

	balance, err := uow.CreditRepository().FindBalance(ctx, f.client.Id)
	require.NoError(t, err)
	require.NotNil(t, balance)
	assert.Equal(t, int64(50000), balance.BalanceCents)

	partial, err := uow.PaymentRepository().FindOne(ctx, specification.ByID{ID: p.ID})
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusPartiallyRefunded, partial.Status)

	// A late second review must lose the CAS race.
	_, err = f.refunds.Review(ctx, f.uowFactory.NewUnitOfWork(ctx), request.ID,
		refund.ActionReject, f.admin.Id, "changed my mind")
	assert.Error(t, err)
}

func TestRefundCancelOnlyByRequester(t *testing.T) {
	f := setupLedger(t)
	ctx := context.Background()

	p := f.newPayment(t, ctx, 80000, 60000)
	_, err := f.payments.Capture(ctx, f.uowFactory.NewUnitOfWork(ctx), p.ID)
	require.NoError(t, err)

	request, err := f.refunds.Create(ctx, f.uowFactory.NewUnitOfWork(ctx), refund.CreateParams{
		PaymentID:       p.ID,
		AmountCents:     80000,
		Reason:          "session never happened, full refund please",
		RequestedBy:     f.client.Id,
		RequestedByType: entity.RequesterTypeClient,
	})
	require.NoError(t, err)

	_, err = f.refunds.Cancel(ctx, f.uowFactory.NewUnitOfWork(ctx), request.ID, f.coach.Id)
	assert.Error(t, err, "non-requester must not cancel")

	cancelled, err := f.refunds.Cancel(ctx, f.uowFactory.NewUnitOfWork(ctx), request.ID, f.client.Id)
	require.NoError(t, err)
	assert.Equal(t, entity.RefundStatusCancelled, cancelled.Status)

	// The paired ledger row closes in the same transaction.
	uow := f.uowFactory.NewUnitOfWork(ctx)
	row, err := uow.BillingTransactionRepository().FindOne(ctx,
		specification.Filter("reference_id", request.ID),
		specification.Filter("transaction_type", string(entity.TransactionTypeRefund)))
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, entity.TransactionStatusCancelled, row.Status)
}

func TestRefundRejectClosesLedgerRow(t *testing.T) {
	f := setupLedger(t)
	ctx := context.Background()

	p := f.newPayment(t, ctx, 120000, 96000)
	_, err := f.payments.Capture(ctx, f.uowFactory.NewUnitOfWork(ctx), p.ID)
	require.NoError(t, err)

	request, err := f.refunds.Create(ctx, f.uowFactory.NewUnitOfWork(ctx), refund.CreateParams{
		PaymentID:       p.ID,
		AmountCents:     120000,
		Reason:          "client claims the session never took place",
		RequestedBy:     f.client.Id,
		RequestedByType: entity.RequesterTypeClient,
	})
	require.NoError(t, err)

	rejected, err := f.refunds.Review(ctx, f.uowFactory.NewUnitOfWork(ctx), request.ID,
		refund.ActionReject, f.admin.Id, "attendance log shows both parties present")
	require.NoError(t, err)
	assert.Equal(t, entity.RefundStatusRejected, rejected.Status)
	assert.Equal(t, "attendance log shows both parties present", rejected.RejectionReason)

	uow := f.uowFactory.NewUnitOfWork(ctx)
	row, err := uow.BillingTransactionRepository().FindOne(ctx,
		specification.Filter("reference_id", request.ID),
		specification.Filter("transaction_type", string(entity.TransactionTypeRefund)))
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, entity.TransactionStatusCancelled, row.Status)
}

func TestRefundCannotExceedRemainingBalance(t *testing.T) {
	f := setupLedger(t)
	ctx := context.Background()

	p := f.newPayment(t, ctx, 150000, 120000)
	_, err := f.payments.Capture(ctx, f.uowFactory.NewUnitOfWork(ctx), p.ID)
	require.NoError(t, err)

	first, err := f.refunds.Create(ctx, f.uowFactory.NewUnitOfWork(ctx), refund.CreateParams{
		PaymentID:       p.ID,
		AmountCents:     50000,
		Reason:          "coach cancelled the second half of the session",
		Method:          entity.RefundMethodStoreCredit,
		RequestedBy:     f.client.Id,
		RequestedByType: entity.RequesterTypeClient,
	})
	require.NoError(t, err)
	_, err = f.refunds.Review(ctx, f.uowFactory.NewUnitOfWork(ctx), first.ID,
		refund.ActionApprove, f.admin.Id, "")
	require.NoError(t, err)

	// 100000 cents remain refundable; asking for more must fail with
	// the available balance in the error.
	_, err = f.refunds.Create(ctx, f.uowFactory.NewUnitOfWork(ctx), refund.CreateParams{
		PaymentID:       p.ID,
		AmountCents:     120000,
		Reason:          "client now wants the rest of the session back too",
		RequestedBy:     f.client.Id,
		RequestedByType: entity.RequesterTypeClient,
	})
	var iae *ledger.InvalidAmountError
	require.ErrorAs(t, err, &iae)
	assert.Equal(t, int64(100000), iae.AvailableCents)
}

// Two racing creates for the same payment must serialize on the
// payment row lock: the loser re-reads after the winner's commit and
// hits the outstanding-request guard.
func TestConcurrentRefundCreatesSingleWinner(t *testing.T) {
	f := setupLedger(t)
	ctx := context.Background()

	p := f.newPayment(t, ctx, 100000, 80000)
	_, err := f.payments.Capture(ctx, f.uowFactory.NewUnitOfWork(ctx), p.ID)
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.refunds.Create(ctx, f.uowFactory.NewUnitOfWork(ctx), refund.CreateParams{
				PaymentID:       p.ID,
				AmountCents:     60000,
				Reason:          "duplicate submit from a double-clicked form",
				RequestedBy:     f.client.Id,
				RequestedByType: entity.RequesterTypeClient,
			})
		}(i)
	}
	wg.Wait()

	failures := 0
	for _, e := range errs {
		if e != nil {
			failures++
		}
	}
	assert.Equal(t, 1, failures, "exactly one of two concurrent creates must fail")

	uow := f.uowFactory.NewUnitOfWork(ctx)
	open, err := uow.RefundRequestRepository().FindAll(ctx,
		specification.ByPayment{PaymentID: p.ID},
		specification.StatusIn{Statuses: []string{
			string(entity.RefundStatusPending),
			string(entity.RefundStatusApproved),
		}})
	require.NoError(t, err)
	assert.Len(t, open, 1)
}

// Two racing payout creates for the same coach: the row locks on the
// eligible payments serialize them, the winner claims every payment
// and the loser finds nothing left to pay.
func TestConcurrentPayoutCreateSingleWinner(t *testing.T) {
	f := setupLedger(t)
	ctx := context.Background()

	for _, amounts := range [][2]int64{{150000, 120000}, {90000, 72000}} {
		p := f.newPayment(t, ctx, amounts[0], amounts[1])
		_, err := f.payments.Capture(ctx, f.uowFactory.NewUnitOfWork(ctx), p.ID)
		require.NoError(t, err)
	}

	var wg sync.WaitGroup
	results := make([]*entity.Payout, 2)
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = f.payouts.Create(ctx, f.uowFactory.NewUnitOfWork(ctx),
				f.coach.Id, entity.PayoutMethodBankTransfer, "")
		}(i)
	}
	wg.Wait()

	var winner *entity.Payout
	wins := 0
	for i := range errs {
		if errs[i] == nil {
			wins++
			winner = results[i]
		}
	}
	require.Equal(t, 1, wins, "exactly one concurrent create must win")
	assert.Equal(t, 2, winner.PaymentCount, "the winner claims every eligible payment")
	assert.Equal(t, int64(192000), winner.AmountCents)
}

func TestPayoutAggregationAndProcessing(t *testing.T) {
	f := setupLedger(t)
	ctx := context.Background()

	p1 := f.newPayment(t, ctx, 150000, 120000)
	p2 := f.newPayment(t, ctx, 90000, 72000)
	for _, p := range []*entity.Payment{p1, p2} {
		_, err := f.payments.Capture(ctx, f.uowFactory.NewUnitOfWork(ctx), p.ID)
		require.NoError(t, err)
	}

	earnings, err := f.payouts.PendingEarnings(ctx, f.uowFactory.NewUnitOfWork(ctx), f.coach.Id)
	require.NoError(t, err)
	assert.Equal(t, int64(192000), earnings.TotalCents)
	assert.Len(t, earnings.Payments, 2)

	created, err := f.payouts.Create(ctx, f.uowFactory.NewUnitOfWork(ctx), f.coach.Id,
		entity.PayoutMethodBankTransfer, "weekly run")
	require.NoError(t, err)
	assert.Equal(t, int64(192000), created.AmountCents)
	assert.Equal(t, int64(2500+1920), created.FeesCents) // flat + 100bps
	assert.Equal(t, created.AmountCents-created.FeesCents, created.NetAmountCents)
	assert.Equal(t, 2, created.PaymentCount)

	// Earnings are claimed; a second payout has nothing to pay.
	_, err = f.payouts.Create(ctx, f.uowFactory.NewUnitOfWork(ctx), f.coach.Id,
		entity.PayoutMethodBankTransfer, "")
	assert.Error(t, err)

	processed, err := f.payouts.Process(ctx, f.uowFactory.NewUnitOfWork(ctx), created.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PayoutStatusCompleted, processed.Status)
	assert.NotEmpty(t, processed.GatewayTransferID)
	assert.NotNil(t, processed.ProcessedAt)
	assert.Equal(t, 1, f.gateway.transfers)

	// Completed payouts are not reprocessable.
	_, err = f.payouts.Process(ctx, f.uowFactory.NewUnitOfWork(ctx), created.ID)
	assert.Error(t, err)

	// This run's entities must be internally consistent.
	report, err := f.checker.Run(ctx, f.uowFactory.NewUnitOfWork(ctx))
	require.NoError(t, err)
	for _, v := range report.Violations {
		assert.NotEqual(t, created.ID, v.EntityID, "payout from this run flagged: %s", v.Detail)
		assert.NotEqual(t, p1.ID, v.EntityID)
		assert.NotEqual(t, p2.ID, v.EntityID)
	}
}
