package reconcile

import (
	"context"
	"fmt"
	"time"

	"coachpay-be/internal/entity"
	"coachpay-be/internal/pkg/logger"
	"coachpay-be/internal/repository/specification"
	"coachpay-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

// ViolationClass names one kind of ledger inconsistency.
type ViolationClass string

const (
	// A payment's payout_id points at a payout row that does not exist.
	ClassOrphanedPayoutRef ViolationClass = "orphaned_payout_reference"
	// A payout's amount does not equal the earnings of its members, or
	// it has no members at all.
	ClassPayoutSumMismatch ViolationClass = "payout_sum_mismatch"
	// A terminal refund request has no matching progressed ledger row.
	ClassRefundLedgerGap ViolationClass = "refund_ledger_gap"
	// A user's credit balance does not equal the chained transaction sum.
	ClassCreditDrift ViolationClass = "credit_balance_drift"
)

// Violation is one detected inconsistency.
type Violation struct {
	Class    ViolationClass `json:"class"`
	EntityID uuid.UUID      `json:"entity_id"`
	Detail   string         `json:"detail"`
}

// Report is the outcome of one integrity pass.
type Report struct {
	CheckedAt  time.Time   `json:"checked_at"`
	Violations []Violation `json:"violations"`
}

// Clean reports whether the pass found nothing.
func (r *Report) Clean() bool {
	return len(r.Violations) == 0
}

// Checker runs the read-only integrity pass. It never mutates data;
// findings route to the operational channel, not to end users.
type Checker struct {
	logger logger.ILogger
}

func NewChecker(logger logger.ILogger) *Checker {
	return &Checker{logger: logger}
}

// Run verifies the ledger invariants across the dataset.
func (c *Checker) Run(ctx context.Context, uow unitofwork.UnitOfWork) (*Report, error) {
	report := &Report{CheckedAt: time.Now()}

	if err := c.checkPayoutReferences(ctx, uow, report); err != nil {
		return nil, err
	}
	if err := c.checkRefundLedger(ctx, uow, report); err != nil {
		return nil, err
	}
	if err := c.checkCreditChains(ctx, uow, report); err != nil {
		return nil, err
	}

	if !report.Clean() {
		c.logger.Warn("RECONCILE", "Integrity check found violations", map[string]interface{}{
			"count": len(report.Violations),
		})
	}

	return report, nil
}

// checkPayoutReferences covers both payout-side invariants: every
// stamped payment points at a real payout, and every payout's amount
// equals the earnings of exactly its member set.
func (c *Checker) checkPayoutReferences(ctx context.Context, uow unitofwork.UnitOfWork, report *Report) error {
	payouts, err := uow.PayoutRepository().FindAll(ctx)
	if err != nil {
		return err
	}
	payoutAmounts := make(map[uuid.UUID]int64, len(payouts))
	for _, payout := range payouts {
		payoutAmounts[payout.ID] = payout.AmountCents
	}

	stamped, err := uow.PaymentRepository().FindAll(ctx, specification.PayoutAssigned{})
	if err != nil {
		return err
	}

	memberSums := make(map[uuid.UUID]int64)
	memberCounts := make(map[uuid.UUID]int)
	for _, payment := range stamped {
		if _, ok := payoutAmounts[*payment.PayoutID]; !ok {
			report.Violations = append(report.Violations, Violation{
				Class:    ClassOrphanedPayoutRef,
				EntityID: payment.ID,
				Detail:   fmt.Sprintf("payment references nonexistent payout %s", payment.PayoutID),
			})
			continue
		}
		memberSums[*payment.PayoutID] += payment.CoachEarningsCents
		memberCounts[*payment.PayoutID]++
	}

	for _, payout := range payouts {
		if payout.Status == entity.PayoutStatusCancelled {
			continue
		}
		sum := memberSums[payout.ID]
		if memberCounts[payout.ID] == 0 {
			report.Violations = append(report.Violations, Violation{
				Class:    ClassPayoutSumMismatch,
				EntityID: payout.ID,
				Detail:   "payout has no member payments",
			})
			continue
		}
		if sum != payout.AmountCents {
			report.Violations = append(report.Violations, Violation{
				Class:    ClassPayoutSumMismatch,
				EntityID: payout.ID,
				Detail:   fmt.Sprintf("payout amount %d != member earnings sum %d", payout.AmountCents, sum),
			})
		}
	}

	return nil
}

func (c *Checker) checkRefundLedger(ctx context.Context, uow unitofwork.UnitOfWork, report *Report) error {
	requests, err := uow.RefundRequestRepository().FindAll(ctx, specification.StatusIn{Statuses: []string{
		string(entity.RefundStatusCompleted),
		string(entity.RefundStatusRejected),
		string(entity.RefundStatusCancelled),
	}})
	if err != nil {
		return err
	}

	for _, request := range requests {
		row, err := uow.BillingTransactionRepository().FindOne(ctx,
			specification.Filter("reference_type", string(entity.ReferenceTypeRefund)),
			specification.Filter("reference_id", request.ID),
			specification.Filter("transaction_type", string(entity.TransactionTypeRefund)))
		if err != nil {
			return err
		}

		want := entity.TransactionStatusCancelled
		if request.Status == entity.RefundStatusCompleted {
			want = entity.TransactionStatusCompleted
		}

		if row == nil {
			report.Violations = append(report.Violations, Violation{
				Class:    ClassRefundLedgerGap,
				EntityID: request.ID,
				Detail:   fmt.Sprintf("terminal refund request (%s) has no ledger entry", request.Status),
			})
			continue
		}
		if row.Status != want {
			report.Violations = append(report.Violations, Violation{
				Class:    ClassRefundLedgerGap,
				EntityID: request.ID,
				Detail:   fmt.Sprintf("refund request is %s but ledger entry is %s", request.Status, row.Status),
			})
		}
	}

	return nil
}

func (c *Checker) checkCreditChains(ctx context.Context, uow unitofwork.UnitOfWork, report *Report) error {
	credits, err := uow.CreditRepository().FindAllBalances(ctx)
	if err != nil {
		return err
	}

	for _, credit := range credits {
		txs, err := uow.CreditRepository().FindTransactions(ctx,
			specification.OwnedBy{Field: "user_id", UserID: credit.UserID},
			specification.OrderBy{Field: "created_at", Desc: false})
		if err != nil {
			return err
		}

		var running int64
		broken := false
		for _, tx := range txs {
			if tx.PreviousBalanceCents != running || !tx.Chained() {
				report.Violations = append(report.Violations, Violation{
					Class:    ClassCreditDrift,
					EntityID: credit.UserID,
					Detail:   fmt.Sprintf("credit transaction %s breaks the chain at balance %d", tx.ID, running),
				})
				broken = true
				break
			}
			running = tx.NewBalanceCents
		}
		if broken {
			continue
		}
		if running != credit.BalanceCents {
			report.Violations = append(report.Violations, Violation{
				Class:    ClassCreditDrift,
				EntityID: credit.UserID,
				Detail:   fmt.Sprintf("balance %d != chained sum %d", credit.BalanceCents, running),
			})
		}
	}

	return nil
}
