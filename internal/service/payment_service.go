package service

import (
	"context"
	"crypto/sha512"
	"crypto/subtle"
	"errors"
	"fmt"

	"coachpay-be/internal/dto"
	"coachpay-be/internal/entity"
	"coachpay-be/internal/pkg/logger"
	"coachpay-be/internal/repository/specification"
	"coachpay-be/internal/repository/unitofwork"
	"coachpay-be/pkg/ledger"
	"coachpay-be/pkg/ledger/payment"
	"coachpay-be/pkg/store"

	"github.com/google/uuid"
)

type IPaymentService interface {
	CreatePayment(ctx context.Context, req *dto.CreatePaymentRequest) (*dto.PaymentResponse, error)
	CapturePayment(ctx context.Context, paymentId uuid.UUID) (*dto.PaymentResponse, error)
	GetPayment(ctx context.Context, paymentId uuid.UUID) (*dto.PaymentResponse, error)
	HandleNotification(ctx context.Context, req *dto.MidtransWebhookRequest) error
}

type paymentService struct {
	uowFactory     unitofwork.RepositoryFactory
	processor      *payment.Processor
	dedup          *store.DedupStore
	webhookSignKey string
	logger         logger.ILogger
}

func NewPaymentService(uowFactory unitofwork.RepositoryFactory, processor *payment.Processor, dedup *store.DedupStore, webhookSignKey string, log logger.ILogger) IPaymentService {
	return &paymentService{
		uowFactory:     uowFactory,
		processor:      processor,
		dedup:          dedup,
		webhookSignKey: webhookSignKey,
		logger:         log,
	}
}

// CreatePayment records a charge in pending. Called by the booking
// flow once the client has authorized the session price; the money
// moves later, at capture.
func (s *paymentService) CreatePayment(ctx context.Context, req *dto.CreatePaymentRequest) (*dto.PaymentResponse, error) {
	if req.CoachEarningsCents > req.AmountCents {
		return nil, &ledger.InvalidAmountError{
			RequestedCents: req.CoachEarningsCents,
			AvailableCents: req.AmountCents,
			Message:        "coach earnings cannot exceed the charge amount",
		}
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	p := &entity.Payment{
		ClientID:           req.ClientId,
		CoachID:            req.CoachId,
		SessionID:          req.SessionId,
		AmountCents:        req.AmountCents,
		CoachEarningsCents: req.CoachEarningsCents,
		Status:             entity.PaymentStatusPending,
		ExternalPaymentID:  req.ExternalPaymentId,
		Description:        req.Description,
	}
	if err := uow.PaymentRepository().Create(ctx, p); err != nil {
		return nil, err
	}

	s.logger.Info("PAYMENT", "Payment recorded", map[string]interface{}{
		"paymentId":   p.ID.String(),
		"clientId":    p.ClientID.String(),
		"amountCents": p.AmountCents,
	})

	return paymentToResponse(p), nil
}

func (s *paymentService) CapturePayment(ctx context.Context, paymentId uuid.UUID) (*dto.PaymentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	p, err := s.processor.Capture(ctx, uow, paymentId)
	if err != nil {
		return nil, err
	}
	return paymentToResponse(p), nil
}

func (s *paymentService) GetPayment(ctx context.Context, paymentId uuid.UUID) (*dto.PaymentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	p, err := uow.PaymentRepository().FindOne(ctx, specification.ByID{ID: paymentId})
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, &ledger.NotFoundError{Entity: "payment", ID: paymentId.String()}
	}
	return paymentToResponse(p), nil
}

// HandleNotification settles asynchronous payment methods. The
// gateway signs each delivery with
// SHA512(order_id + status_code + gross_amount + server_key); anything
// that fails the check is dropped before touching the ledger.
func (s *paymentService) HandleNotification(ctx context.Context, req *dto.MidtransWebhookRequest) error {
	if s.webhookSignKey == "" {
		return fmt.Errorf("webhook signing key not configured")
	}

	signatureInput := req.OrderId + req.StatusCode + req.GrossAmount + s.webhookSignKey
	expectedSignature := fmt.Sprintf("%x", sha512.Sum512([]byte(signatureInput)))
	if subtle.ConstantTimeCompare([]byte(req.SignatureKey), []byte(expectedSignature)) != 1 {
		s.logger.Warn("WEBHOOK", "Signature mismatch, dropping notification", map[string]interface{}{
			"orderId": req.OrderId,
		})
		return fmt.Errorf("invalid signature")
	}

	// Gateways redeliver until they see a 200; suppress exact replays
	// so a retry storm doesn't re-drive the capture path.
	first, err := s.dedup.FirstDelivery(ctx, req.OrderId+":"+req.TransactionStatus)
	if err != nil {
		s.logger.Warn("WEBHOOK", "Dedup store unavailable, continuing", map[string]interface{}{
			"error": err.Error(),
		})
	}
	if !first {
		s.logger.Info("WEBHOOK", "Duplicate delivery ignored", map[string]interface{}{
			"orderId": req.OrderId,
			"status":  req.TransactionStatus,
		})
		return nil
	}

	paymentId, err := uuid.Parse(req.OrderId)
	if err != nil {
		return fmt.Errorf("invalid order id format")
	}

	switch req.TransactionStatus {
	case "capture", "settlement":
		uow := s.uowFactory.NewUnitOfWork(ctx)
		if _, err := s.processor.Capture(ctx, uow, paymentId); err != nil {
			// An InvalidStateError here means the payment already left
			// the capturable window (manual capture raced the webhook);
			// acknowledge so the gateway stops redelivering.
			var ise *ledger.InvalidStateError
			if errors.As(err, &ise) {
				s.logger.Info("WEBHOOK", "Payment no longer capturable, acknowledging", map[string]interface{}{
					"paymentId": paymentId.String(),
				})
				return nil
			}
			return err
		}
		return nil

	case "deny":
		return s.closeUnsettled(ctx, paymentId, entity.PaymentStatusFailed, req.TransactionStatus)

	case "cancel", "expire":
		return s.closeUnsettled(ctx, paymentId, entity.PaymentStatusCancelled, req.TransactionStatus)

	case "pending":
		return nil

	default:
		s.logger.Warn("WEBHOOK", "Unknown transaction status, no action taken", map[string]interface{}{
			"orderId": req.OrderId,
			"status":  req.TransactionStatus,
		})
		return nil
	}
}

// closeUnsettled terminates a still-capturable payment from a webhook
// verdict. Already-settled payments are left alone; a late "expire"
// after a successful capture must not claw back money.
func (s *paymentService) closeUnsettled(ctx context.Context, paymentId uuid.UUID, target entity.PaymentStatus, verdict string) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	moved, err := uow.PaymentRepository().UpdateStatusIf(ctx, paymentId,
		[]entity.PaymentStatus{entity.PaymentStatusPending, entity.PaymentStatusAuthorized},
		target, nil)
	if err != nil {
		return err
	}
	if moved {
		if err := uow.BillingTransactionRepository().UpdateStatusByEvent(ctx,
			entity.ReferenceTypePayment, paymentId, entity.TransactionTypePayment,
			entity.TransactionStatusFailed); err != nil {
			return err
		}
	}
	if err := uow.Commit(); err != nil {
		return err
	}

	if moved {
		s.logger.Info("WEBHOOK", "Payment closed by gateway verdict", map[string]interface{}{
			"paymentId": paymentId.String(),
			"verdict":   verdict,
			"status":    string(target),
		})
	}
	return nil
}

func paymentToResponse(p *entity.Payment) *dto.PaymentResponse {
	return &dto.PaymentResponse{
		Id:                 p.ID,
		ClientId:           p.ClientID,
		CoachId:            p.CoachID,
		AmountCents:        p.AmountCents,
		CoachEarningsCents: p.CoachEarningsCents,
		Status:             string(p.Status),
		PayoutId:           p.PayoutID,
		Description:        p.Description,
		CreatedAt:          p.CreatedAt,
		PaidAt:             p.PaidAt,
	}
}
