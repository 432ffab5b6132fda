package service

import (
	"context"
	"encoding/json"
	"strings"

	"coachpay-be/internal/pkg/logger"
	"coachpay-be/internal/pkg/mailer"
	"coachpay-be/internal/repository/specification"
	"coachpay-be/internal/repository/unitofwork"
	"coachpay-be/pkg/events"
	pkgNats "coachpay-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

// emailJob is the in-process message between the event relay and the
// email worker.
type emailJob struct {
	EventType string                 `json:"event_type"`
	Data      map[string]interface{} `json:"data"`
}

type IConsumerService interface {
	// Start subscribes the relay to the event bus; Consume runs the
	// email worker on the in-process queue.
	Start() error
	Consume(ctx context.Context) error
}

// consumerService turns terminal ledger events into client/coach
// emails. The NATS side is the durable at-least-once feed; the
// watermill channel decouples the mail round trips from the event
// consumer so a slow SMTP server never backs up the bus.
type consumerService struct {
	pubSub       *gochannel.GoChannel
	topicName    string
	natsSub      *pkgNats.Subscriber
	uowFactory   unitofwork.RepositoryFactory
	emailService mailer.IEmailService
	logger       logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	natsSub *pkgNats.Subscriber,
	uowFactory unitofwork.RepositoryFactory,
	emailService mailer.IEmailService,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:       pubSub,
		topicName:    topicName,
		natsSub:      natsSub,
		uowFactory:   uowFactory,
		emailService: emailService,
		logger:       log,
	}
}

func (cs *consumerService) Start() error {
	if cs.natsSub == nil {
		cs.logger.Warn("EMAIL_WORKER", "No NATS subscriber, email notifications disabled", nil)
		return nil
	}
	return cs.natsSub.Subscribe("ledger.>", "email-worker", cs.relay)
}

// relay forwards a ledger event into the worker queue. Only event
// types with an email template are forwarded.
func (cs *consumerService) relay(ctx context.Context, event events.Event) error {
	eventType := strings.TrimPrefix(event.EventType(), "ledger.")

	switch eventType {
	case "REFUND_COMPLETED", "REFUND_REJECTED", "PAYOUT_PROCESSED":
	default:
		return nil
	}

	job := emailJob{EventType: eventType, Data: event.Payload()}
	payload, err := json.Marshal(job)
	if err != nil {
		return err
	}

	return cs.pubSub.Publish(cs.topicName, message.NewMessage(watermill.NewUUID(), payload))
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var job emailJob
	if err := json.Unmarshal(msg.Payload, &job); err != nil {
		cs.logger.Error("EMAIL_WORKER", "Failed to unmarshal job, dropping", map[string]interface{}{
			"error": err.Error(),
		})
		msg.Ack() // malformed, retrying won't help
		return
	}

	var err error
	switch job.EventType {
	case "REFUND_COMPLETED":
		err = cs.sendRefundCompleted(ctx, job.Data)
	case "REFUND_REJECTED":
		err = cs.sendRefundRejected(ctx, job.Data)
	case "PAYOUT_PROCESSED":
		err = cs.sendPayoutProcessed(ctx, job.Data)
	}

	if err != nil {
		cs.logger.Error("EMAIL_WORKER", "Failed to send email, will retry", map[string]interface{}{
			"eventType": job.EventType,
			"error":     err.Error(),
		})
		msg.Nack()
		return
	}

	msg.Ack()
}

func (cs *consumerService) sendRefundCompleted(ctx context.Context, data map[string]interface{}) error {
	email, err := cs.lookupEmail(ctx, data, "client_id")
	if err != nil || email == "" {
		return err
	}
	return cs.emailService.SendRefundCompleted(email, asCents(data["amount_cents"]), asString(data["refund_request_id"]))
}

func (cs *consumerService) sendRefundRejected(ctx context.Context, data map[string]interface{}) error {
	email, err := cs.lookupEmail(ctx, data, "client_id")
	if err != nil || email == "" {
		return err
	}
	return cs.emailService.SendRefundRejected(email, asString(data["rejection_reason"]))
}

func (cs *consumerService) sendPayoutProcessed(ctx context.Context, data map[string]interface{}) error {
	email, err := cs.lookupEmail(ctx, data, "coach_id")
	if err != nil || email == "" {
		return err
	}
	return cs.emailService.SendPayoutProcessed(email, asCents(data["net_amount_cents"]), asString(data["payout_id"]))
}

// lookupEmail resolves the recipient from the event payload. A missing
// or unknown user is logged and skipped, not retried; the event itself
// was valid.
func (cs *consumerService) lookupEmail(ctx context.Context, data map[string]interface{}, key string) (string, error) {
	userId, err := uuid.Parse(asString(data[key]))
	if err != nil {
		cs.logger.Warn("EMAIL_WORKER", "Event payload missing recipient, skipping", map[string]interface{}{
			"key": key,
		})
		return "", nil
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return "", err
	}
	if user == nil || user.Email == "" {
		cs.logger.Warn("EMAIL_WORKER", "Recipient not found, skipping", map[string]interface{}{
			"userId": userId.String(),
		})
		return "", nil
	}
	return user.Email, nil
}

func asString(v interface{}) string {
	s, _ := v.(string)
	return s
}

// asCents reads a cent amount out of a decoded JSON payload, where
// numbers arrive as float64.
func asCents(v interface{}) int64 {
	f, _ := v.(float64)
	return int64(f)
}
