package bootstrap

import (
	"context"
	"log"
	"time"

	"coachpay-be/internal/config"
	"coachpay-be/internal/controller"
	"coachpay-be/internal/handler"
	"coachpay-be/internal/pkg/logger"
	"coachpay-be/internal/pkg/mailer"
	"coachpay-be/internal/repository/implementation"
	"coachpay-be/internal/repository/unitofwork"
	"coachpay-be/internal/service"
	"coachpay-be/internal/websocket"
	"coachpay-be/pkg/gateway"
	mtgateway "coachpay-be/pkg/gateway/midtrans"
	"coachpay-be/pkg/ledger/credit"
	ledgerEvents "coachpay-be/pkg/ledger/events"
	"coachpay-be/pkg/ledger/payment"
	"coachpay-be/pkg/ledger/payout"
	"coachpay-be/pkg/ledger/reconcile"
	"coachpay-be/pkg/ledger/refund"
	"coachpay-be/pkg/store"

	pktNats "coachpay-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const emailTopic = "ledger_email_events"

type Container struct {
	// Controllers
	PaymentController controller.IPaymentController
	RefundController  controller.IRefundController
	PayoutController  controller.IPayoutController
	CreditController  controller.ICreditController
	AdminController   controller.IAdminController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// WebSockets & Notification
	NotificationHandler *handler.NotificationHandler
	WebSocketHub        *websocket.Hub
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
	)

	// 2. Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}

	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	// In-process queue for the email worker
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/notification.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// 3. Ledger Engine
	var gw gateway.Gateway = mtgateway.NewProvider(
		cfg.Gateway.ServerKey,
		cfg.Gateway.IrisKey,
		cfg.Gateway.Production,
	)

	eventPublisher := ledgerEvents.NewNatsPublisher(natsPub, sysLogger)
	creditApplier := credit.NewApplier(sysLogger, eventPublisher)
	paymentProcessor := payment.NewProcessor(gw, sysLogger, eventPublisher)
	refundProcessor := refund.NewProcessor(gw, creditApplier, sysLogger, eventPublisher)
	payoutProcessor := payout.NewProcessor(gw, payout.FeePolicy{
		FlatCents:  cfg.Payout.FeeFlatCents,
		PercentBps: cfg.Payout.FeePercentBps,
	}, sysLogger, eventPublisher)
	integrityChecker := reconcile.NewChecker(sysLogger)

	// 4. Services
	dedup := store.NewDedupStore(rdb, 24*time.Hour)

	paymentService := service.NewPaymentService(uowFactory, paymentProcessor, dedup, cfg.Gateway.WebhookSignKey, sysLogger)
	refundService := service.NewRefundService(uowFactory, refundProcessor)
	payoutService := service.NewPayoutService(uowFactory, payoutProcessor, cfg.Payout.DefaultMethod,
		time.Duration(cfg.Payout.EarningsTTLSec)*time.Second)
	creditService := service.NewCreditService(uowFactory)
	reconcileService := service.NewReconcileService(uowFactory, integrityChecker)

	consumerService := service.NewConsumerService(
		pubSub,
		emailTopic,
		natsSub,
		uowFactory,
		emailService,
		sysLogger,
	)

	// 5. Notification System
	notifRepo := implementation.NewNotificationRepository(db)
	notifService := service.NewNotificationService(notifRepo, natsSub, wsHub, wsLogger)

	// Start Service (Worker)
	if natsSub != nil {
		go notifService.Start()
	}

	notifHandler := handler.NewNotificationHandler(notifService, wsHub, wsLogger)

	// 6. Controllers
	return &Container{
		NotificationHandler: notifHandler,
		WebSocketHub:        wsHub,
		PaymentController:   controller.NewPaymentController(paymentService, sysLogger),
		RefundController:    controller.NewRefundController(refundService),
		PayoutController:    controller.NewPayoutController(payoutService),
		CreditController:    controller.NewCreditController(creditService),
		AdminController:     controller.NewAdminController(reconcileService, sysLogger),

		ConsumerService: consumerService,
	}
}
