package controller

import (
	"coachpay-be/internal/dto"
	"coachpay-be/internal/pkg/logger"
	"coachpay-be/internal/pkg/serverutils"
	"coachpay-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IPaymentController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	Get(ctx *fiber.Ctx) error
	Capture(ctx *fiber.Ctx) error
	Webhook(ctx *fiber.Ctx) error
}

type paymentController struct {
	service service.IPaymentService
	logger  logger.ILogger
}

func NewPaymentController(service service.IPaymentService, log logger.ILogger) IPaymentController {
	return &paymentController{service: service, logger: log}
}

func (c *paymentController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/payments")

	// Webhook is authenticated by signature, not by JWT.
	h.Post("/midtrans/notification", c.Webhook)

	h.Get("/:id", serverutils.JwtMiddleware, c.Get)
	h.Post("/", serverutils.JwtMiddleware, serverutils.AdminOnly, c.Create)
	h.Post("/:id/capture", serverutils.JwtMiddleware, serverutils.AdminOnly, c.Capture)
}

func (c *paymentController) Create(ctx *fiber.Ctx) error {
	var req dto.CreatePaymentRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "invalid request body"))
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	res, err := c.service.CreatePayment(ctx.Context(), &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Payment recorded", res))
}

func (c *paymentController) Get(ctx *fiber.Ctx) error {
	paymentId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "invalid payment id"))
	}

	res, err := c.service.GetPayment(ctx.Context(), paymentId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Payment", res))
}

func (c *paymentController) Capture(ctx *fiber.Ctx) error {
	paymentId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "invalid payment id"))
	}

	res, err := c.service.CapturePayment(ctx.Context(), paymentId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Payment captured", res))
}

func (c *paymentController) Webhook(ctx *fiber.Ctx) error {
	var req dto.MidtransWebhookRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.SendStatus(fiber.StatusBadRequest)
	}

	if err := c.service.HandleNotification(ctx.Context(), &req); err != nil {
		c.logger.Error("WEBHOOK", "Notification handling failed", map[string]interface{}{
			"orderId": req.OrderId,
			"error":   err.Error(),
		})
		// Non-200 makes the gateway redeliver later.
		return ctx.SendStatus(fiber.StatusInternalServerError)
	}
	return ctx.SendStatus(fiber.StatusOK)
}
