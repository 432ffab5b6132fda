package controller

import (
	"coachpay-be/internal/dto"
	"coachpay-be/internal/pkg/serverutils"
	"coachpay-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IRefundController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	GetMine(ctx *fiber.Ctx) error
	Get(ctx *fiber.Ctx) error
	Cancel(ctx *fiber.Ctx) error
	GetAll(ctx *fiber.Ctx) error
	Review(ctx *fiber.Ctx) error
	Retry(ctx *fiber.Ctx) error
}

type refundController struct {
	service service.IRefundService
}

func NewRefundController(service service.IRefundService) IRefundController {
	return &refundController{service: service}
}

func (c *refundController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/refunds")
	h.Use(serverutils.JwtMiddleware)

	h.Post("/", c.Create)
	h.Get("/mine", c.GetMine)

	// Admin surface
	h.Get("/", serverutils.AdminOnly, c.GetAll)
	h.Post("/:id/review", serverutils.AdminOnly, c.Review)
	h.Post("/:id/retry", serverutils.AdminOnly, c.Retry)

	h.Get("/:id", c.Get)
	h.Post("/:id/cancel", c.Cancel)
}

func (c *refundController) Create(ctx *fiber.Ctx) error {
	var req dto.CreateRefundRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "invalid request body"))
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	userId, err := tokenUserID(ctx)
	if err != nil {
		return err
	}
	role, _ := ctx.Locals("role").(string)

	res, err := c.service.CreateRefundRequest(ctx.Context(), userId, role, &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Refund request created", res))
}

func (c *refundController) GetMine(ctx *fiber.Ctx) error {
	userId, err := tokenUserID(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.GetMyRefundRequests(ctx.Context(), userId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Refund requests", res))
}

func (c *refundController) Get(ctx *fiber.Ctx) error {
	requestId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "invalid refund request id"))
	}

	res, err := c.service.GetRefundRequest(ctx.Context(), requestId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Refund request", res))
}

func (c *refundController) Cancel(ctx *fiber.Ctx) error {
	requestId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "invalid refund request id"))
	}

	userId, err := tokenUserID(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.CancelRefundRequest(ctx.Context(), requestId, userId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Refund request cancelled", res))
}

func (c *refundController) GetAll(ctx *fiber.Ctx) error {
	page := ctx.QueryInt("page", 1)
	limit := ctx.QueryInt("limit", 10)
	status := ctx.Query("status")

	res, err := c.service.GetAllRefundRequests(ctx.Context(), page, limit, status)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Refund requests", res))
}

func (c *refundController) Review(ctx *fiber.Ctx) error {
	requestId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "invalid refund request id"))
	}

	var req dto.ReviewRefundRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "invalid request body"))
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	reviewerId, err := tokenUserID(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.ReviewRefundRequest(ctx.Context(), requestId, reviewerId, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Refund request reviewed", res))
}

func (c *refundController) Retry(ctx *fiber.Ctx) error {
	requestId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "invalid refund request id"))
	}

	res, err := c.service.RetryRefund(ctx.Context(), requestId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Refund retried", res))
}

// tokenUserID reads the authenticated user's id out of the JWT claims.
func tokenUserID(ctx *fiber.Ctx) (uuid.UUID, error) {
	userIdStr, _ := ctx.Locals("user_id").(string)
	userId, err := uuid.Parse(userIdStr)
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "invalid user id in token")
	}
	return userId, nil
}
