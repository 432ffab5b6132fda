package controller

import (
	"coachpay-be/internal/dto"
	"coachpay-be/internal/pkg/serverutils"
	"coachpay-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IPayoutController interface {
	RegisterRoutes(r fiber.Router)
	GetEarnings(ctx *fiber.Ctx) error
	Create(ctx *fiber.Ctx) error
	Process(ctx *fiber.Ctx) error
	Get(ctx *fiber.Ctx) error
	GetMine(ctx *fiber.Ctx) error
}

type payoutController struct {
	service service.IPayoutService
}

func NewPayoutController(service service.IPayoutService) IPayoutController {
	return &payoutController{service: service}
}

func (c *payoutController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/payouts")
	h.Use(serverutils.JwtMiddleware)

	h.Get("/earnings", c.GetEarnings)
	h.Get("/mine", c.GetMine)

	h.Post("/", serverutils.AdminOnly, c.Create)
	h.Post("/:id/process", serverutils.AdminOnly, c.Process)

	h.Get("/:id", c.Get)
}

// GetEarnings shows a coach their claimable balance. Admins can read
// any coach's via ?coach_id=.
func (c *payoutController) GetEarnings(ctx *fiber.Ctx) error {
	coachId, err := tokenUserID(ctx)
	if err != nil {
		return err
	}

	if role, _ := ctx.Locals("role").(string); role == "admin" {
		if override := ctx.Query("coach_id"); override != "" {
			coachId, err = uuid.Parse(override)
			if err != nil {
				return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "invalid coach_id"))
			}
		}
	}

	res, err := c.service.GetPendingEarnings(ctx.Context(), coachId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Pending earnings", res))
}

func (c *payoutController) GetMine(ctx *fiber.Ctx) error {
	coachId, err := tokenUserID(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.GetCoachPayouts(ctx.Context(), coachId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Payouts", res))
}

func (c *payoutController) Create(ctx *fiber.Ctx) error {
	var req dto.CreatePayoutRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "invalid request body"))
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	res, err := c.service.CreatePayout(ctx.Context(), &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Payout created", res))
}

func (c *payoutController) Process(ctx *fiber.Ctx) error {
	payoutId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "invalid payout id"))
	}

	res, err := c.service.ProcessPayout(ctx.Context(), payoutId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Payout processed", res))
}

func (c *payoutController) Get(ctx *fiber.Ctx) error {
	payoutId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "invalid payout id"))
	}

	res, err := c.service.GetPayout(ctx.Context(), payoutId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Payout", res))
}
