package controller

import (
	"coachpay-be/internal/pkg/serverutils"
	"coachpay-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ICreditController interface {
	RegisterRoutes(r fiber.Router)
	GetBalance(ctx *fiber.Ctx) error
	GetTransactions(ctx *fiber.Ctx) error
}

type creditController struct {
	service service.ICreditService
}

func NewCreditController(service service.ICreditService) ICreditController {
	return &creditController{service: service}
}

func (c *creditController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/credits")
	h.Use(serverutils.JwtMiddleware)

	h.Get("/balance", c.GetBalance)
	h.Get("/transactions", c.GetTransactions)
}

func (c *creditController) GetBalance(ctx *fiber.Ctx) error {
	userId, err := tokenUserID(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.GetBalance(ctx.Context(), userId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Credit balance", res))
}

func (c *creditController) GetTransactions(ctx *fiber.Ctx) error {
	userId, err := tokenUserID(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.GetTransactions(ctx.Context(), userId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Credit transactions", res))
}
