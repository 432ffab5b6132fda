package controller

import (
	"coachpay-be/internal/pkg/logger"
	"coachpay-be/internal/pkg/serverutils"
	"coachpay-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAdminController interface {
	RegisterRoutes(r fiber.Router)
	IntegrityCheck(ctx *fiber.Ctx) error
	GetLogs(ctx *fiber.Ctx) error
	GetLogById(ctx *fiber.Ctx) error
}

type adminController struct {
	reconcile service.IReconcileService
	logger    logger.ILogger
}

func NewAdminController(reconcile service.IReconcileService, log logger.ILogger) IAdminController {
	return &adminController{reconcile: reconcile, logger: log}
}

func (c *adminController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/admin")
	h.Use(serverutils.JwtMiddleware)
	h.Use(serverutils.AdminOnly)

	h.Get("/integrity-check", c.IntegrityCheck)
	h.Get("/logs", c.GetLogs)
	h.Get("/logs/:id", c.GetLogById)
}

func (c *adminController) IntegrityCheck(ctx *fiber.Ctx) error {
	report, err := c.reconcile.RunIntegrityCheck(ctx.Context())
	if err != nil {
		return err
	}

	message := "Ledger is consistent"
	if !report.Clean() {
		message = "Ledger violations found"
	}
	return ctx.JSON(serverutils.SuccessResponse(message, report))
}

func (c *adminController) GetLogs(ctx *fiber.Ctx) error {
	level := ctx.Query("level")
	limit := ctx.QueryInt("limit", 50)
	offset := ctx.QueryInt("offset", 0)

	logs, err := c.logger.GetLogs(level, limit, offset)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Logs", logs))
}

func (c *adminController) GetLogById(ctx *fiber.Ctx) error {
	entry, err := c.logger.GetLogById(ctx.Params("id"))
	if err != nil {
		return err
	}
	if entry == nil {
		return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, "log entry not found"))
	}
	return ctx.JSON(serverutils.SuccessResponse("Log entry", entry))
}
