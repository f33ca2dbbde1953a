package controller

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"reversa-be/internal/pkg/serverutils"
	"reversa-be/internal/service"
)

type IDashboardController interface {
	RegisterRoutes(r fiber.Router)
	Get(ctx *fiber.Ctx) error
}

type dashboardController struct {
	dashboardService service.IDashboardService
}

func NewDashboardController(dashboardService service.IDashboardService) IDashboardController {
	return &dashboardController{
		dashboardService: dashboardService,
	}
}

func (c *dashboardController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/dashboard/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Get("", c.Get)
}

func (c *dashboardController) Get(ctx *fiber.Ctx) error {
	storeID, _, err := operatorScope(ctx)
	if err != nil {
		return err
	}

	start, err := time.Parse("2006-01-02", ctx.Query("period_start"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid period_start")
	}
	end, err := time.Parse("2006-01-02", ctx.Query("period_end"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid period_end")
	}

	res, err := c.dashboardService.GetDashboard(ctx.Context(), storeID, start, end)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get dashboard", res))
}
