package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"reversa-be/internal/dto"
	"reversa-be/internal/pkg/serverutils"
	"reversa-be/internal/service"
	"reversa-be/pkg/syncjob"
)

type ISyncController interface {
	RegisterRoutes(r fiber.Router)
	Start(ctx *fiber.Ctx) error
	Latest(ctx *fiber.Ctx) error
	Callback(ctx *fiber.Ctx) error
}

type syncController struct {
	syncService      service.ISyncService
	dashboardService service.IDashboardService
}

func NewSyncController(syncService service.ISyncService, dashboardService service.IDashboardService) ISyncController {
	return &syncController{
		syncService:      syncService,
		dashboardService: dashboardService,
	}
}

func (c *syncController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/sync/v1")

	// Provider webhook; authenticated by correlation id, not by operator
	// session.
	h.Post("callback", c.Callback)

	h.Use(serverutils.JwtMiddleware)
	h.Post("start", c.Start)
	h.Get("latest", c.Latest)
}

func (c *syncController) Start(ctx *fiber.Ctx) error {
	storeID, _, err := operatorScope(ctx)
	if err != nil {
		return err
	}

	var req dto.StartSyncRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.syncService.StartSync(ctx.Context(), storeID, &req)
	if err != nil {
		var domainErr *syncjob.DomainError
		if errors.As(err, &domainErr) {
			return ctx.Status(fiber.StatusConflict).JSON(serverutils.ErrorResponse(fiber.StatusConflict, domainErr.Message))
		}
		return err
	}

	// Flip the live indicator before the first record change lands.
	c.dashboardService.MarkSyncing(storeID)

	return ctx.Status(fiber.StatusAccepted).JSON(serverutils.SuccessResponse("Sincronização iniciada", res))
}

func (c *syncController) Latest(ctx *fiber.Ctx) error {
	storeID, _, err := operatorScope(ctx)
	if err != nil {
		return err
	}

	res, err := c.syncService.LatestJob(ctx.Context(), storeID)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get latest sync job", res))
}

func (c *syncController) Callback(ctx *fiber.Ctx) error {
	var req dto.SyncCallbackRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.syncService.HandleCallback(ctx.Context(), &req); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Callback processed", nil))
}
