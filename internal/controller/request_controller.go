package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"reversa-be/internal/dto"
	"reversa-be/internal/pkg/serverutils"
	"reversa-be/internal/service"
)

type IRequestController interface {
	RegisterRoutes(r fiber.Router)
	List(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Advance(ctx *fiber.Ctx) error
	Approve(ctx *fiber.Ctx) error
	Reject(ctx *fiber.Ctx) error
	Revert(ctx *fiber.Ctx) error
}

type requestController struct {
	requestService service.IRequestService
}

func NewRequestController(requestService service.IRequestService) IRequestController {
	return &requestController{
		requestService: requestService,
	}
}

func (c *requestController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/request/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Get("", c.List)
	h.Get(":id", c.Show)
	h.Post(":id/advance", c.Advance)
	h.Post(":id/approve", c.Approve)
	h.Post(":id/reject", c.Reject)
	h.Post(":id/revert", c.Revert)
}

// operatorScope pulls the authenticated store and actor out of the token.
func operatorScope(ctx *fiber.Ctx) (storeID uuid.UUID, actorID *uuid.UUID, err error) {
	storeStr, _ := ctx.Locals("store_id").(string)
	storeID, err = uuid.Parse(storeStr)
	if err != nil {
		return uuid.Nil, nil, fiber.NewError(fiber.StatusUnauthorized, "token sem loja associada")
	}

	if userStr, ok := ctx.Locals("user_id").(string); ok {
		if uid, parseErr := uuid.Parse(userStr); parseErr == nil {
			actorID = &uid
		}
	}
	return storeID, actorID, nil
}

func (c *requestController) List(ctx *fiber.Ctx) error {
	storeID, _, err := operatorScope(ctx)
	if err != nil {
		return err
	}

	page := ctx.QueryInt("page", 1)
	limit := ctx.QueryInt("limit", 20)
	status := ctx.Query("status")
	reqType := ctx.Query("type")

	items, total, err := c.requestService.List(ctx.Context(), storeID, page, limit, status, reqType)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list requests", fiber.Map{
		"items": items,
		"total": total,
		"page":  page,
		"limit": limit,
	}))
}

func (c *requestController) Show(ctx *fiber.Ctx) error {
	storeID, _, err := operatorScope(ctx)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	res, err := c.requestService.Get(ctx.Context(), storeID, id)
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, "solicitação não encontrada")
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get request", res))
}

func (c *requestController) Advance(ctx *fiber.Ctx) error {
	storeID, actorID, err := operatorScope(ctx)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req dto.AdvanceRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.requestService.Advance(ctx.Context(), storeID, id, actorID, &req)
	if err != nil {
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	}

	return ctx.JSON(serverutils.SuccessResponse("Success advance request", res))
}

func (c *requestController) Approve(ctx *fiber.Ctx) error {
	storeID, actorID, err := operatorScope(ctx)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req dto.ApproveRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.requestService.Approve(ctx.Context(), storeID, id, actorID, &req)
	if err != nil {
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	}

	return ctx.JSON(serverutils.SuccessResponse("Success approve request", res))
}

func (c *requestController) Reject(ctx *fiber.Ctx) error {
	storeID, actorID, err := operatorScope(ctx)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req dto.RejectRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.requestService.Reject(ctx.Context(), storeID, id, actorID, &req)
	if err != nil {
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	}

	return ctx.JSON(serverutils.SuccessResponse("Success reject request", res))
}

func (c *requestController) Revert(ctx *fiber.Ctx) error {
	storeID, actorID, err := operatorScope(ctx)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req dto.RevertRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.requestService.Revert(ctx.Context(), storeID, id, actorID, &req)
	if err != nil {
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	}

	return ctx.JSON(serverutils.SuccessResponse("Success revert request", res))
}
