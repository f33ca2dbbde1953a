package controller

import (
	"github.com/gofiber/fiber/v2"

	"reversa-be/internal/dto"
	"reversa-be/internal/pkg/serverutils"
	"reversa-be/internal/service"
)

// IPublicController serves the unauthenticated portal: customers submit
// through a store's branded link and track by protocol code.
type IPublicController interface {
	RegisterRoutes(r fiber.Router)
	Submit(ctx *fiber.Ctx) error
	Track(ctx *fiber.Ctx) error
}

type publicController struct {
	submissionService service.ISubmissionService
}

func NewPublicController(submissionService service.ISubmissionService) IPublicController {
	return &publicController{
		submissionService: submissionService,
	}
}

func (c *publicController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/public/v1")
	h.Post(":slug/requests", c.Submit)
	h.Get(":slug/track/:protocol", c.Track)
}

func (c *publicController) Submit(ctx *fiber.Ctx) error {
	slug := ctx.Params("slug")

	var req dto.SubmissionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, rejection, err := c.submissionService.Submit(ctx.Context(), slug, &req)
	if err != nil {
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	}
	if rejection != nil {
		// An ineligible request is a valid outcome, not a failure. The
		// portal shows the reasons verbatim.
		return ctx.Status(fiber.StatusOK).JSON(serverutils.SuccessResponse("Solicitação fora da política", rejection))
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Solicitação criada", res))
}

func (c *publicController) Track(ctx *fiber.Ctx) error {
	slug := ctx.Params("slug")
	protocol := ctx.Params("protocol")

	res, err := c.submissionService.Track(ctx.Context(), slug, protocol)
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, "protocolo não encontrado")
	}

	return ctx.JSON(serverutils.SuccessResponse("Success track request", res))
}
