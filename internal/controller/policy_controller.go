package controller

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"

	"reversa-be/internal/dto"
	"reversa-be/internal/entity"
	"reversa-be/internal/pkg/serverutils"
	"reversa-be/internal/service"
)

type IPolicyController interface {
	RegisterRoutes(r fiber.Router)
	Show(ctx *fiber.Ctx) error
	Upsert(ctx *fiber.Ctx) error
}

type policyController struct {
	policyService service.IPolicyService
}

func NewPolicyController(policyService service.IPolicyService) IPolicyController {
	return &policyController{
		policyService: policyService,
	}
}

func (c *policyController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/policy/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Get(":link", c.Show)
	h.Put(":link", c.Upsert)
}

func parseLink(ctx *fiber.Ctx) (entity.LinkType, error) {
	link := entity.LinkType(ctx.Params("link"))
	if link != entity.LinkReturns && link != entity.LinkRefunds {
		return "", fiber.NewError(fiber.StatusBadRequest, "link must be returns or refunds")
	}
	return link, nil
}

func (c *policyController) Show(ctx *fiber.Ctx) error {
	storeID, _, err := operatorScope(ctx)
	if err != nil {
		return err
	}

	link, err := parseLink(ctx)
	if err != nil {
		return err
	}

	policy, err := c.policyService.Get(ctx.Context(), storeID, link)
	if err != nil {
		return err
	}
	if policy == nil {
		return fiber.NewError(fiber.StatusNotFound, "política não configurada")
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get policy", toPolicyResponse(policy)))
}

func (c *policyController) Upsert(ctx *fiber.Ctx) error {
	storeID, _, err := operatorScope(ctx)
	if err != nil {
		return err
	}

	link, err := parseLink(ctx)
	if err != nil {
		return err
	}

	var req dto.UpsertPolicyRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	policy, err := c.policyService.Upsert(ctx.Context(), storeID, link, &req)
	if err != nil {
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	}

	return ctx.JSON(serverutils.SuccessResponse("Success save policy", toPolicyResponse(policy)))
}

func toPolicyResponse(policy *entity.PolicyConfig) *dto.PolicyResponse {
	res := &dto.PolicyResponse{
		LinkType:         string(policy.LinkType),
		WindowDays:       policy.WindowDays,
		MinValue:         policy.MinValue,
		AutoApprove:      policy.AutoApprove,
		AutoApproveLimit: policy.AutoApproveLimit,
		RequirePhotos:    policy.RequirePhotos,
		Theming:          json.RawMessage(policy.Theming),
	}
	if fields, err := policy.ParseFormFields(); err == nil {
		for _, f := range fields {
			res.FormFields = append(res.FormFields, dto.PolicyFormField{
				Key: f.Key, Label: f.Label, Kind: f.Kind, Required: f.Required,
			})
		}
	}
	return res
}
