// Controller for plan catalog endpoints
package controller

import (
	"property-rental-be/internal/dto"
	"property-rental-be/internal/entity"
	"property-rental-be/internal/pkg/apperror"
	"property-rental-be/internal/pkg/serverutils"
	"property-rental-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type PlanController interface {
	RegisterRoutes(api fiber.Router)
}

type planController struct {
	planService service.PlanService
}

func NewPlanController(planService service.PlanService) PlanController {
	return &planController{
		planService: planService,
	}
}

func (c *planController) RegisterRoutes(api fiber.Router) {
	// Public endpoints
	api.Get("/plans", c.ListPlans)
	api.Get("/plans/:id", c.GetPlan)

	// Admin endpoints
	adminOnly := serverutils.RequireRole(entity.UserRoleAdmin)
	api.Post("/plans", serverutils.JwtMiddleware, adminOnly, c.CreatePlan)
	api.Put("/plans/:id", serverutils.JwtMiddleware, adminOnly, c.UpdatePlan)
	api.Delete("/plans/:id", serverutils.JwtMiddleware, adminOnly, c.DeletePlan)
}

func pathId(ctx *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(ctx.Params(name))
	if err != nil {
		return uuid.Nil, apperror.InvalidArgument("invalid " + name)
	}
	return id, nil
}

// ListPlans returns the plan catalog
// @Summary List subscription plans
// @Tags Plans
// @Produce json
// @Param is_active query bool false "Only plans offered for sale"
// @Router /api/plans [get]
func (c *planController) ListPlans(ctx *fiber.Ctx) error {
	plans, err := c.planService.ListPlans(ctx.UserContext(), ctx.QueryBool("is_active", false))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Plans retrieved", plans))
}

func (c *planController) GetPlan(ctx *fiber.Ctx) error {
	id, err := pathId(ctx, "id")
	if err != nil {
		return err
	}
	plan, err := c.planService.GetPlan(ctx.UserContext(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Plan retrieved", plan))
}

func (c *planController) CreatePlan(ctx *fiber.Ctx) error {
	var req dto.CreatePlanRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperror.InvalidArgument("invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	plan, err := c.planService.CreatePlan(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Plan created", plan))
}

func (c *planController) UpdatePlan(ctx *fiber.Ctx) error {
	id, err := pathId(ctx, "id")
	if err != nil {
		return err
	}
	var req dto.UpdatePlanRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperror.InvalidArgument("invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	plan, err := c.planService.UpdatePlan(ctx.UserContext(), id, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Plan updated", plan))
}

func (c *planController) DeletePlan(ctx *fiber.Ctx) error {
	id, err := pathId(ctx, "id")
	if err != nil {
		return err
	}
	if err := c.planService.DeletePlan(ctx.UserContext(), id); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Plan deleted", nil))
}
