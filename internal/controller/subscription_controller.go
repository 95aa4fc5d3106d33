// Controller for subscription (entitlement) endpoints
package controller

import (
	"property-rental-be/internal/dto"
	"property-rental-be/internal/entity"
	"property-rental-be/internal/pkg/apperror"
	"property-rental-be/internal/pkg/serverutils"
	"property-rental-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type SubscriptionController interface {
	RegisterRoutes(api fiber.Router)
}

type subscriptionController struct {
	subscriptionService service.SubscriptionService
}

func NewSubscriptionController(subscriptionService service.SubscriptionService) SubscriptionController {
	return &subscriptionController{
		subscriptionService: subscriptionService,
	}
}

func (c *subscriptionController) RegisterRoutes(api fiber.Router) {
	h := api.Group("/subscriptions")
	h.Use(serverutils.JwtMiddleware)

	h.Post("/subscribe", c.Subscribe)
	h.Get("/me", c.ListMine)
	h.Get("/active/:userId", c.GetActive)
	h.Post("/:id/use-view", c.UseView)
	h.Put("/:id/upgrade", c.Upgrade)
	h.Put("/:id/end", c.End)
	h.Get("/:id", c.Get)

	// Admin
	adminOnly := serverutils.RequireRole(entity.UserRoleAdmin)
	h.Post("/", adminOnly, c.Create)
	h.Get("/", adminOnly, c.List)
	h.Put("/:id", adminOnly, c.Update)
	h.Delete("/:id", adminOnly, c.Remove)
}

// Subscribe issues a new subscription from a plan
// @Summary Subscribe to a plan
// @Tags Subscriptions
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body dto.SubscribeRequest true "Plan to subscribe to"
// @Success 201 {object} dto.SubscriptionResponse
// @Router /api/subscriptions/subscribe [post]
func (c *subscriptionController) Subscribe(ctx *fiber.Ctx) error {
	var req dto.SubscribeRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperror.InvalidArgument("invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.subscriptionService.Subscribe(ctx.UserContext(), serverutils.GetIdentity(ctx), &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Subscription created", res))
}

func (c *subscriptionController) ListMine(ctx *fiber.Ctx) error {
	res, err := c.subscriptionService.ListMine(ctx.UserContext(), serverutils.GetIdentity(ctx))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Subscriptions retrieved", res))
}

// GetActive returns the subscription currently granting access, or null
// @Summary Get active subscription
// @Tags Subscriptions
// @Security BearerAuth
// @Produce json
// @Param userId path string true "User ID"
// @Router /api/subscriptions/active/{userId} [get]
func (c *subscriptionController) GetActive(ctx *fiber.Ctx) error {
	userId, err := pathId(ctx, "userId")
	if err != nil {
		return err
	}

	res, err := c.subscriptionService.GetActive(ctx.UserContext(), serverutils.GetIdentity(ctx), userId)
	if err != nil {
		return err
	}
	if res == nil {
		return ctx.JSON(serverutils.SuccessResponse[*dto.SubscriptionResponse]("No active subscription", nil))
	}
	return ctx.JSON(serverutils.SuccessResponse("Active subscription retrieved", res))
}

// UseView spends one view of the subscription on a property
// @Summary Use a property view
// @Tags Subscriptions
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Subscription ID"
// @Param body body dto.UseViewRequest true "Property to unlock"
// @Success 200 {object} dto.UseViewResponse
// @Failure 403 {object} serverutils.ErrorBody "Quota exhausted or inactive"
// @Failure 409 {object} serverutils.ErrorBody "Already viewed"
// @Router /api/subscriptions/{id}/use-view [post]
func (c *subscriptionController) UseView(ctx *fiber.Ctx) error {
	id, err := pathId(ctx, "id")
	if err != nil {
		return err
	}
	var req dto.UseViewRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperror.InvalidArgument("invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.subscriptionService.UseView(ctx.UserContext(), serverutils.GetIdentity(ctx), id, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("View recorded", res))
}

func (c *subscriptionController) Upgrade(ctx *fiber.Ctx) error {
	id, err := pathId(ctx, "id")
	if err != nil {
		return err
	}
	var req dto.UpgradeSubscriptionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperror.InvalidArgument("invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.subscriptionService.Upgrade(ctx.UserContext(), serverutils.GetIdentity(ctx), id, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Subscription upgraded", res))
}

func (c *subscriptionController) End(ctx *fiber.Ctx) error {
	id, err := pathId(ctx, "id")
	if err != nil {
		return err
	}
	res, err := c.subscriptionService.End(ctx.UserContext(), serverutils.GetIdentity(ctx), id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Subscription ended", res))
}

func (c *subscriptionController) Get(ctx *fiber.Ctx) error {
	id, err := pathId(ctx, "id")
	if err != nil {
		return err
	}
	res, err := c.subscriptionService.Get(ctx.UserContext(), serverutils.GetIdentity(ctx), id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Subscription retrieved", res))
}

func (c *subscriptionController) Create(ctx *fiber.Ctx) error {
	var req dto.CreateSubscriptionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperror.InvalidArgument("invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.subscriptionService.Create(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Subscription created", res))
}

func (c *subscriptionController) List(ctx *fiber.Ctx) error {
	res, err := c.subscriptionService.List(ctx.UserContext())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Subscriptions retrieved", res))
}

func (c *subscriptionController) Update(ctx *fiber.Ctx) error {
	id, err := pathId(ctx, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateSubscriptionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperror.InvalidArgument("invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.subscriptionService.Update(ctx.UserContext(), id, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Subscription updated", res))
}

func (c *subscriptionController) Remove(ctx *fiber.Ctx) error {
	id, err := pathId(ctx, "id")
	if err != nil {
		return err
	}
	if err := c.subscriptionService.Remove(ctx.UserContext(), id); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Subscription removed", nil))
}
