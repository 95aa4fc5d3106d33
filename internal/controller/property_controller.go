// Controller for property catalog endpoints
package controller

import (
	"property-rental-be/internal/dto"
	"property-rental-be/internal/entity"
	"property-rental-be/internal/pkg/apperror"
	"property-rental-be/internal/pkg/serverutils"
	"property-rental-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type PropertyController interface {
	RegisterRoutes(api fiber.Router)
}

type propertyController struct {
	propertyService service.PropertyService
}

func NewPropertyController(propertyService service.PropertyService) PropertyController {
	return &propertyController{
		propertyService: propertyService,
	}
}

func (c *propertyController) RegisterRoutes(api fiber.Router) {
	// Readable by anyone, the projection depends on the caller
	api.Get("/properties", serverutils.OptionalJwtMiddleware, c.ListProperties)
	api.Get("/properties/:id", serverutils.OptionalJwtMiddleware, c.GetProperty)

	api.Post("/properties",
		serverutils.JwtMiddleware,
		serverutils.RequireRole(entity.UserRoleOwner, entity.UserRoleAdmin),
		c.CreateProperty,
	)
}

// ListProperties returns a page of public properties
// @Summary List properties
// @Tags Properties
// @Produce json
// @Param city query string false "City"
// @Param property_type query string false "apartment, house, villa or condo"
// @Param page query int false "Page, from 1"
// @Param limit query int false "Page size"
// @Success 200 {object} dto.PropertyPage
// @Router /api/properties [get]
func (c *propertyController) ListProperties(ctx *fiber.Ctx) error {
	var query dto.ListPropertiesQuery
	if err := ctx.QueryParser(&query); err != nil {
		return apperror.InvalidArgument("invalid query")
	}
	if err := serverutils.ValidateRequest(query); err != nil {
		return err
	}

	page, err := c.propertyService.ListProperties(ctx.UserContext(), serverutils.GetIdentity(ctx), &query)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Properties retrieved", page))
}

// GetProperty returns one property. A subscriber's first fetch spends one view.
// @Summary Get property detail
// @Tags Properties
// @Produce json
// @Param id path string true "Property ID"
// @Router /api/properties/{id} [get]
func (c *propertyController) GetProperty(ctx *fiber.Ctx) error {
	id, err := pathId(ctx, "id")
	if err != nil {
		return err
	}

	projection, err := c.propertyService.GetProperty(ctx.UserContext(), serverutils.GetIdentity(ctx), id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Property retrieved", projection))
}

func (c *propertyController) CreateProperty(ctx *fiber.Ctx) error {
	var req dto.CreatePropertyRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperror.InvalidArgument("invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.propertyService.CreateProperty(ctx.UserContext(), serverutils.GetIdentity(ctx), &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Property created", res))
}
