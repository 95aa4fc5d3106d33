package serverutils

import (
	"errors"

	"property-rental-be/internal/pkg/apperror"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware turns errors returned by handlers into the JSON
// error envelope.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}
		return WriteError(ctx, err)
	}
}

func WriteError(ctx *fiber.Ctx, err error) error {
	if appErr, ok := apperror.From(err); ok {
		status := appErr.Status()
		message := appErr.Message
		if appErr.Kind == apperror.KindInternal {
			message = "Internal server error"
		}
		return ctx.Status(status).JSON(ErrorResponseWithCode(status, message, string(appErr.Kind)))
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return ctx.Status(fiberErr.Code).JSON(ErrorResponse(fiberErr.Code, fiberErr.Message))
	}

	return ctx.Status(fiber.StatusInternalServerError).
		JSON(ErrorResponseWithCode(fiber.StatusInternalServerError, "Internal server error", string(apperror.KindInternal)))
}
