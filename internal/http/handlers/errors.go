package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	applog "storefront/internal/log"
	"storefront/internal/services"
	"storefront/internal/validate"
)

const genericError = "Something went wrong. Please try again."

// ErrorHandler is the app-wide fiber error handler. Client errors keep their
// status and message; anything else is logged and answered with a generic 500.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) && fe.Code < fiber.StatusInternalServerError {
		return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
	}
	c.Status(fiber.StatusInternalServerError)
	applog.Error(c, "server.error", err, nil)
	return c.JSON(fiber.Map{"error": genericError})
}

// fail maps a service error to its HTTP status. Unknown errors are logged and
// answered with the generic message.
func fail(c *fiber.Ctx, action string, err error, fields map[string]any) error {
	switch {
	case errors.Is(err, services.ErrNotFound):
		applog.Info(c, action+".not_found", fields)
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	case errors.Is(err, services.ErrDuplicate):
		applog.Info(c, action+".duplicate", fields)
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrValidation):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	c.Status(fiber.StatusInternalServerError)
	applog.Error(c, action+".fail", err, fields)
	return c.JSON(fiber.Map{"error": genericError})
}

// bind parses the JSON body into dst and runs its validate tags. When ok is
// false the 400 response has already been written.
func bind(c *fiber.Ctx, action string, dst any) (ok bool, err error) {
	if err := c.BodyParser(dst); err != nil {
		applog.Security(c, "validation.fail", map[string]any{"action": action, "reason": "bad_body"})
		return false, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "malformed request body"})
	}
	if errs := validate.Struct(dst); errs != nil {
		applog.Security(c, "validation.fail", map[string]any{"action": action, "fields": errs})
		return false, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": services.ErrValidation.Error(), "fields": errs})
	}
	return true, nil
}

func badParam(c *fiber.Ctx, field string) error {
	applog.Security(c, "validation.fail", map[string]any{"field": field})
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid " + field})
}
