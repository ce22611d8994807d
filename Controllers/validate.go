package Controllers

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// validationError maps a validator failure to the standard 400 payload.
func validationError(ctx *fiber.Ctx, err error) error {
	return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error":   "Validation failed",
		"message": err.Error(),
	})
}

// parseDate accepts dates as YYYY-MM-DD.
func parseDate(value string) (time.Time, error) {
	return time.Parse("2006-01-02", value)
}
