package api

import (
	"errors"

	"hypersonic/internal/engine"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandler renders every error as {"error": message}.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}
	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
	})
}

// engineError maps engine sentinels onto HTTP errors.
func engineError(err error) error {
	switch {
	case errors.Is(err, engine.ErrEmptyText):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, engine.ErrGoalNotFound),
		errors.Is(err, engine.ErrHabitNotFound),
		errors.Is(err, engine.ErrUrgeTaskNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	default:
		return err
	}
}
