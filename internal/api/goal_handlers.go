package api

import (
	"hypersonic/internal/engine"
	"hypersonic/internal/models"

	"github.com/gofiber/fiber/v2"
)

func CreateGoalHandler(e *engine.Engine) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.CreateGoalRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		goal, err := e.AddGoal(req.Text)
		if err != nil {
			return engineError(err)
		}
		return c.Status(fiber.StatusCreated).JSON(goal)
	}
}

func ToggleGoalHandler(e *engine.Engine) fiber.Handler {
	return func(c *fiber.Ctx) error {
		goal, err := e.ToggleGoal(c.Params("id"))
		if err != nil {
			return engineError(err)
		}
		return c.JSON(goal)
	}
}
