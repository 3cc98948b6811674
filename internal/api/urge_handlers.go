package api

import (
	"hypersonic/internal/engine"
	"hypersonic/internal/models"

	"github.com/gofiber/fiber/v2"
)

func ListUrgeTasksHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(models.UrgeTasks)
	}
}

func CompleteUrgeTaskHandler(e *engine.Engine) fiber.Handler {
	return func(c *fiber.Ctx) error {
		entry, err := e.CompleteUrgeTask(c.Params("id"))
		if err != nil {
			return engineError(err)
		}
		return c.JSON(entry)
	}
}
