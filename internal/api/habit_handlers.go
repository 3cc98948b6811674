package api

import (
	"hypersonic/internal/engine"
	"hypersonic/internal/models"

	"github.com/gofiber/fiber/v2"
)

const (
	minDaysToFail = 1
	maxDaysToFail = 30
)

func CreateHabitHandler(e *engine.Engine) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.CreateHabitRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if req.DaysToFail == 0 {
			req.DaysToFail = engine.DefaultDaysToFail
		}
		if req.DaysToFail < minDaysToFail || req.DaysToFail > maxDaysToFail {
			return fiber.NewError(fiber.StatusBadRequest, "daysToFail must be between 1 and 30")
		}

		habit, err := e.AddHabit(req.Name, req.DaysToFail)
		if err != nil {
			return engineError(err)
		}
		return c.Status(fiber.StatusCreated).JSON(habit)
	}
}

func CompleteHabitHandler(e *engine.Engine) fiber.Handler {
	return func(c *fiber.Ctx) error {
		habit, err := e.CompleteHabit(c.Params("id"))
		if err != nil {
			return engineError(err)
		}
		return c.JSON(engine.HabitView{
			Habit:          habit,
			Mastered:       engine.IsMastered(habit),
			CompletedToday: habit.CompletedOn(e.Today()),
		})
	}
}

func DeleteHabitHandler(e *engine.Engine) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := e.RemoveHabit(c.Params("id")); err != nil {
			return engineError(err)
		}
		return c.JSON(fiber.Map{"success": true})
	}
}
