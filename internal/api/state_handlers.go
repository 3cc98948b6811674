package api

import (
	"fmt"
	"time"

	"hypersonic/internal/clock"
	"hypersonic/internal/engine"

	"github.com/gofiber/fiber/v2"
)

func StateHandler(e *engine.Engine) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(e.Snapshot())
	}
}

// ResetHandler clears today's goal completions on demand.
func ResetHandler(e *engine.Engine) fiber.Handler {
	return func(c *fiber.Ctx) error {
		e.ResetNow()
		return c.JSON(e.Snapshot())
	}
}

func ClockHandler(clk *clock.Clock) fiber.Handler {
	return func(c *fiber.Ctx) error {
		now := clk.Now()
		hours, minutes := clk.TimeUntilMidnight()
		return c.JSON(fiber.Map{
			"today":             clk.Today(),
			"time":              now.Format("03:04 PM"),
			"date":              now.Format("Monday, January 2, 2006"),
			"hoursUntilReset":   hours,
			"minutesUntilReset": minutes,
		})
	}
}

// ActivityHandler returns one month of the activity calendar. The month
// query parameter is YYYY-MM and defaults to the current civil month.
func ActivityHandler(e *engine.Engine) fiber.Handler {
	return func(c *fiber.Ctx) error {
		today := e.Today()
		month := c.Query("month", today[:7])

		first, err := time.ParseInLocation("2006-01", month, clock.Zone)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("Invalid month %q, expected YYYY-MM", month))
		}

		data := e.Data()
		return c.JSON(fiber.Map{
			"month":           month,
			"today":           today,
			"entries":         engine.MonthActivity(data.ActivityLog, first.Year(), first.Month()),
			"daysLeftInMonth": engine.DaysLeftInMonth(today),
			"streak":          engine.OverallStreak(data.ActivityLog, today),
		})
	}
}
