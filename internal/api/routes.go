package api

import (
	"hypersonic/internal/clock"
	"hypersonic/internal/config"
	"hypersonic/internal/engine"
	"hypersonic/internal/push"

	"github.com/gofiber/fiber/v2"
)

// Services are the collaborators the handlers work against.
type Services struct {
	Engine        *engine.Engine
	Clock         *clock.Clock
	Subscriptions *push.MemoryStore
	Sender        *push.Sender
	App           config.App
}

func SetupRoutes(app *fiber.App, svc Services) {
	api := app.Group("/api")

	api.Get("/config", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"name":        svc.App.Name,
			"description": svc.App.Description,
		})
	})
	api.Get("/clock", ClockHandler(svc.Clock))

	// Dashboard state
	api.Get("/state", StateHandler(svc.Engine))
	api.Post("/reset", ResetHandler(svc.Engine))
	api.Get("/activity", ActivityHandler(svc.Engine))

	goals := api.Group("/goals")
	goals.Post("/", CreateGoalHandler(svc.Engine))
	goals.Put("/:id/toggle", ToggleGoalHandler(svc.Engine))

	habits := api.Group("/habits")
	habits.Post("/", CreateHabitHandler(svc.Engine))
	habits.Post("/:id/complete", CompleteHabitHandler(svc.Engine))
	habits.Delete("/:id", DeleteHabitHandler(svc.Engine))

	urge := api.Group("/urge-tasks")
	urge.Get("/", ListUrgeTasksHandler())
	urge.Post("/:id/complete", CompleteUrgeTaskHandler(svc.Engine))

	// Push relay
	pushRoutes := api.Group("/push")
	pushRoutes.Get("/vapid-public-key", VapidPublicKeyHandler(svc.Sender))
	pushRoutes.Post("/subscribe", SubscribePushHandler(svc.Subscriptions))
	pushRoutes.Post("/send", SendPushHandler(svc.Sender))
	pushRoutes.Delete("/unsubscribe", UnsubscribePushHandler(svc.Subscriptions))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
}
