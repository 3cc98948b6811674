package api

import (
	"hypersonic/internal/push"

	"github.com/gofiber/fiber/v2"
)

type subscribeRequest struct {
	Endpoint string    `json:"endpoint"`
	Keys     push.Keys `json:"keys"`
}

func SubscribePushHandler(store *push.MemoryStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req subscribeRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid subscription data")
		}

		if req.Endpoint == "" || req.Keys.P256dh == "" || req.Keys.Auth == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid subscription data")
		}

		return c.JSON(store.Create(req.Endpoint, req.Keys))
	}
}

func UnsubscribePushHandler(store *push.MemoryStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body struct {
			Endpoint string `json:"endpoint"`
		}
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		return c.JSON(fiber.Map{"success": store.Delete(body.Endpoint)})
	}
}
