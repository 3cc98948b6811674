package api

import (
	"hypersonic/internal/logger"
	"hypersonic/internal/push"

	"github.com/gofiber/fiber/v2"
)

// VapidPublicKeyHandler returns the VAPID public key for client subscription
func VapidPublicKeyHandler(sender *push.Sender) fiber.Handler {
	return func(c *fiber.Ctx) error {
		publicKey := sender.PublicKey()
		if publicKey == "" {
			return fiber.NewError(fiber.StatusServiceUnavailable, "Push notifications not configured")
		}
		return c.JSON(fiber.Map{
			"publicKey": publicKey,
		})
	}
}

// SendPushHandler fans a notification out to every stored subscription.
func SendPushHandler(sender *push.Sender) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var payload push.Payload
		if len(c.Body()) > 0 {
			if err := c.BodyParser(&payload); err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
			}
		}

		sent, err := sender.Send(c.UserContext(), payload)
		if err != nil {
			logger.Error("Error sending push notifications", "error", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to send notifications")
		}

		return c.JSON(fiber.Map{"success": true, "sent": sent})
	}
}
