// handlers/respond.go
package handlers

import (
	"errors"

	"league-portal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/sirupsen/logrus"
)

const msgInvalidBody = "invalid request body"

// parseJSON decodes the raw body whatever the Content-Type says; the pages post
// JSON with fetch and do not always set the header.
func parseJSON(c *fiber.Ctx, v interface{}) error {
	if len(c.Body()) == 0 {
		return errors.New("empty body")
	}
	return c.App().Config().JSONDecoder(c.Body(), v)
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(services.Result{Success: false, Message: msgInvalidBody})
}

// statusFor maps a service error kind to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrDuplicateUser):
		return fiber.StatusConflict
	case errors.Is(err, services.ErrChallengeMismatch):
		return fiber.StatusUnauthorized
	case errors.Is(err, services.ErrDeliveryFailure):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusBadRequest
	}
}

// respondError writes a {success:false} document. Errors outside the service
// taxonomy are logged and hidden behind a 500.
func respondError(c *fiber.Ctx, log logrus.FieldLogger, err error) error {
	var se *services.Error
	if errors.As(err, &se) {
		return c.Status(statusFor(err)).JSON(services.Result{Success: false, Message: se.Message})
	}
	log.WithError(err).WithFields(logrus.Fields{"method": utils.CopyString(c.Method()), "path": utils.CopyString(c.Path())}).Error("Request failed")
	return c.Status(fiber.StatusInternalServerError).JSON(services.Result{Success: false, Message: "internal error"})
}
