package helper

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

// FromFiberError renders *fiber.Error with its own status; anything else is a 500
// whose detail stays in the log.
func FromFiberError(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return JsonError(c, fe.Code, fe.Message)
	}
	if fields, ok := ValidationMessages(err); ok {
		return JsonValidationError(c, fields)
	}

	log.WithFields(log.Fields{
		"request_id": requestID(c),
		"method":     c.Method(),
		"path":       c.Path(),
	}).WithError(err).Error("unhandled error")
	return JsonError(c, fiber.StatusInternalServerError, "internal server error")
}

// ErrorHandler plugs FromFiberError into fiber.Config.
func ErrorHandler(c *fiber.Ctx, err error) error {
	return FromFiberError(c, err)
}
