package handlers

import (
	"errors"

	"contactpro/server/internal/addressbook"

	"github.com/gofiber/fiber/v2"
)

// Mailer delivers one HTML message to a recipient list
type Mailer interface {
	Send(recipients []string, subject, htmlBody string) error
}

var (
	book   *addressbook.Service
	mailer Mailer
)

// Init wires the address-book service and mail sender into the handlers
func Init(service *addressbook.Service, m Mailer) {
	book = service
	mailer = m
}

// respondServiceError maps the service error taxonomy onto HTTP statuses
func respondServiceError(c *fiber.Ctx, err error) error {
	var verr *addressbook.ValidationError
	switch {
	case errors.As(err, &verr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Validation failed",
			"fields":  verr.Fields,
		})
	case errors.Is(err, addressbook.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"error":   "Not found",
		})
	case errors.Is(err, addressbook.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"success": false,
			"error":   "The record was modified by someone else, reload and try again",
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Database error",
		})
	}
}
