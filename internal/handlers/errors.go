// Package handlers implements the HTTP surface of the plant tour station.
// Handlers translate transport concerns (parsing, validation, status codes)
// and delegate all behavior to the service layer.
package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/ajithks-aufait/PWA-PTMS-sub000/internal/normalize"
	"github.com/ajithks-aufait/PWA-PTMS-sub000/internal/repository"
	"github.com/ajithks-aufait/PWA-PTMS-sub000/internal/services"
)

// respondError converts a service error into a JSON error response. Every
// operation boundary funnels through here so nothing propagates uncaught.
func respondError(c *fiber.Ctx, err error) error {
	var validationErr *normalize.ValidationError
	var incompleteErr *services.IncompleteTourError

	switch {
	case errors.Is(err, repository.ErrTourNotFound):
		return fail(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrUnknownCategory),
		errors.Is(err, services.ErrInvalidCycle):
		return fail(c, fiber.StatusBadRequest, err.Error())
	case errors.As(err, &validationErr):
		return fail(c, fiber.StatusUnprocessableEntity, err.Error())
	case errors.As(err, &incompleteErr):
		return fail(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, services.ErrConfirmationRequired):
		return fail(c, fiber.StatusBadRequest, err.Error())
	default:
		return fail(c, fiber.StatusInternalServerError, "internal error")
	}
}

func fail(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"error": msg})
}
