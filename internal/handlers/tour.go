package handlers

import (
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/ajithks-aufait/PWA-PTMS-sub000/internal/models"
	"github.com/ajithks-aufait/PWA-PTMS-sub000/internal/services"
)

// TourHandler serves tour lifecycle and cycle capture endpoints.
type TourHandler struct {
	inspections *services.InspectionService
	validate    *validator.Validate
}

// NewTourHandler creates a TourHandler over the inspection service.
func NewTourHandler(inspections *services.InspectionService) *TourHandler {
	return &TourHandler{
		inspections: inspections,
		validate:    validator.New(),
	}
}

// StartTour creates a new tour from the start-of-session form.
//
// Route: POST /api/tours
func (h *TourHandler) StartTour(c *fiber.Ctx) error {
	var form models.StartTourForm
	if err := c.BodyParser(&form); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.validate.Struct(form); err != nil {
		return fail(c, fiber.StatusUnprocessableEntity, err.Error())
	}

	tour, err := h.inspections.StartTour(c.Context(), form)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(tour)
}

// GetTour returns a tour with its pending-sync count.
//
// Route: GET /api/tours/:id
func (h *TourHandler) GetTour(c *fiber.Ctx) error {
	tour, pending, err := h.inspections.GetTour(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"tour":    tour,
		"pending": pending,
	})
}

// SaveCycle submits one cycle's evaluations for a category. The response
// reports whether the save reached the remote store or was staged offline.
//
// Route: POST /api/tours/:id/cycles/:cycle
func (h *TourHandler) SaveCycle(c *fiber.Ctx) error {
	cycleNo, err := strconv.Atoi(c.Params("cycle"))
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid cycle number")
	}

	var form models.SaveCycleForm
	if err := c.BodyParser(&form); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.validate.Struct(form); err != nil {
		return fail(c, fiber.StatusUnprocessableEntity, err.Error())
	}

	queued, err := h.inspections.SaveCycle(c.Context(), c.Params("id"), cycleNo, form)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"cycle":  cycleNo,
		"queued": queued,
	})
}

// CycleOverview returns the reconciled per-cycle state for one category.
//
// Route: GET /api/tours/:id/cycles?category=CBB+Evaluation
func (h *TourHandler) CycleOverview(c *fiber.Ctx) error {
	category := c.Query("category")
	if category == "" {
		return fail(c, fiber.StatusBadRequest, "category query parameter is required")
	}

	overview, err := h.inspections.CycleOverview(c.Context(), c.Params("id"), category)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(overview)
}

// Summary returns the tour's category score rows and the final PQI verdict.
//
// Route: GET /api/tours/:id/summary
func (h *TourHandler) Summary(c *fiber.Ctx) error {
	summary, err := h.inspections.Summary(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(summary)
}

// Pending returns the offline queue depth for the tour, shown in the UI as
// the pending-sync badge.
//
// Route: GET /api/tours/:id/pending
func (h *TourHandler) Pending(c *fiber.Ctx) error {
	_, pending, err := h.inspections.GetTour(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"pending": pending})
}

// CompleteTour stamps the tour complete; refused with 409 while any cycle of
// a scored category remains unsaved.
//
// Route: POST /api/tours/:id/complete
func (h *TourHandler) CompleteTour(c *fiber.Ctx) error {
	if err := h.inspections.CompleteTour(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"completed": true})
}
