package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ajithks-aufait/PWA-PTMS-sub000/internal/services"
)

// SyncHandler serves the offline queue endpoints: manual sync, the pending
// badge, entering offline capture, and the confirmed cancel.
type SyncHandler struct {
	sync *services.SyncService
}

// NewSyncHandler creates a SyncHandler over the sync service.
func NewSyncHandler(sync *services.SyncService) *SyncHandler {
	return &SyncHandler{sync: sync}
}

// Sync replays the tour's offline queue. Always user-triggered; there is no
// background retry.
//
// Route: POST /api/tours/:id/sync
func (h *SyncHandler) Sync(c *fiber.Ctx) error {
	result, err := h.sync.Sync(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}

// EnterOffline explicitly switches the tour to offline capture mode.
//
// Route: POST /api/tours/:id/offline
func (h *SyncHandler) EnterOffline(c *fiber.Ctx) error {
	if err := h.sync.EnterOffline(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"offline": true})
}

// Cancel discards the tour's queued offline data. Irreversible, so it
// requires ?confirm=true; anything else is refused.
//
// Route: DELETE /api/tours/:id/queue?confirm=true
func (h *SyncHandler) Cancel(c *fiber.Ctx) error {
	confirm := c.Query("confirm") == "true"
	if err := h.sync.Cancel(c.Context(), c.Params("id"), confirm); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"cancelled": true})
}
