package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Spectate returns the read-only projection of a shared run. No user
// identity is required; the spectator id is the capability.
// GET /v1/spectate/:spectator_id
func (h *Handler) Spectate(c echo.Context) error {
	ctx := c.Request().Context()

	run, err := h.service.Spectate(ctx, c.Param("spectator_id"))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, run)
}
