package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/xDerniexD/nuzlocke-tracker/internal/auth"
)

// AddLegendaryRequest records one rare-encounter ledger entry. A zero
// species id records a generic tally entry.
type AddLegendaryRequest struct {
	SpeciesID int    `json:"species_id"`
	PlayerID  string `json:"player_id"`
	Method    string `json:"method,omitempty"`
}

// AddLegendary appends a ledger entry.
// POST /v1/runs/:run_id/legendary
func (h *Handler) AddLegendary(c echo.Context) error {
	ctx := c.Request().Context()

	var req AddLegendaryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	playerID := req.PlayerID
	if playerID == "" {
		playerID = auth.UserID(c)
	}

	entries, err := h.service.AddLegendary(ctx, c.Param("run_id"), req.SpeciesID, playerID, req.Method, auth.UserID(c))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"legendary_encounters": entries,
	})
}

// RemoveLegendary deletes one ledger entry by id.
// DELETE /v1/runs/:run_id/legendary/:entry_id
func (h *Handler) RemoveLegendary(c echo.Context) error {
	ctx := c.Request().Context()

	entries, err := h.service.RemoveLegendary(ctx, c.Param("run_id"), c.Param("entry_id"), auth.UserID(c))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"legendary_encounters": entries,
	})
}

// RemoveGenericLegendary deletes the player's most recent generic entry.
// DELETE /v1/runs/:run_id/legendary/generic/:player_id
func (h *Handler) RemoveGenericLegendary(c echo.Context) error {
	ctx := c.Request().Context()

	entries, err := h.service.RemoveGenericLegendary(ctx, c.Param("run_id"), c.Param("player_id"), auth.UserID(c))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"legendary_encounters": entries,
	})
}
