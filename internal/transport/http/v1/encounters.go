package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/xDerniexD/nuzlocke-tracker/internal/auth"
	"github.com/xDerniexD/nuzlocke-tracker/internal/domain"
	"github.com/xDerniexD/nuzlocke-tracker/internal/service"
)

// UpdateEncounter mutates one player half of an encounter slot.
// PUT /v1/runs/:run_id/encounters/:slot_id
func (h *Handler) UpdateEncounter(c echo.Context) error {
	ctx := c.Request().Context()

	var req service.EncounterUpdate
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	enc, err := h.service.UpdateEncounter(ctx, c.Param("run_id"), c.Param("slot_id"), req, auth.UserID(c))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, enc)
}

// ClearEncounterRequest selects which half to reset. Player 0 clears
// both halves.
type ClearEncounterRequest struct {
	Player int `json:"player"`
}

// ClearEncounter resets a slot to its untouched state.
// POST /v1/runs/:run_id/encounters/:slot_id/clear
func (h *Handler) ClearEncounter(c echo.Context) error {
	ctx := c.Request().Context()

	var req ClearEncounterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	enc, err := h.service.ClearEncounter(ctx, c.Param("run_id"), c.Param("slot_id"), req.Player, auth.UserID(c))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, enc)
}

// EvolveEncounterRequest selects which half to evolve.
type EvolveEncounterRequest struct {
	Player int `json:"player"`
}

// EvolveEncounter advances a half's species to its next evolution
// stage.
// POST /v1/runs/:run_id/encounters/:slot_id/evolve
func (h *Handler) EvolveEncounter(c echo.Context) error {
	ctx := c.Request().Context()

	var req EvolveEncounterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	enc, err := h.service.Evolve(ctx, c.Param("run_id"), c.Param("slot_id"), req.Player, auth.UserID(c))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, enc)
}

// ReorderRequest carries the new sequence assignments.
type ReorderRequest struct {
	Items []service.ReorderItem `json:"items"`
}

// Reorder rewrites sequence numbers for the named slots.
// PUT /v1/runs/:run_id/reorder
func (h *Handler) Reorder(c echo.Context) error {
	ctx := c.Request().Context()

	var req ReorderRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	encounters, err := h.service.Reorder(ctx, c.Param("run_id"), req.Items, auth.UserID(c))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"encounters": encounters,
	})
}

// ReplaceTeamRequest is the full ordered team list.
type ReplaceTeamRequest struct {
	Team []string `json:"team"`
}

// ReplaceTeam swaps the active team membership.
// PUT /v1/runs/:run_id/team
func (h *Handler) ReplaceTeam(c echo.Context) error {
	ctx := c.Request().Context()

	var req ReplaceTeamRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	if err := h.service.ReplaceTeam(ctx, c.Param("run_id"), req.Team, auth.UserID(c)); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]bool{"ok": true})
}

// ReplaceRules swaps the run's rule configuration.
// PUT /v1/runs/:run_id/rules
func (h *Handler) ReplaceRules(c echo.Context) error {
	ctx := c.Request().Context()

	var rules domain.Rules
	if err := c.Bind(&rules); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	run, err := h.service.ReplaceRules(ctx, c.Param("run_id"), rules, auth.UserID(c))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, run)
}

// GetBuckets returns the derived Team/Box/Fainted/Missed view.
// GET /v1/runs/:run_id/buckets
func (h *Handler) GetBuckets(c echo.Context) error {
	ctx := c.Request().Context()

	buckets, err := h.service.Buckets(ctx, c.Param("run_id"), auth.UserID(c))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, buckets)
}
