package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/xDerniexD/nuzlocke-tracker/internal/auth"
	"github.com/xDerniexD/nuzlocke-tracker/internal/service"
)

// CreateRun creates a new run with its full encounter timeline.
// POST /v1/runs
func (h *Handler) CreateRun(c echo.Context) error {
	ctx := c.Request().Context()

	var req service.CreateRunRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	run, err := h.service.CreateRun(ctx, req, auth.UserID(c))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, run)
}

// ListRuns lists all runs the user belongs to.
// GET /v1/runs
func (h *Handler) ListRuns(c echo.Context) error {
	ctx := c.Request().Context()

	runs, err := h.service.ListRuns(ctx, auth.UserID(c))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"runs": runs,
	})
}

// GetRun gets a specific run by ID.
// GET /v1/runs/:run_id
func (h *Handler) GetRun(c echo.Context) error {
	ctx := c.Request().Context()

	run, err := h.service.GetRun(ctx, c.Param("run_id"), auth.UserID(c))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, run)
}

// DeleteRun deletes a run. Participants only.
// DELETE /v1/runs/:run_id
func (h *Handler) DeleteRun(c echo.Context) error {
	ctx := c.Request().Context()

	if err := h.service.DeleteRun(ctx, c.Param("run_id"), auth.UserID(c)); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]bool{"ok": true})
}

// JoinRunRequest is the request to join a run as the second player.
type JoinRunRequest struct {
	InviteCode string `json:"invite_code"`
}

// JoinRun consumes a one-time invite code.
// POST /v1/runs/join
func (h *Handler) JoinRun(c echo.Context) error {
	ctx := c.Request().Context()

	var req JoinRunRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if req.InviteCode == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invite_code is required"})
	}

	run, err := h.service.JoinRun(ctx, req.InviteCode, auth.UserID(c))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, run)
}

// JoinAsEditorRequest is the request to join a run as an editor.
type JoinAsEditorRequest struct {
	EditorInviteCode string `json:"editor_invite_code"`
}

// JoinAsEditor redeems a reusable editor invite code.
// POST /v1/runs/join-editor
func (h *Handler) JoinAsEditor(c echo.Context) error {
	ctx := c.Request().Context()

	var req JoinAsEditorRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if req.EditorInviteCode == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "editor_invite_code is required"})
	}

	run, err := h.service.JoinAsEditor(ctx, req.EditorInviteCode, auth.UserID(c))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, run)
}

// InviteEditor returns the run's editor invite code, minting one on
// first use. Participants only.
// POST /v1/runs/:run_id/invite-editor
func (h *Handler) InviteEditor(c echo.Context) error {
	ctx := c.Request().Context()

	code, err := h.service.EditorInviteCode(ctx, c.Param("run_id"), auth.UserID(c))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]string{
		"editor_invite_code": code,
	})
}

// RemoveEditor revokes an editor's membership. Participants only.
// DELETE /v1/runs/:run_id/editors/:user_id
func (h *Handler) RemoveEditor(c echo.Context) error {
	ctx := c.Request().Context()

	run, err := h.service.RemoveEditor(ctx, c.Param("run_id"), c.Param("user_id"), auth.UserID(c))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, run)
}

// ToggleArchive flips the run's archived flag. Participants only.
// POST /v1/runs/:run_id/archive
func (h *Handler) ToggleArchive(c echo.Context) error {
	ctx := c.Request().Context()

	run, err := h.service.ToggleArchive(ctx, c.Param("run_id"), auth.UserID(c))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, run)
}
