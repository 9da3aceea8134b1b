// Package v1 provides the external HTTP API.
package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/xDerniexD/nuzlocke-tracker/internal/auth"
	"github.com/xDerniexD/nuzlocke-tracker/internal/service"
)

// Handler handles HTTP requests.
type Handler struct {
	service *service.Service
}

// NewHandler creates a new handler.
func NewHandler(service *service.Service) *Handler {
	return &Handler{
		service: service,
	}
}

// RegisterRoutes registers external routes with the echo server.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	// Public API
	e.GET("/v1/spectate/:spectator_id", h.Spectate)
	e.GET("/health", h.Health)

	// Authenticated API
	g := e.Group("/v1/runs", auth.RequireUser)
	g.POST("", h.CreateRun)
	g.GET("", h.ListRuns)
	g.POST("/join", h.JoinRun)
	g.POST("/join-editor", h.JoinAsEditor)
	g.GET("/:run_id", h.GetRun)
	g.DELETE("/:run_id", h.DeleteRun)
	g.PUT("/:run_id/archive", h.ToggleArchive)
	g.POST("/:run_id/invite-editor", h.InviteEditor)
	g.DELETE("/:run_id/editors/:user_id", h.RemoveEditor)

	g.GET("/:run_id/buckets", h.GetBuckets)
	g.PUT("/:run_id/encounters/:slot_id", h.UpdateEncounter)
	g.POST("/:run_id/encounters/:slot_id/clear", h.ClearEncounter)
	g.POST("/:run_id/encounters/:slot_id/evolve", h.EvolveEncounter)
	g.PUT("/:run_id/reorder", h.Reorder)
	g.PUT("/:run_id/team", h.ReplaceTeam)
	g.PUT("/:run_id/rules", h.ReplaceRules)

	g.POST("/:run_id/legendary", h.AddLegendary)
	g.DELETE("/:run_id/legendary/generic/:player_id", h.RemoveGenericLegendary)
	g.DELETE("/:run_id/legendary/:entry_id", h.RemoveLegendary)
}

// Health returns health status.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": "0.1.0",
	})
}
