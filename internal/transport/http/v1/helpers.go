package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/xDerniexD/nuzlocke-tracker/internal/service"
)

// writeError maps a service failure onto the HTTP surface. A flagged
// duplicate conflict gets its own status so the client can offer the
// confirm-and-retry path.
func writeError(c echo.Context, err error) error {
	if svcErr, ok := service.AsError(err); ok {
		switch svcErr.Kind {
		case service.KindNotFound:
			return c.JSON(http.StatusNotFound, map[string]string{"error": svcErr.Message})
		case service.KindForbidden:
			return c.JSON(http.StatusForbidden, map[string]string{"error": svcErr.Message})
		case service.KindValidation:
			if svcErr.DupeConflict {
				return c.JSON(http.StatusConflict, map[string]interface{}{
					"error":         svcErr.Message,
					"dupe_conflict": true,
				})
			}
			return c.JSON(http.StatusBadRequest, map[string]string{"error": svcErr.Message})
		case service.KindUpstream:
			return c.JSON(http.StatusBadGateway, map[string]string{"error": svcErr.Message})
		}
	}
	return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
}
