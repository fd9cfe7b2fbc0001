package httpserver

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/store_manager/pkg/logging"
)

type ReadyCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

type HealthHTTP struct {
	Checks []ReadyCheck
}

func (h *HealthHTTP) Live(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

// Ready fails on the first dependency that does not answer.
func (h *HealthHTTP) Ready(c echo.Context) error {
	ctx := c.Request().Context()
	for _, rc := range h.Checks {
		if err := rc.Check(ctx); err != nil {
			logging.FromContext(ctx).Warn("ready_check_failed", "dependency", rc.Name, "error", err)
			return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "dependency": rc.Name})
		}
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
