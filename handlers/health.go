package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Check reports whether a backing service is reachable.
type Check func(ctx context.Context) error

type HealthController struct {
	checks map[string]Check
}

func NewHealthController(checks map[string]Check) *HealthController {
	return &HealthController{checks: checks}
}

func (hc *HealthController) HealthCheck(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	services := make(map[string]string, len(hc.checks))
	for name, check := range hc.checks {
		if err := check(ctx); err != nil {
			services[name] = "down: " + err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		services[name] = "up"
	}

	return c.JSON(status, map[string]interface{}{
		"success":  status == http.StatusOK,
		"status":   http.StatusText(status),
		"services": services,
		"time":     time.Now().UTC(),
	})
}
