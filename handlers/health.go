package handlers

import (
	"net/http"

	"voyago/utils"

	"github.com/gin-gonic/gin"
)

// HealthCheck reports the latest snapshot from the background monitor.
func HealthCheck(c *gin.Context) {
	status := utils.GetHealthStatus()

	code := http.StatusOK
	if !status.BookingsStore {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, status)
}
