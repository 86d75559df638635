package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// healthHandler reports process liveness.
//
//	@Summary	Liveness probe
//	@Tags		health
//	@Produce	json
//	@Success	200	{object}	map[string]string	"Service is up"
//	@Router		/healthz [get]
func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
