package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// getHome godoc
// @Summary Service banner
// @Description Returns the service name; useful as a liveness probe target
// @Tags home
// @Produce  plain
// @Success 200 {string} string "inventory costing engine"
// @Router / [get]
func getHome(c *gin.Context) {
	c.String(http.StatusOK, "inventory costing engine")
}
