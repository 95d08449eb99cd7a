package handlers

import (
	"net/http"

	"servana/utils"

	"github.com/gin-gonic/gin"
)

// Health reports the last observed status of the external collaborators.
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, utils.GetHealthStatus())
}
