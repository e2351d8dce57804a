package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/loaniq/loaniq-go/tool"
)

// OnlyAllowLocal rejects every caller that is not on the loopback interface.
func OnlyAllowLocal(c *gin.Context) {
	if ip := c.ClientIP(); ip == "127.0.0.1" || ip == "::1" {
		c.Next()
		return
	}
	tool.DefaultLogger.Warnf("[Server] Rejected non-local request from %s to %s", c.ClientIP(), c.Request.URL.Path)
	c.AbortWithStatusJSON(http.StatusForbidden, tool.FastReturnError("Forbidden"))
}
