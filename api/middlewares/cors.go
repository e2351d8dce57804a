package middlewares

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
)

// AllowLocalCORS lets a dashboard served from another localhost port call the API.
func AllowLocalCORS(c *gin.Context) {
	origin := c.GetHeader("Origin")
	if origin != "" && isLocalOrigin(origin) {
		c.Header("Access-Control-Allow-Origin", origin)
		c.Header("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")
		c.Header("Vary", "Origin")
	}
	if c.Request.Method == http.MethodOptions {
		c.AbortWithStatus(http.StatusNoContent)
		return
	}
	c.Next()
}

func isLocalOrigin(origin string) bool {
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	switch u.Hostname() {
	case "localhost", "127.0.0.1", "::1":
		return true
	}
	return false
}
