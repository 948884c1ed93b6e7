package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Origin is the CORS policy: requests without an Origin header (curl,
// server-to-server) pass, whitelisted browsers pass with credentials,
// everything else is rejected.
func Origin(allowed []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" {
			ok := false
			for _, a := range allowed {
				if strings.EqualFold(a, origin) {
					ok = true
					break
				}
			}
			if !ok {
				c.AbortWithStatus(http.StatusForbidden)
				return
			}
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type")
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
