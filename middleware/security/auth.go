package security

import (
	"net/http"
	"strings"

	"ChatLink/tools/errs"
	sec "ChatLink/tools/security"

	"github.com/gin-gonic/gin"
)

// Context key the downstream handlers read the verified user id from.
const CtxUserIDKey = "authUserID"

// Middleware authenticates REST requests with the same bearer tokens the
// WebSocket handshake consumes. Accepts Authorization: Bearer or a plain
// token header.
func Middleware(opts sec.Options) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := strings.TrimSpace(c.GetHeader("token"))
		if token == "" {
			if authz := strings.TrimSpace(c.GetHeader("Authorization")); authz != "" {
				if strings.HasPrefix(strings.ToLower(authz), "bearer ") {
					token = strings.TrimSpace(authz[len("bearer "):])
				}
			}
		}

		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errs.ErrTokenInvalid)
			return
		}

		userID, err := sec.Verify(opts, token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errs.ErrTokenInvalid)
			return
		}

		c.Set(CtxUserIDKey, userID)
		c.Next()
	}
}
