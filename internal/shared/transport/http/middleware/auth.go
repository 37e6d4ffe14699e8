package middleware

import (
	"net/http"

	"WordDice/internal/shared/security"
	"WordDice/internal/shared/transport"

	"github.com/gin-gonic/gin"
)

const ClaimsKey = "claims"

// Auth 校验 Bearer token。enabled 每次请求都会调用，配置热更新后即时生效。
func Auth(enabled func() bool, scope string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if enabled != nil && !enabled() {
			c.Next()
			return
		}

		claims, err := security.Authorize(c.GetHeader("Authorization"), scope)
		if err != nil {
			transport.SetErrorReason(c.Request.Context(), err.Error())
			abortToken(c, security.DenyMessage(err))
			return
		}
		c.Set(ClaimsKey, claims)
		c.Next()
	}
}

func abortToken(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusOK, gin.H{"code": transport.TokenInvalid, "msg": msg})
}
