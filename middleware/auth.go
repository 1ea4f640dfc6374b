package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"kitten-game/utils"
)

const (
	CtxPlayerID = "playerID"
	CtxMatchID  = "matchID"
)

// AuthMiddleware 校验座位 token，路由里带 :matchID 时要求与 token 中的对局一致
func AuthMiddleware(issuer *utils.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := strings.TrimSpace(strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer "))
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"status_code": http.StatusUnauthorized, "msg": "未授权"})
			return
		}
		claims, err := issuer.Parse(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"status_code": http.StatusUnauthorized, "msg": "token 无效"})
			return
		}
		if matchID := c.Param("matchID"); matchID != "" && matchID != claims.MatchID {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"status_code": http.StatusForbidden, "msg": "token 不属于该对局"})
			return
		}
		c.Set(CtxPlayerID, claims.PlayerID)
		c.Set(CtxMatchID, claims.MatchID)
		c.Next()
	}
}
