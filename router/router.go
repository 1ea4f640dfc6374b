package router

import (
	"github.com/gin-gonic/gin"

	"kitten-game/controller"
	"kitten-game/middleware"
	"kitten-game/utils"
	"kitten-game/ws"
)

func InitRouter(r *gin.Engine, matches *controller.MatchController, wsHandler *ws.Handler, tokens *utils.TokenIssuer) {
	auth := middleware.AuthMiddleware(tokens)

	// 对局接口
	api := r.Group("/match")
	{
		api.POST("/create", matches.CreateMatch)
		api.POST("/join", matches.JoinMatch)
		api.GET("/:matchID", auth, matches.GetMatch)
		api.GET("/:matchID/poll", auth, matches.Poll)
		api.POST("/:matchID/start", auth, matches.StartMatch)
		api.POST("/:matchID/action", auth, matches.SubmitAction)
	}

	r.GET("/player/:playerID/stats", matches.PlayerStats)

	// WebSocket 路由
	r.GET("/ws", wsHandler.HandleWebSocket)
}
