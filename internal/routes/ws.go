package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/ifrasafa/docree-project/internal/websocket"
)

func WebSocketRoutes(r *gin.Engine, hub *websocket.Hub) {
	r.GET("/ws", hub.HandleWebSocket)
}
