package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/ifrasafa/docree-project/internal/handlers"
	"github.com/ifrasafa/docree-project/internal/middleware"
)

func MessageRoutes(r *gin.Engine) {
	r.POST("/messages", middleware.AuthMiddleware(), handlers.SendMessage)
	r.GET("/messages", middleware.AuthMiddleware(), handlers.ListMessages)
}
