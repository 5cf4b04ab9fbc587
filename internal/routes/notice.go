package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/ifrasafa/docree-project/internal/handlers"
	"github.com/ifrasafa/docree-project/internal/middleware"
)

func NoticeRoutes(r *gin.Engine) {
	r.POST("/notices", middleware.AuthMiddleware(), handlers.PostNotice)
	r.GET("/notices", middleware.AuthMiddleware(), handlers.ListNotices)
}
