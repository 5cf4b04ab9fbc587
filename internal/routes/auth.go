package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/ifrasafa/docree-project/internal/handlers"
	"github.com/ifrasafa/docree-project/internal/middleware"
)

func AuthRoutes(r *gin.Engine) {
	auth := r.Group("/auth")
	{
		auth.POST("/signup", handlers.Signup)
		auth.POST("/login", handlers.Login)
		auth.GET("/me", middleware.AuthMiddleware(), handlers.Me)
	}
}
