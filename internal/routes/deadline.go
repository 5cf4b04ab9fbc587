package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/ifrasafa/docree-project/internal/handlers"
	"github.com/ifrasafa/docree-project/internal/middleware"
)

func DeadlineRoutes(r *gin.Engine) {
	r.POST("/deadlines", middleware.AuthMiddleware(), handlers.PostDeadline)
	r.GET("/deadlines", middleware.AuthMiddleware(), handlers.ListDeadlines)
	r.POST("/deadlines/:id/submissions", middleware.AuthMiddleware(), handlers.SubmitWork)
	r.GET("/deadlines/:id/submissions", middleware.AuthMiddleware(), handlers.ListSubmissions)
}
