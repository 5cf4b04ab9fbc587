package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/ifrasafa/docree-project/internal/handlers"
	"github.com/ifrasafa/docree-project/internal/middleware"
)

func AttendanceRoutes(r *gin.Engine, h *handlers.AttendanceHandler) {
	r.POST("/attendance/open", middleware.AuthMiddleware(), h.Open)
	r.POST("/attendance/close", middleware.AuthMiddleware(), h.Close)
	r.POST("/attendance/mark", middleware.AuthMiddleware(), h.Mark)
	r.GET("/attendance/status", middleware.AuthMiddleware(), h.Status)
	r.GET("/attendance/:date/roster", middleware.AuthMiddleware(), h.Roster)
}
