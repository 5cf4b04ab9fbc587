package main

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ifrasafa/docree-project/internal/attendance"
	"github.com/ifrasafa/docree-project/internal/attendance/mongostore"
	"github.com/ifrasafa/docree-project/internal/config"
	"github.com/ifrasafa/docree-project/internal/database"
	"github.com/ifrasafa/docree-project/internal/handlers"
	"github.com/ifrasafa/docree-project/internal/logging"
	"github.com/ifrasafa/docree-project/internal/roles"
	"github.com/ifrasafa/docree-project/internal/routes"
	"github.com/ifrasafa/docree-project/internal/utils"
	"github.com/ifrasafa/docree-project/internal/websocket"
)

func main() {
	if gin.Mode() == gin.ReleaseMode {
		logger, _ := zap.NewProduction()
		logging.SetLogger(logger)
	}
	defer logging.GetLogger().Sync()

	config.Load()

	mongoURI := config.MustGetEnv("MONGODB_URI")
	dbName := config.GetEnv("MONGODB_DB", "docree")
	if err := database.ConnectDB(mongoURI, dbName); err != nil {
		logging.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer database.Disconnect(context.Background())

	if err := utils.InitJWKS(); err != nil {
		logging.Fatalf("Failed to initialize JWKS: %v", err)
	}

	store := mongostore.New(database.DB)
	dir := roles.NewMongoDirectory(database.DB.Collection("users"))
	svc, err := attendance.NewService(store, dir)
	if err != nil {
		logging.Fatalf("Failed to build attendance service: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go svc.Run(ctx, config.GetDuration("ATTENDANCE_EXPIRY_INTERVAL", "1s"))

	hub := websocket.NewHub(svc, utils.ValidateToken)
	if err := hub.Subscribe(ctx); err != nil {
		logging.Fatalf("Failed to attach live hub: %v", err)
	}
	defer hub.Unsubscribe()
	handlers.SetNotifier(hub)

	r := gin.Default()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"success": true,
			"data": gin.H{
				"status": "Server is running",
			},
		})
	})

	routes.AuthRoutes(r)
	routes.ClassRoutes(r)
	routes.AttendanceRoutes(r, handlers.NewAttendanceHandler(svc))
	routes.NoticeRoutes(r)
	routes.MessageRoutes(r)
	routes.DeadlineRoutes(r)
	routes.WebSocketRoutes(r, hub)

	port := config.GetEnv("PORT", "3000")
	logging.Infof("Server running on port %s", port)
	if err := r.Run(":" + port); err != nil {
		logging.Fatalf("Server stopped: %v", err)
	}
}
