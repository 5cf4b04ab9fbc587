package handlers

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ifrasafa/docree-project/internal/database"
	"github.com/ifrasafa/docree-project/internal/models"
	"github.com/ifrasafa/docree-project/internal/utils"
)

type PostNoticeRequest struct {
	Title string `json:"title" binding:"required"`
	Body  string `json:"body" binding:"required"`
}

func PostNotice(c *gin.Context) {
	if c.GetString("role") != "teacher" {
		utils.ErrorResponse(c, 403, "Forbidden, teacher access required")
		return
	}

	var req PostNoticeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, 400, "Invalid request schema")
		return
	}

	notice := models.Notice{
		ID:       primitive.NewObjectID(),
		Title:    req.Title,
		Body:     req.Body,
		PostedBy: c.GetString("userId"),
		PostedAt: time.Now().UTC(),
	}

	collection := database.DB.Collection("notices")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := collection.InsertOne(ctx, notice); err != nil {
		utils.ErrorResponse(c, 500, "Failed to post notice")
		return
	}

	broadcastEvent("NOTICE_POSTED", map[string]interface{}{
		"_id":      notice.ID.Hex(),
		"title":    notice.Title,
		"body":     notice.Body,
		"postedAt": notice.PostedAt,
	})

	utils.SuccessResponse(c, 201, notice)
}

func ListNotices(c *gin.Context) {
	collection := database.DB.Collection("notices")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.M{"postedAt": -1})
	cursor, err := collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		utils.ErrorResponse(c, 500, "Failed to fetch notices")
		return
	}
	defer cursor.Close(ctx)

	notices := []models.Notice{}
	if err := cursor.All(ctx, &notices); err != nil {
		utils.ErrorResponse(c, 500, "Failed to decode notices")
		return
	}

	utils.SuccessResponse(c, 200, notices)
}
