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

type SendMessageRequest struct {
	To   string `json:"to" binding:"required"`
	Body string `json:"body" binding:"required"`
}

// SendMessage posts a short teacher/parent message. Either side may write;
// student accounts have no message surface.
func SendMessage(c *gin.Context) {
	role := c.GetString("role")
	if role != "teacher" && role != "parent" {
		utils.ErrorResponse(c, 403, "Forbidden, teacher or parent access required")
		return
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, 400, "Invalid request schema")
		return
	}

	msg := models.Message{
		ID:     primitive.NewObjectID(),
		From:   c.GetString("userId"),
		To:     req.To,
		Body:   req.Body,
		SentAt: time.Now().UTC(),
	}

	collection := database.DB.Collection("messages")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := collection.InsertOne(ctx, msg); err != nil {
		utils.ErrorResponse(c, 500, "Failed to send message")
		return
	}

	broadcastEvent("MESSAGE_POSTED", map[string]interface{}{
		"_id":    msg.ID.Hex(),
		"from":   msg.From,
		"to":     msg.To,
		"sentAt": msg.SentAt,
	})

	utils.SuccessResponse(c, 201, msg)
}

// ListMessages returns the caller's conversation with the peer given in the
// query, oldest first.
func ListMessages(c *gin.Context) {
	role := c.GetString("role")
	if role != "teacher" && role != "parent" {
		utils.ErrorResponse(c, 403, "Forbidden, teacher or parent access required")
		return
	}

	userID := c.GetString("userId")
	peer := c.Query("with")
	if peer == "" {
		utils.ErrorResponse(c, 400, "Missing 'with' query parameter")
		return
	}

	collection := database.DB.Collection("messages")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	filter := bson.M{"$or": []bson.M{
		{"from": userID, "to": peer},
		{"from": peer, "to": userID},
	}}
	opts := options.Find().SetSort(bson.M{"sentAt": 1})
	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		utils.ErrorResponse(c, 500, "Failed to fetch messages")
		return
	}
	defer cursor.Close(ctx)

	messages := []models.Message{}
	if err := cursor.All(ctx, &messages); err != nil {
		utils.ErrorResponse(c, 500, "Failed to decode messages")
		return
	}

	utils.SuccessResponse(c, 200, messages)
}
