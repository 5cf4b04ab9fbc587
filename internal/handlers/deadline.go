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

type PostDeadlineRequest struct {
	Title   string    `json:"title" binding:"required"`
	Details string    `json:"details"`
	DueAt   time.Time `json:"dueAt" binding:"required"`
}

type SubmitWorkRequest struct {
	Content string `json:"content" binding:"required"`
}

func PostDeadline(c *gin.Context) {
	if c.GetString("role") != "teacher" {
		utils.ErrorResponse(c, 403, "Forbidden, teacher access required")
		return
	}

	var req PostDeadlineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, 400, "Invalid request schema")
		return
	}

	deadline := models.Deadline{
		ID:       primitive.NewObjectID(),
		Title:    req.Title,
		Details:  req.Details,
		DueAt:    req.DueAt,
		PostedBy: c.GetString("userId"),
		PostedAt: time.Now().UTC(),
	}

	collection := database.DB.Collection("deadlines")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := collection.InsertOne(ctx, deadline); err != nil {
		utils.ErrorResponse(c, 500, "Failed to post deadline")
		return
	}

	broadcastEvent("DEADLINE_POSTED", map[string]interface{}{
		"_id":   deadline.ID.Hex(),
		"title": deadline.Title,
		"dueAt": deadline.DueAt,
	})

	utils.SuccessResponse(c, 201, deadline)
}

func ListDeadlines(c *gin.Context) {
	collection := database.DB.Collection("deadlines")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.M{"dueAt": 1})
	cursor, err := collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		utils.ErrorResponse(c, 500, "Failed to fetch deadlines")
		return
	}
	defer cursor.Close(ctx)

	deadlines := []models.Deadline{}
	if err := cursor.All(ctx, &deadlines); err != nil {
		utils.ErrorResponse(c, 500, "Failed to decode deadlines")
		return
	}

	utils.SuccessResponse(c, 200, deadlines)
}

// SubmitWork stores one submission per student and deadline; a second
// attempt is rejected, not merged.
func SubmitWork(c *gin.Context) {
	if c.GetString("role") != "student" {
		utils.ErrorResponse(c, 403, "Forbidden, student access required")
		return
	}

	deadlineID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, 400, "Invalid deadline ID")
		return
	}

	var req SubmitWorkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, 400, "Invalid request schema")
		return
	}

	userID := c.GetString("userId")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	deadlines := database.DB.Collection("deadlines")
	var deadline models.Deadline
	if err := deadlines.FindOne(ctx, bson.M{"_id": deadlineID}).Decode(&deadline); err != nil {
		utils.ErrorResponse(c, 404, "Deadline not found")
		return
	}

	submissions := database.DB.Collection("submissions")
	count, err := submissions.CountDocuments(ctx, bson.M{
		"deadlineId": deadlineID,
		"studentId":  userID,
	})
	if err != nil {
		utils.ErrorResponse(c, 500, "Internal server error")
		return
	}
	if count > 0 {
		utils.ErrorResponse(c, 409, "Already submitted for this deadline")
		return
	}

	var user models.User
	studentName := userID
	if err := database.DB.Collection("users").FindOne(ctx, bson.M{"auth0Id": userID}).Decode(&user); err == nil {
		studentName = user.Name
	}

	sub := models.Submission{
		ID:          primitive.NewObjectID(),
		DeadlineID:  deadlineID,
		StudentID:   userID,
		StudentName: studentName,
		Content:     req.Content,
		SubmittedAt: time.Now().UTC(),
	}
	if _, err := submissions.InsertOne(ctx, sub); err != nil {
		utils.ErrorResponse(c, 500, "Failed to submit work")
		return
	}

	utils.SuccessResponse(c, 201, sub)
}

func ListSubmissions(c *gin.Context) {
	if c.GetString("role") != "teacher" {
		utils.ErrorResponse(c, 403, "Forbidden, teacher access required")
		return
	}

	deadlineID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, 400, "Invalid deadline ID")
		return
	}

	collection := database.DB.Collection("submissions")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.M{"submittedAt": 1})
	cursor, err := collection.Find(ctx, bson.M{"deadlineId": deadlineID}, opts)
	if err != nil {
		utils.ErrorResponse(c, 500, "Failed to fetch submissions")
		return
	}
	defer cursor.Close(ctx)

	subs := []models.Submission{}
	if err := cursor.All(ctx, &subs); err != nil {
		utils.ErrorResponse(c, 500, "Failed to decode submissions")
		return
	}

	utils.SuccessResponse(c, 200, subs)
}
