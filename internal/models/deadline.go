package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Deadline is a homework deadline posted by a teacher.
type Deadline struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Title    string             `bson:"title" json:"title"`
	Details  string             `bson:"details" json:"details"`
	DueAt    time.Time          `bson:"dueAt" json:"dueAt"`
	PostedBy string             `bson:"postedBy" json:"postedBy"`
	PostedAt time.Time          `bson:"postedAt" json:"postedAt"`
}

// Submission is one student's work against a deadline. At most one per
// student and deadline; duplicates are rejected, not merged.
type Submission struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	DeadlineID  primitive.ObjectID `bson:"deadlineId" json:"deadlineId"`
	StudentID   string             `bson:"studentId" json:"studentId"`
	StudentName string             `bson:"studentName" json:"studentName"`
	Content     string             `bson:"content" json:"content"`
	SubmittedAt time.Time          `bson:"submittedAt" json:"submittedAt"`
}
